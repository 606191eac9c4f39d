package memory

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/expr"
	i "github.com/cs-au-dk/symheap/utils/indenter"
	"github.com/cs-au-dk/symheap/utils/logging"

	"github.com/benbjohnson/immutable"
	"github.com/rs/zerolog"
)

var logger = logging.For("memory")

// Memory is the heap of one execution state. Regions are created on first
// access, so a never-touched location reads as its input value when its
// owner is an input reference, and as the default of its sort otherwise.
type Memory struct {
	next    int
	fields  *immutable.SortedMap[string, ObjectRegion]
	arrays  *immutable.SortedMap[string, ArrayRegion]
	lengths *immutable.SortedMap[string, ObjectRegion]
	maps    *immutable.SortedMap[string, RefMapRegion]
	keys    *immutable.SortedMap[string, RefSetRegion]
}

func New() Memory {
	return Memory{
		next:    1,
		fields:  immutable.NewSortedMap[string, ObjectRegion](nil),
		arrays:  immutable.NewSortedMap[string, ArrayRegion](nil),
		lengths: immutable.NewSortedMap[string, ObjectRegion](nil),
		maps:    immutable.NewSortedMap[string, RefMapRegion](nil),
		keys:    immutable.NewSortedMap[string, RefSetRegion](nil),
	}
}

func sortedKey(name string, sort expr.Sort) string {
	return name + ":" + sort.String()
}

// Alloc returns a fresh allocated address. Addresses are handed out from 1
// upward. The null address 0 is never allocated.
func (m Memory) Alloc() (Memory, *expr.Address) {
	addr := expr.MkAddr(m.next)
	m.next++
	return m, addr
}

// AllocArray allocates an array of type typ with the given length.
func (m Memory) AllocArray(typ string, length expr.Expr) (Memory, *expr.Address) {
	m, addr := m.Alloc()
	return m.Write(ArrayLengthLValue{addr, typ}, length, expr.True), addr
}

func (m Memory) Field(name string, sort expr.Sort) ObjectRegion {
	if r, found := m.fields.Get(sortedKey(name, sort)); found {
		return r
	}
	return NewFieldRegion(name, sort)
}

func (m Memory) Array(typ string, sort expr.Sort) ArrayRegion {
	if r, found := m.arrays.Get(sortedKey(typ, sort)); found {
		return r
	}
	return NewArrayRegion(typ, sort)
}

func (m Memory) Length(typ string) ObjectRegion {
	if r, found := m.lengths.Get(typ); found {
		return r
	}
	return NewLengthRegion(typ)
}

func (m Memory) RefMap(typ string, sort expr.Sort) RefMapRegion {
	if r, found := m.maps.Get(sortedKey(typ, sort)); found {
		return r
	}
	return NewRefMapRegion(typ, sort)
}

func (m Memory) RefSet(typ string) RefSetRegion {
	if r, found := m.keys.Get(typ); found {
		return r
	}
	return NewRefSetRegion(typ)
}

func (m Memory) Read(lv LValue) expr.Expr {
	switch lv := lv.(type) {
	case FieldLValue:
		return m.Field(lv.Field, lv.Sort).Read(lv.Ref)
	case ArrayIndexLValue:
		return m.Array(lv.Type, lv.Sort).Read(lv.Ref, lv.Index)
	case ArrayLengthLValue:
		return m.Length(lv.Type).Read(lv.Ref)
	case RefMapLValue:
		return m.RefMap(lv.Type, lv.Sort).Read(lv.Map, lv.Key)
	case RefSetLValue:
		return m.RefSet(lv.Type).Contains(lv.Map, lv.Key)
	}
	panic(fmt.Errorf("%w: %T", errUnknownLValue, lv))
}

// Write stores value at lv when guard holds. Writing a map entry also adds
// its key to the key set of the map.
func (m Memory) Write(lv LValue, value, guard expr.Expr) Memory {
	if expr.IsFalse(guard) {
		return m
	}
	if logger.Enabled(zerolog.DebugLevel) {
		logger.Debug("write", map[string]any{
			"lvalue": lv.String(),
			"value":  value.String(),
			"guard":  guard.String(),
		})
	}

	switch lv := lv.(type) {
	case FieldLValue:
		r := m.Field(lv.Field, lv.Sort).Write(lv.Ref, value, guard)
		m.fields = m.fields.Set(sortedKey(lv.Field, lv.Sort), r)
	case ArrayIndexLValue:
		r := m.Array(lv.Type, lv.Sort).Write(lv.Ref, lv.Index, value, guard)
		m.arrays = m.arrays.Set(sortedKey(lv.Type, lv.Sort), r)
	case ArrayLengthLValue:
		m.lengths = m.lengths.Set(lv.Type, m.Length(lv.Type).Write(lv.Ref, value, guard))
	case RefMapLValue:
		r := m.RefMap(lv.Type, lv.Sort).Write(lv.Map, lv.Key, value, guard)
		m.maps = m.maps.Set(sortedKey(lv.Type, lv.Sort), r)
		m.keys = m.keys.Set(lv.Type, m.RefSet(lv.Type).Add(lv.Map, lv.Key, guard))
	case RefSetLValue:
		if value.Sort() != expr.BoolSort {
			panic(fmt.Errorf("%w: membership %v is not boolean", errSortMismatch, value))
		}
		keys := m.RefSet(lv.Type)
		m.keys = m.keys.Set(lv.Type, RefSetRegion{keys.write(lv.Map, lv.Key, value, guard)})
	default:
		panic(fmt.Errorf("%w: %T", errUnknownLValue, lv))
	}
	return m
}

// MapMerge copies the entries of the map at src into the map at dst when
// guard holds. Entries of dst whose key src lacks are kept.
func (m Memory) MapMerge(src, dst expr.Expr, typ string, sort expr.Sort, guard expr.Expr) Memory {
	if expr.IsFalse(guard) {
		return m
	}

	keys := m.RefSet(typ)
	values := m.RefMap(typ, sort).Merge(src, dst, keys, guard)
	m.maps = m.maps.Set(sortedKey(typ, sort), values)
	m.keys = m.keys.Set(typ, keys.Union(src, dst, guard))
	return m
}

// ArrayCopy copies length elements of the array at src, from srcFrom
// onward, into the array at dst from dstFrom onward.
func (m Memory) ArrayCopy(typ string, sort expr.Sort, src, dst, srcFrom, dstFrom, length, guard expr.Expr) Memory {
	if expr.IsFalse(guard) {
		return m
	}

	r := m.Array(typ, sort).Copy(src, dst, srcFrom, dstFrom, length, guard)
	m.arrays = m.arrays.Set(sortedKey(typ, sort), r)
	return m
}

func (m Memory) String() string {
	strs := []string{}
	section := func(kind, name string, r fmt.Stringer) {
		strs = append(strs, kind+" "+name+" "+r.String())
	}

	for itr := m.fields.Iterator(); !itr.Done(); {
		name, r, _ := itr.Next()
		section("field", name, r)
	}
	for itr := m.arrays.Iterator(); !itr.Done(); {
		name, r, _ := itr.Next()
		section("array", name, r)
	}
	for itr := m.lengths.Iterator(); !itr.Done(); {
		name, r, _ := itr.Next()
		section("length", name, r)
	}
	for itr := m.maps.Iterator(); !itr.Done(); {
		name, r, _ := itr.Next()
		section("map", name, r)
	}
	for itr := m.keys.Iterator(); !itr.Done(); {
		name, r, _ := itr.Next()
		section("keys", name, r)
	}

	if len(strs) == 0 {
		return "{}"
	}
	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}
