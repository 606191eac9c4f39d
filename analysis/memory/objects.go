// Package memory implements the symbolic heap of an execution state: object
// fields, arrays with their lengths, and reference-keyed maps with their key
// sets. Every structure is persistent. Operations return an updated copy
// and the receiver stays valid, so forked states share their heap.
package memory

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
	i "github.com/cs-au-dk/symheap/utils/indenter"
	"github.com/cs-au-dk/symheap/utils/metrics"

	"github.com/benbjohnson/immutable"
)

var (
	errSortMismatch  = errors.New("sort mismatch")
	errUnknownLValue = errors.New("unknown lvalue")
)

type addrRegion = region.SetRegion[int]

// ObjectRegion stores one value per object. It holds a field of some name,
// or the lengths of the arrays of some type. Allocated objects have their
// own entry, while input objects share one collection indexed by reference.
type ObjectRegion struct {
	sort      expr.Sort
	allocated *immutable.SortedMap[int, expr.Expr]
	input     collection.Collection[expr.Expr, addrRegion]
}

func newObjectRegion(kind collection.Kind, typ string, sort expr.Sort) ObjectRegion {
	id := collection.CollectionID{Kind: kind, Type: typ, Sort: sort, Ref: collection.Input}
	return ObjectRegion{
		sort:      sort,
		allocated: immutable.NewSortedMap[int, expr.Expr](nil),
		input:     collection.New[expr.Expr, addrRegion](id, collection.AddressKeys{}),
	}
}

// NewFieldRegion creates the region of a field holding values of the given sort.
func NewFieldRegion(field string, sort expr.Sort) ObjectRegion {
	return newObjectRegion(collection.Field, field, sort)
}

// NewLengthRegion creates the region of the lengths of arrays of a type.
func NewLengthRegion(typ string) ObjectRegion {
	return newObjectRegion(collection.ArrayLength, typ, expr.IntSort)
}

// Input is the collection of the values of input objects.
func (r ObjectRegion) Input() collection.Collection[expr.Expr, addrRegion] {
	return r.input
}

func (r ObjectRegion) readAllocated(addr int) expr.Expr {
	if v, found := r.allocated.Get(addr); found {
		return v
	}
	return r.sort.Default()
}

func (r ObjectRegion) Read(ref expr.Expr) expr.Expr {
	return collection.ReadRef(ref, r.sort, r.readAllocated, r.input.Read)
}

// Write stores value in every object ref may denote, guarded by the
// condition under which ref denotes it.
func (r ObjectRegion) Write(ref, value, guard expr.Expr) ObjectRegion {
	if value.Sort() != r.sort {
		panic(fmt.Errorf("%w: writing %v into %v", errSortMismatch, value, r.input.ID))
	}

	collection.FoldRef(ref, guard,
		func(addr int, cond expr.Expr) {
			metrics.CollectionWrites.WithLabelValues(collection.Allocated.String()).Inc()
			r.allocated = r.allocated.Set(addr, expr.MkIte(cond, value, r.readAllocated(addr)))
		},
		func(sym, cond expr.Expr) {
			r.input = r.input.Write(sym, value, cond)
		})
	return r
}

func (r ObjectRegion) String() string {
	strs := []string{}
	for itr := r.allocated.Iterator(); !itr.Done(); {
		addr, v, _ := itr.Next()
		strs = append(strs, fmt.Sprintf("%v ↦ %v", expr.MkAddr(addr), v))
	}
	if !r.input.IsEmpty() {
		strs = append(strs, "input "+r.input.Updates().String())
	}
	if len(strs) == 0 {
		return "{}"
	}
	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}
