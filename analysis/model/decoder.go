package model

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/memory"
	"github.com/cs-au-dk/symheap/analysis/region"
	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/hmap"
	"github.com/cs-au-dk/symheap/utils/tree"
)

// Decoder decodes collections under one model. Regions are lazy unless
// Eager is set, in which case they are decoded immediately and every point
// the model or the update log names is evaluated up front.
type Decoder struct {
	Model expr.Model
	Eager bool

	translator *collection.Translator
	addrs      *hmap.Map[expr.Expr, int]
}

func NewDecoder(model expr.Model) *Decoder {
	return &Decoder{
		Model:      model,
		translator: collection.NewTranslator(),
		addrs:      hmap.NewMap[int](utils.HashableHasher[expr.Expr]()),
	}
}

// Address is EnsureConcrete under the decoder's model, memoized per
// reference.
func (d *Decoder) Address(ref expr.Expr) int {
	if a, found := d.addrs.GetOk(ref); found {
		return a
	}
	a := EnsureConcrete(d.Model, ref)
	d.checkPartition(ref, a)
	d.addrs.Set(ref, a)
	return a
}

// checkPartition panics if the input part of ref is selected under the
// model but denotes an allocated address. Reads rely on input references
// never aliasing allocated objects.
func (d *Decoder) checkPartition(ref expr.Expr, a int) {
	if collection.PartitionOf(expr.MkAddr(a)) != collection.Allocated {
		return
	}
	collection.FoldRef(ref, expr.True,
		func(int, expr.Expr) {},
		func(sym, cond expr.Expr) {
			if expr.IsTrue(d.Model.Eval(cond)) {
				panic(fmt.Errorf("%w: %v ↦ #%d", errInputAllocated, sym, a))
			}
		})
}

func (d *Decoder) region(decode func() Region) Region {
	if d.Eager {
		return decode()
	}
	return NewLazyRegion(decode)
}

// DecodeInput decodes the model's interpretation of the base content of an
// input collection with the given number of key arguments.
func (d *Decoder) DecodeInput(id collection.CollectionID, arity int) Region {
	return d.region(func() Region {
		interp, found := d.Model.Array(id.Name())
		if !found {
			return NewEagerRegion(arity, id.Sort.Default())
		}

		res := NewEagerRegion(arity, interp.Default)
		for _, e := range interp.Entries {
			res = res.With(e.Value, e.Args...)
		}
		return res
	})
}

// Decode decodes the content of a collection.
func Decode[K any, R region.Region[R]](d *Decoder, c collection.Collection[K, R]) Region {
	return d.region(func() Region {
		r := &arrayRegion{
			model: d.Model,
			array: collection.Translate(d.translator, c),
			cache: tree.NewTree[Key, expr.Expr](keyHasher{}),
		}
		if d.Eager {
			for _, key := range points(d.Model, c) {
				r.Read(key...)
			}
		}
		return r
	})
}

// points lists the keys the model interprets explicitly for the base of c,
// followed by the keys of its pinpoint updates under the model.
func points[K any, R region.Region[R]](model expr.Model, c collection.Collection[K, R]) []Key {
	res := []Key{}
	if c.ID.IsInput() {
		if interp, found := model.Array(c.ID.Name()); found {
			for _, e := range interp.Entries {
				res = append(res, Key(e.Args))
			}
		}
	}

	c.Updates().ForEach(func(u collection.UpdateNode[K], _ R) {
		p, ok := u.(*collection.PinpointUpdate[K])
		if !ok {
			return
		}
		args := c.Keys.Args(p.Key)
		key := make(Key, len(args))
		for i, a := range args {
			key[i] = model.Eval(a)
		}
		res = append(res, key)
	})
	return res
}

// EnsureConcrete resolves a reference to the address the model assigns it.
func EnsureConcrete(model expr.Model, ref expr.Expr) int {
	a, ok := expr.AsAddress(model.Eval(ref))
	if !ok {
		panic(fmt.Errorf("%w: %v", errNotAddress, ref))
	}
	return a
}

// RefMapModel is a decoded reference-keyed map region.
type RefMapModel struct {
	d      *Decoder
	r      memory.RefMapRegion
	single map[collection.Partition]map[int]Region
	shared map[collection.Partition]Region
}

func (d *Decoder) RefMap(r memory.RefMapRegion) *RefMapModel {
	return &RefMapModel{
		d: d,
		r: r,
		single: map[collection.Partition]map[int]Region{
			collection.Allocated: {},
			collection.Input:     {},
		},
		shared: map[collection.Partition]Region{},
	}
}

// Read resolves both references under the model and reads the decoded
// partition they route to.
func (m *RefMapModel) Read(mapRef, keyRef expr.Expr) expr.Expr {
	ma, ka := m.d.Address(mapRef), m.d.Address(keyRef)
	key := expr.MkAddr(ka)

	mp, kp := memory.Route(expr.MkAddr(ma), key)
	if mp == collection.Allocated {
		reg, found := m.single[kp][ma]
		if !found {
			reg = Decode(m.d, m.r.Single(kp, ma))
			m.single[kp][ma] = reg
		}
		return reg.Read(key)
	}

	reg, found := m.shared[kp]
	if !found {
		reg = Decode(m.d, m.r.Shared(kp))
		m.shared[kp] = reg
	}
	return reg.Read(expr.MkAddr(ma), key)
}
