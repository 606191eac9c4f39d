package memory

import (
	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
	i "github.com/cs-au-dk/symheap/utils/indenter"
	"github.com/cs-au-dk/symheap/utils/metrics"

	"github.com/benbjohnson/immutable"
	"golang.org/x/tools/container/intsets"
)

type (
	pairRegion = region.ProductRegion[addrRegion, addrRegion]

	singleMap = collection.Collection[expr.Expr, addrRegion]
	sharedMap = collection.Collection[collection.Pair, pairRegion]
)

var pairKeys = collection.PairKeys[addrRegion, addrRegion]{
	First:  collection.AddressKeys{},
	Second: collection.AddressKeys{},
}

// Route names the partition holding the entry of a (map, key) reference
// pair: the partition of the map reference, then that of the key.
func Route(mapRef, keyRef expr.Expr) (collection.Partition, collection.Partition) {
	return collection.PartitionOf(mapRef), collection.PartitionOf(keyRef)
}

// partitions splits a reference-keyed map by the concreteness of the map
// reference and of the key. Allocated maps own one collection per key
// partition. Input maps share one collection per key partition, indexed by
// (map, key) pairs. Allocated keys never reach the collections of input keys.
type partitions struct {
	id     collection.CollectionID
	aa, ai *immutable.SortedMap[int, singleMap]
	ia, ii sharedMap
}

func newPartitions(kind collection.Kind, typ string, sort expr.Sort) partitions {
	id := collection.CollectionID{Kind: kind, Type: typ, Sort: sort, Ref: collection.Input}
	ia, ii := id, id
	ia.Key, ii.Key = collection.Allocated, collection.Input

	return partitions{
		id: id,
		aa: immutable.NewSortedMap[int, singleMap](nil),
		ai: immutable.NewSortedMap[int, singleMap](nil),
		ia: collection.New[collection.Pair, pairRegion](ia, pairKeys),
		ii: collection.New[collection.Pair, pairRegion](ii, pairKeys),
	}
}

// single returns the collection of the allocated map at addr holding the
// keys of the given partition.
func (p partitions) single(key collection.Partition, addr int) singleMap {
	parts := p.aa
	if key == collection.Input {
		parts = p.ai
	}
	if c, found := parts.Get(addr); found {
		return c
	}

	id := p.id
	id.Ref, id.Key, id.Addr = collection.Allocated, key, addr
	return collection.New[expr.Expr, addrRegion](id, collection.AddressKeys{})
}

func (p *partitions) setSingle(key collection.Partition, addr int, c singleMap) {
	if key == collection.Input {
		p.ai = p.ai.Set(addr, c)
	} else {
		p.aa = p.aa.Set(addr, c)
	}
}

// shared returns the collection of input maps holding the keys of the given
// partition.
func (p partitions) shared(key collection.Partition) sharedMap {
	if key == collection.Input {
		return p.ii
	}
	return p.ia
}

func (p partitions) read(mapRef, keyRef expr.Expr) expr.Expr {
	sort := p.id.Sort
	return collection.ReadRef(mapRef, sort,
		func(m int) expr.Expr {
			return collection.ReadRef(keyRef, sort,
				func(k int) expr.Expr { return p.single(collection.Allocated, m).Read(expr.MkAddr(k)) },
				p.single(collection.Input, m).Read)
		},
		func(m expr.Expr) expr.Expr {
			return collection.ReadRef(keyRef, sort,
				func(k int) expr.Expr { return p.ia.Read(collection.Pair{First: m, Second: expr.MkAddr(k)}) },
				func(k expr.Expr) expr.Expr { return p.ii.Read(collection.Pair{First: m, Second: k}) })
		})
}

func (p partitions) write(mapRef, keyRef, value, guard expr.Expr) partitions {
	collection.FoldRef(mapRef, guard,
		func(m int, mc expr.Expr) {
			collection.FoldRef(keyRef, mc,
				func(k int, cond expr.Expr) {
					c := p.single(collection.Allocated, m).Write(expr.MkAddr(k), value, cond)
					p.setSingle(collection.Allocated, m, c)
				},
				func(k, cond expr.Expr) {
					p.setSingle(collection.Input, m, p.single(collection.Input, m).Write(k, value, cond))
				})
		},
		func(m, mc expr.Expr) {
			collection.FoldRef(keyRef, mc,
				func(k int, cond expr.Expr) {
					p.ia = p.ia.Write(collection.Pair{First: m, Second: expr.MkAddr(k)}, value, cond)
				},
				func(k, cond expr.Expr) {
					p.ii = p.ii.Write(collection.Pair{First: m, Second: k}, value, cond)
				})
		})
	return p
}

// listKeys returns the allocated keys written into a key set, as given by
// addrOf. The second result is false if the set holds keys that cannot be
// listed, such as keys brought in by a deferred merge.
func listKeys[K any, R region.Region[R]](keySet collection.Collection[K, R], addrOf func(K) expr.Expr) ([]int, bool) {
	var addrs intsets.Sparse
	ok := true
	keySet.Updates().ForEach(func(u collection.UpdateNode[K], _ R) {
		p, isPinpoint := u.(*collection.PinpointUpdate[K])
		if !isPinpoint {
			ok = false
			return
		}
		if a, isAddr := expr.AsAddress(addrOf(p.Key)); isAddr {
			addrs.Insert(a)
		} else {
			ok = false
		}
	})
	return addrs.AppendTo(nil), ok
}

// absorb merges the part of a source map selected by its key set into dst.
// When every key of the source set can be listed, which is always possible
// for allocated keys unless a deferred merge intervened, the entries are
// copied one by one through toDest. Otherwise a ranged update over reg
// defers to the source.
func absorb[DK, SK any, DR region.Region[DR], SR region.Region[SR]](
	dst collection.Collection[DK, DR], reg DR,
	source, keySet collection.Collection[SK, SR],
	toSource func(DK) SK, restrict func(DK) expr.Expr,
	addrOf func(SK) expr.Expr, toDest func(int) DK,
	guard expr.Expr,
) collection.Collection[DK, DR] {
	if keySet.IsEmpty() && !keySet.ID.IsInput() {
		return dst
	}

	if addrOf != nil {
		if addrs, ok := listKeys(keySet, addrOf); ok {
			for _, a := range addrs {
				sk := toSource(toDest(a))
				dst = dst.Write(toDest(a), source.Read(sk), expr.MkAnd(guard, keySet.Read(sk)))
			}
			return dst
		}
	}

	adapter := &collection.MergeAdapter[DK, SK, SR]{
		Source:   source,
		KeySet:   &keySet,
		Convert:  toSource,
		Restrict: restrict,
	}
	return dst.Merge(adapter, reg, guard)
}

// merge makes dstRef map every key of srcRef's key set to its value in from.
// The fold over the concreteness of both references mirrors write.
func (p partitions) merge(srcRef, dstRef expr.Expr, from, keys partitions, guard expr.Expr) partitions {
	var (
		all      = region.AllPoints[int]()
		identity = func(k expr.Expr) expr.Expr { return k }
		second   = func(k collection.Pair) expr.Expr { return k.Second }
		address  = func(a int) expr.Expr { return expr.MkAddr(a) }
	)
	const (
		A = collection.Allocated
		I = collection.Input
	)

	collection.FoldRef(dstRef, guard,
		func(d int, dc expr.Expr) {
			collection.FoldRef(srcRef, dc,
				func(s int, cond expr.Expr) {
					if s == d {
						return
					}
					metrics.Merges.WithLabelValues("CC").Inc()
					p.setSingle(A, d, absorb(p.single(A, d), all, from.single(A, s), keys.single(A, s),
						identity, nil, identity, address, cond))
					p.setSingle(I, d, absorb(p.single(I, d), all, from.single(I, s), keys.single(I, s),
						identity, nil, nil, nil, cond))
				},
				func(s, cond expr.Expr) {
					metrics.Merges.WithLabelValues("SC").Inc()
					at := func(k expr.Expr) collection.Pair { return collection.Pair{First: s, Second: k} }
					p.setSingle(A, d, absorb(p.single(A, d), all, from.ia, keys.ia,
						at, nil, second, address, cond))
					p.setSingle(I, d, absorb(p.single(I, d), all, from.ii, keys.ii,
						at, nil, nil, nil, cond))
				})
		},
		func(d, dc expr.Expr) {
			reg := region.Product(collection.AddressKeys{}.Region(d), all)
			restrict := func(k collection.Pair) expr.Expr { return expr.MkEq(k.First, d) }
			toDest := func(a int) collection.Pair { return collection.Pair{First: d, Second: expr.MkAddr(a)} }

			collection.FoldRef(srcRef, dc,
				func(s int, cond expr.Expr) {
					metrics.Merges.WithLabelValues("CS").Inc()
					p.ia = absorb(p.ia, reg, from.single(A, s), keys.single(A, s),
						second, restrict, identity, toDest, cond)
					p.ii = absorb(p.ii, reg, from.single(I, s), keys.single(I, s),
						second, restrict, nil, nil, cond)
				},
				func(s, cond expr.Expr) {
					metrics.Merges.WithLabelValues("SS").Inc()
					at := func(k collection.Pair) collection.Pair { return collection.Pair{First: s, Second: k.Second} }
					p.ia = absorb(p.ia, reg, from.ia, keys.ia, at, restrict, second, toDest, cond)
					p.ii = absorb(p.ii, reg, from.ii, keys.ii, at, restrict, nil, nil, cond)
				})
		})
	return p
}

func (p partitions) String() string {
	strs := []string{}
	for _, parts := range []*immutable.SortedMap[int, singleMap]{p.aa, p.ai} {
		for itr := parts.Iterator(); !itr.Done(); {
			_, c, _ := itr.Next()
			if !c.IsEmpty() {
				strs = append(strs, c.String())
			}
		}
	}
	for _, c := range []sharedMap{p.ia, p.ii} {
		if !c.IsEmpty() {
			strs = append(strs, c.String())
		}
	}
	if len(strs) == 0 {
		return "{}"
	}
	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}
