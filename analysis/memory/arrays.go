package memory

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
	i "github.com/cs-au-dk/symheap/utils/indenter"

	"github.com/benbjohnson/immutable"
)

type (
	indexRegion      = region.Intervals[int64]
	inputArrayRegion = region.ProductRegion[region.Trivial, indexRegion]

	allocatedArray = collection.Collection[expr.Expr, indexRegion]
	inputArrays    = collection.Collection[collection.Pair, inputArrayRegion]
)

// ArrayRegion stores the elements of the arrays of one type. Every allocated
// array has its own collection indexed by position. Input arrays share one
// collection indexed by (reference, position) pairs.
type ArrayRegion struct {
	typ       string
	sort      expr.Sort
	allocated *immutable.SortedMap[int, allocatedArray]
	input     inputArrays
}

func NewArrayRegion(typ string, sort expr.Sort) ArrayRegion {
	id := collection.CollectionID{Kind: collection.Array, Type: typ, Sort: sort, Ref: collection.Input}
	keys := collection.PairKeys[region.Trivial, indexRegion]{
		First:  collection.TrivialKeys{S: expr.AddrSort},
		Second: collection.IndexKeys{},
	}
	return ArrayRegion{
		typ:       typ,
		sort:      sort,
		allocated: immutable.NewSortedMap[int, allocatedArray](nil),
		input:     collection.New[collection.Pair, inputArrayRegion](id, keys),
	}
}

// Input is the collection of the elements of input arrays.
func (r ArrayRegion) Input() inputArrays {
	return r.input
}

// Array returns the elements of the allocated array at addr.
func (r ArrayRegion) Array(addr int) allocatedArray {
	if c, found := r.allocated.Get(addr); found {
		return c
	}
	id := collection.CollectionID{
		Kind: collection.Array,
		Type: r.typ,
		Sort: r.sort,
		Ref:  collection.Allocated,
		Addr: addr,
	}
	return collection.New[expr.Expr, indexRegion](id, collection.IndexKeys{})
}

func (r ArrayRegion) Read(ref, index expr.Expr) expr.Expr {
	return collection.ReadRef(ref, r.sort,
		func(addr int) expr.Expr { return r.Array(addr).Read(index) },
		func(sym expr.Expr) expr.Expr {
			return r.input.Read(collection.Pair{First: sym, Second: index})
		})
}

func (r ArrayRegion) Write(ref, index, value, guard expr.Expr) ArrayRegion {
	collection.FoldRef(ref, guard,
		func(addr int, cond expr.Expr) {
			r.allocated = r.allocated.Set(addr, r.Array(addr).Write(index, value, cond))
		},
		func(sym, cond expr.Expr) {
			r.input = r.input.Write(collection.Pair{First: sym, Second: index}, value, cond)
		})
	return r
}

// copyWindow is the region of destination positions receiving elements. It
// is exact only when the start and the length are both concrete.
func copyWindow(from, length expr.Expr) (indexRegion, bool) {
	lo, okLo := expr.AsInt(from)
	n, okN := expr.AsInt(length)
	if okLo && okN {
		return region.Closed(lo, lo+n-1), true
	}
	return region.Unbounded[int64](), false
}

// Copy copies length elements of src, starting at srcFrom, into dst from
// dstFrom onward. Elements are read from the arrays as they were before the
// copy, so overlapping ranges of one array behave as if copied through a
// temporary buffer. Nothing is read eagerly: the destination records ranged
// updates that defer to the source.
func (r ArrayRegion) Copy(src, dst, srcFrom, dstFrom, length, guard expr.Expr) ArrayRegion {
	if n, ok := expr.AsInt(length); ok && n <= 0 {
		return r
	}

	old := r
	window, exact := copyWindow(dstFrom, length)
	shift := func(idx expr.Expr) expr.Expr {
		return expr.MkAdd(srcFrom, expr.MkSub(idx, dstFrom))
	}
	inWindow := func(idx expr.Expr) expr.Expr {
		return expr.MkAnd(expr.MkLe(dstFrom, idx), expr.MkLt(idx, expr.MkAdd(dstFrom, length)))
	}

	var restrictIndex func(expr.Expr) expr.Expr
	if !exact {
		restrictIndex = inWindow
	}

	collection.FoldRef(dst, guard,
		func(d int, dc expr.Expr) {
			collection.FoldRef(src, dc,
				func(s int, cond expr.Expr) {
					adapter := &collection.MergeAdapter[expr.Expr, expr.Expr, indexRegion]{
						Source:   old.Array(s),
						Convert:  shift,
						Restrict: restrictIndex,
					}
					r.allocated = r.allocated.Set(d, r.Array(d).Merge(adapter, window, cond))
				},
				func(s, cond expr.Expr) {
					adapter := &collection.MergeAdapter[expr.Expr, collection.Pair, inputArrayRegion]{
						Source: old.input,
						Convert: func(idx expr.Expr) collection.Pair {
							return collection.Pair{First: s, Second: shift(idx)}
						},
						Restrict: restrictIndex,
					}
					r.allocated = r.allocated.Set(d, r.Array(d).Merge(adapter, window, cond))
				})
		},
		func(d, dc expr.Expr) {
			// The trivial reference dimension cannot single out d.
			restrict := func(k collection.Pair) expr.Expr {
				if exact {
					return expr.MkEq(k.First, d)
				}
				return expr.MkAnd(expr.MkEq(k.First, d), inWindow(k.Second))
			}
			reg := region.Product(region.Full, window)

			collection.FoldRef(src, dc,
				func(s int, cond expr.Expr) {
					adapter := &collection.MergeAdapter[collection.Pair, expr.Expr, indexRegion]{
						Source:   old.Array(s),
						Convert:  func(k collection.Pair) expr.Expr { return shift(k.Second) },
						Restrict: restrict,
					}
					r.input = r.input.Merge(adapter, reg, cond)
				},
				func(s, cond expr.Expr) {
					adapter := &collection.MergeAdapter[collection.Pair, collection.Pair, inputArrayRegion]{
						Source: old.input,
						Convert: func(k collection.Pair) collection.Pair {
							return collection.Pair{First: s, Second: shift(k.Second)}
						},
						Restrict: restrict,
					}
					r.input = r.input.Merge(adapter, reg, cond)
				})
		})
	return r
}

func (r ArrayRegion) String() string {
	strs := []string{}
	for itr := r.allocated.Iterator(); !itr.Done(); {
		addr, c, _ := itr.Next()
		strs = append(strs, fmt.Sprintf("%v %v", expr.MkAddr(addr), c.Updates()))
	}
	if !r.input.IsEmpty() {
		strs = append(strs, "input "+r.input.Updates().String())
	}
	if len(strs) == 0 {
		return "{}"
	}
	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}
