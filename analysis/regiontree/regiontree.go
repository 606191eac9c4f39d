// Package regiontree implements the persistent update logs of symbolic
// collections. A tree maps pairwise disjoint regions to values, and every
// entry nests the older entries it shadows. Writes never mutate a tree: the
// result shares every untouched entry with its origin.
package regiontree

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/region"
	"github.com/cs-au-dk/symheap/utils"
	i "github.com/cs-au-dk/symheap/utils/indenter"
	"github.com/cs-au-dk/symheap/utils/worklist"

	"github.com/benbjohnson/immutable"
)

var errInvariant = errors.New("region tree invariant violated")

// Entry binds a region to a value. Children holds the older entries that
// the value shadows; their regions are included in Region.
type Entry[V any, R region.Region[R]] struct {
	Region   R
	Value    V
	Children RegionTree[V, R]
}

func (e *Entry[V, R]) String() string {
	s := fmt.Sprintf("%v ↦ %v", e.Region, e.Value)
	if e.Children.IsEmpty() {
		return s
	}
	return s + " " + e.Children.String()
}

// RegionTree is a list of sibling entries, oldest first. The zero value is
// the empty tree.
type RegionTree[V any, R region.Region[R]] struct {
	entries *immutable.List[*Entry[V, R]]
}

func Empty[V any, R region.Region[R]]() RegionTree[V, R] {
	return RegionTree[V, R]{}
}

func (t RegionTree[V, R]) IsEmpty() bool {
	return t.entries == nil || t.entries.Len() == 0
}

// Entries returns the top-level entries, oldest first.
func (t RegionTree[V, R]) Entries() []*Entry[V, R] {
	if t.entries == nil {
		return nil
	}

	res := make([]*Entry[V, R], 0, t.entries.Len())
	for itr := t.entries.Iterator(); !itr.Done(); {
		_, e := itr.Next()
		res = append(res, e)
	}
	return res
}

// Identity is a pointer that is shared exactly by trees with the same
// top-level entries.
func (t RegionTree[V, R]) Identity() *immutable.List[*Entry[V, R]] {
	return t.entries
}

// Size counts the entries at every level.
func (t RegionTree[V, R]) Size() (res int) {
	for _, e := range t.Entries() {
		res += 1 + e.Children.Size()
	}
	return
}

// ForEach visits every entry with children before their parent and older
// siblings before newer ones. A value visited later shadows the values
// visited earlier wherever their regions overlap.
func (t RegionTree[V, R]) ForEach(do func(V, R)) {
	for _, e := range t.Entries() {
		e.Children.ForEach(do)
		do(e.Value, e.Region)
	}
}

// Localize returns the part of the tree inside reg.
func (t RegionTree[V, R]) Localize(reg R) RegionTree[V, R] {
	covered, _ := t.split(reg, nil)
	return covered
}

// Write binds reg to value. The entries covered by reg become the children
// of the new entry, except that entries whose value satisfies filter are
// dropped and their children lifted in their place. A nil filter keeps
// everything.
func (t RegionTree[V, R]) Write(reg R, value V, filter func(V) bool) RegionTree[V, R] {
	if reg.IsEmpty() {
		return t
	}

	covered, rest := t.split(reg, filter)
	res := RegionTree[V, R]{rest.list().Append(&Entry[V, R]{reg, value, covered})}
	if utils.Opts().CheckTrees() {
		res.CheckInvariant()
	}
	return res
}

func (t RegionTree[V, R]) list() *immutable.List[*Entry[V, R]] {
	if t.entries == nil {
		return immutable.NewList[*Entry[V, R]]()
	}
	return t.entries
}

func build[V any, R region.Region[R]](b *immutable.ListBuilder[*Entry[V, R]]) RegionTree[V, R] {
	if b.Len() == 0 {
		return RegionTree[V, R]{}
	}
	return RegionTree[V, R]{b.List()}
}

// split partitions the tree into the entries inside reg and the entries
// outside it. Entries straddling the boundary are cut in two.
func (t RegionTree[V, R]) split(reg R, filter func(V) bool) (RegionTree[V, R], RegionTree[V, R]) {
	if t.IsEmpty() {
		return t, t
	}

	covered := immutable.NewListBuilder[*Entry[V, R]]()
	rest := immutable.NewListBuilder[*Entry[V, R]]()
	cover := func(e *Entry[V, R]) {
		for _, p := range prune([]*Entry[V, R]{e}, filter) {
			covered.Append(p)
		}
	}

	for _, e := range t.Entries() {
		switch reg.Compare(e.Region) {
		case region.Includes:
			cover(e)
		case region.Disjoint:
			rest.Append(e)
		default:
			cc, cr := e.Children.split(reg, filter)
			cover(&Entry[V, R]{e.Region.Intersect(reg), e.Value, cc})
			rest.Append(&Entry[V, R]{e.Region.Subtract(reg), e.Value, cr})
		}
	}

	return build(covered), build(rest)
}

// prune drops the entries whose value satisfies filter, lifting their
// children. Unchanged entries are returned as is.
func prune[V any, R region.Region[R]](es []*Entry[V, R], filter func(V) bool) []*Entry[V, R] {
	if filter == nil {
		return es
	}

	res := make([]*Entry[V, R], 0, len(es))
	for _, e := range es {
		children := e.Children.Entries()
		pruned := prune(children, filter)
		switch {
		case filter(e.Value):
			res = append(res, pruned...)
		case len(pruned) == len(children) && samePointers(pruned, children):
			res = append(res, e)
		default:
			b := immutable.NewListBuilder[*Entry[V, R]]()
			for _, c := range pruned {
				b.Append(c)
			}
			res = append(res, &Entry[V, R]{e.Region, e.Value, build(b)})
		}
	}
	return res
}

func samePointers[T any](a, b []*T) bool {
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

// CheckInvariant panics unless sibling regions are non-empty and pairwise
// disjoint, and every child region is included in its parent region.
func (t RegionTree[V, R]) CheckInvariant() {
	type item struct {
		parent *Entry[V, R]
		tree   RegionTree[V, R]
	}

	worklist.Start(item{nil, t}, func(next item, add func(item)) {
		es := next.tree.Entries()
		for idx, e := range es {
			if e.Region.IsEmpty() {
				panic(fmt.Errorf("%w: empty region bound to %v", errInvariant, e.Value))
			}
			if next.parent != nil && next.parent.Region.Compare(e.Region) != region.Includes {
				panic(fmt.Errorf("%w: %v is not included in its parent %v",
					errInvariant, e.Region, next.parent.Region))
			}
			for _, o := range es[idx+1:] {
				if e.Region.Compare(o.Region) != region.Disjoint {
					panic(fmt.Errorf("%w: siblings %v and %v overlap", errInvariant, e.Region, o.Region))
				}
			}
			add(item{e, e.Children})
		}
	})
}

func (t RegionTree[V, R]) String() string {
	if t.IsEmpty() {
		return "{}"
	}

	strs := []string{}
	for _, e := range t.Entries() {
		strs = append(strs, e.String())
	}
	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}
