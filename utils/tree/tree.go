// Package tree implements a persistent hash-keyed map as a big-endian
// Patricia trie over 32-bit hashes, following Okasaki and Gill,
// "Fast Mergeable Integer Maps". Colliding keys share a leaf.
package tree

import (
	"fmt"
	"sort"

	i "github.com/cs-au-dk/symheap/utils/indenter"

	"github.com/benbjohnson/immutable"
)

// NewTree constructs an empty map over the given hasher.
func NewTree[K, V any](hasher immutable.Hasher[K]) Tree[K, V] {
	return Tree[K, V]{hasher, nil}
}

type Tree[K, V any] struct {
	hasher immutable.Hasher[K]
	root   node[K, V]
}

func (tree Tree[K, V]) Lookup(key K) (V, bool) {
	return lookup(tree.root, tree.hasher.Hash(key), key, tree.hasher)
}

// Insert binds key to value, replacing any previous binding.
func (tree Tree[K, V]) Insert(key K, value V) Tree[K, V] {
	return tree.InsertOrMerge(key, value, nil)
}

// InsertOrMerge binds key to value. When key is already bound to prev, it is
// bound to f(value, prev) instead. The flag returned by f reports that the
// result equals prev, in which case the tree is returned unchanged.
func (tree Tree[K, V]) InsertOrMerge(key K, value V, f mergeFunc[V]) Tree[K, V] {
	tree.root, _ = insert(tree.root, tree.hasher.Hash(key), key, value, tree.hasher, f)
	return tree
}

// ForEach visits every binding in hash order.
func (tree Tree[K, V]) ForEach(f eachFunc[K, V]) {
	if tree.root != nil {
		tree.root.each(f)
	}
}

// Equal compares two maps, comparing values with f. Shared subtrees are
// skipped.
func (tree Tree[K, V]) Equal(other Tree[K, V], f cmpFunc[V]) bool {
	return equal(tree.root, other.root, tree.hasher, f)
}

// Size counts the bindings in linear time.
func (tree Tree[K, V]) Size() (res int) {
	tree.ForEach(func(K, V) { res++ })
	return
}

// String lists the bindings sorted by their printed form.
func (tree Tree[K, V]) String() string {
	strs := []string{}
	tree.ForEach(func(k K, v V) {
		strs = append(strs, fmt.Sprintf("%v ↦ %v", k, v))
	})
	sort.Strings(strs)

	return i.Indenter().Start("{").NestStrings(strs...).End("}")
}

type (
	eachFunc[K, V any] func(key K, value V)
	mergeFunc[V any]   func(value, prev V) (V, bool)
	cmpFunc[V any]     func(a, b V) bool
)

type keyt = uint32

type node[K, V any] interface {
	each(eachFunc[K, V])
}

type branch[K, V any] struct {
	// Common prefix of the keys below the branch.
	prefix keyt
	// The single set bit where the subtrees diverge.
	branchBit   keyt
	left, right node[K, V]
}

func (b *branch[K, V]) each(f eachFunc[K, V]) {
	b.left.each(f)
	b.right.each(f)
}

func (b *branch[K, V]) match(key keyt) bool {
	return key&(b.branchBit-1) == b.prefix
}

type pair[K, V any] struct {
	key   K
	value V
}

type leaf[K, V any] struct {
	hash  keyt
	pairs []pair[K, V]
}

func (l *leaf[K, V]) each(f eachFunc[K, V]) {
	for _, pr := range l.pairs {
		f(pr.key, pr.value)
	}
}

func (l *leaf[K, V]) with(idx int, pr pair[K, V]) *leaf[K, V] {
	pairs := append([]pair[K, V](nil), l.pairs...)
	if idx == len(pairs) {
		pairs = append(pairs, pr)
	} else {
		pairs[idx] = pr
	}
	return &leaf[K, V]{l.hash, pairs}
}

func lookup[K, V any](tree node[K, V], hash keyt, key K, hasher immutable.Hasher[K]) (ret V, found bool) {
	for tree != nil {
		switch t := tree.(type) {
		case *leaf[K, V]:
			if t.hash != hash {
				return
			}
			for _, pr := range t.pairs {
				if hasher.Equal(key, pr.key) {
					return pr.value, true
				}
			}
			return
		case *branch[K, V]:
			switch {
			case !t.match(hash):
				return
			case zeroBit(hash, t.branchBit):
				tree = t.left
			default:
				tree = t.right
			}
		default:
			panic(fmt.Errorf("unexpected tree node %T", tree))
		}
	}
	return
}

// join combines two trees with distinct prefixes p0 and p1.
func join[K, V any](p0, p1 keyt, t0, t1 node[K, V]) node[K, V] {
	bbit := branchingBit(p0, p1)
	prefix := p0 & (bbit - 1)
	if zeroBit(p0, bbit) {
		return &branch[K, V]{prefix, bbit, t0, t1}
	}
	return &branch[K, V]{prefix, bbit, t1, t0}
}

// insert returns false when the resulting tree is the input tree.
func insert[K, V any](tree node[K, V], hash keyt, key K, value V, hasher immutable.Hasher[K], f mergeFunc[V]) (node[K, V], bool) {
	if tree == nil {
		return &leaf[K, V]{hash, []pair[K, V]{{key, value}}}, true
	}

	var prefix keyt
	switch t := tree.(type) {
	case *leaf[K, V]:
		if t.hash == hash {
			for idx, pr := range t.pairs {
				if !hasher.Equal(key, pr.key) {
					continue
				}
				if f != nil {
					var same bool
					if value, same = f(value, pr.value); same {
						return t, false
					}
				}
				return t.with(idx, pair[K, V]{key, value}), true
			}
			return t.with(len(t.pairs), pair[K, V]{key, value}), true
		}
		prefix = t.hash

	case *branch[K, V]:
		if t.match(hash) {
			l, r := t.left, t.right
			var changed bool
			if zeroBit(hash, t.branchBit) {
				l, changed = insert(l, hash, key, value, hasher, f)
			} else {
				r, changed = insert(r, hash, key, value, hasher, f)
			}
			if !changed {
				return t, false
			}
			return &branch[K, V]{t.prefix, t.branchBit, l, r}, true
		}
		prefix = t.prefix

	default:
		panic(fmt.Errorf("unexpected tree node %T", tree))
	}

	return join(hash, prefix, node[K, V](&leaf[K, V]{hash, []pair[K, V]{{key, value}}}), tree), true
}

func equal[K, V any](a, b node[K, V], hasher immutable.Hasher[K], f cmpFunc[V]) bool {
	switch {
	case a == b:
		return true
	case a == nil || b == nil:
		return false
	}

	switch a := a.(type) {
	case *leaf[K, V]:
		b, ok := b.(*leaf[K, V])
		if !ok || a.hash != b.hash || len(a.pairs) != len(b.pairs) {
			return false
		}

	NEXT:
		for _, apr := range a.pairs {
			for _, bpr := range b.pairs {
				if hasher.Equal(apr.key, bpr.key) {
					if !f(apr.value, bpr.value) {
						return false
					}
					continue NEXT
				}
			}
			return false
		}
		return true

	case *branch[K, V]:
		b, ok := b.(*branch[K, V])
		return ok && a.prefix == b.prefix && a.branchBit == b.branchBit &&
			equal(a.left, b.left, hasher, f) && equal(a.right, b.right, hasher, f)
	}
	panic(fmt.Errorf("unexpected tree node %T", a))
}
