// Package weighted provides a balanced tree of weighted elements that
// supports sampling an element with probability proportional to its weight.
package weighted

import (
	"errors"
	"fmt"
)

var (
	errDoubleInsert   = errors.New("element already in weighted tree")
	errMissing        = errors.New("element not in weighted tree")
	errNegativeWeight = errors.New("negative weight")
	errEmpty          = errors.New("weighted tree is empty")
)

// node of an AA-tree. Nodes are ordered by insertion sequence number and
// carry the total weight of their subtree.
type node[T any] struct {
	seq    uint64
	value  T
	weight float64
	sum    float64
	level  int

	left, right *node[T]
}

func level[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.level
}

func sum[T any](n *node[T]) float64 {
	if n == nil {
		return 0
	}
	return n.sum
}

func (n *node[T]) update() {
	n.sum = n.weight + sum(n.left) + sum(n.right)
}

func skew[T any](n *node[T]) *node[T] {
	if n == nil || n.left == nil || n.left.level != n.level {
		return n
	}

	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()
	return l
}

func split[T any](n *node[T]) *node[T] {
	if n == nil || n.right == nil || n.right.right == nil || n.right.right.level != n.level {
		return n
	}

	r := n.right
	n.right = r.left
	r.left = n
	r.level++
	n.update()
	r.update()
	return r
}

// Tree is a mutable weighted set. Inserting a present element or removing an
// absent one panics.
type Tree[T comparable] struct {
	root *node[T]
	seqs map[T]uint64
	next uint64
}

func New[T comparable]() *Tree[T] {
	return &Tree[T]{seqs: make(map[T]uint64)}
}

func (t *Tree[T]) Len() int {
	return len(t.seqs)
}

func (t *Tree[T]) IsEmpty() bool {
	return len(t.seqs) == 0
}

func (t *Tree[T]) Contains(x T) bool {
	_, found := t.seqs[x]
	return found
}

// Total is the sum of all weights.
func (t *Tree[T]) Total() float64 {
	return sum(t.root)
}

func (t *Tree[T]) Insert(x T, weight float64) {
	if t.Contains(x) {
		panic(fmt.Errorf("%w: %v", errDoubleInsert, x))
	}
	if weight < 0 {
		panic(fmt.Errorf("%w: %v", errNegativeWeight, weight))
	}

	seq := t.next
	t.next++
	t.seqs[x] = seq
	t.root = insert(t.root, &node[T]{seq: seq, value: x, weight: weight, sum: weight, level: 1})
}

func insert[T any](n, fresh *node[T]) *node[T] {
	if n == nil {
		return fresh
	}

	if fresh.seq < n.seq {
		n.left = insert(n.left, fresh)
	} else {
		n.right = insert(n.right, fresh)
	}
	n.update()

	return split(skew(n))
}

func (t *Tree[T]) Remove(x T) {
	seq, found := t.seqs[x]
	if !found {
		panic(fmt.Errorf("%w: %v", errMissing, x))
	}

	delete(t.seqs, x)
	t.root = remove(t.root, seq)
}

func remove[T any](n *node[T], seq uint64) *node[T] {
	if n == nil {
		return nil
	}

	switch {
	case seq < n.seq:
		n.left = remove(n.left, seq)
	case seq > n.seq:
		n.right = remove(n.right, seq)
	default:
		if n.left == nil && n.right == nil {
			return nil
		}

		var other *node[T]
		if n.left == nil {
			for other = n.right; other.left != nil; other = other.left {
			}
			n.right = remove(n.right, other.seq)
		} else {
			for other = n.left; other.right != nil; other = other.right {
			}
			n.left = remove(n.left, other.seq)
		}
		n.seq, n.value, n.weight = other.seq, other.value, other.weight
	}
	n.update()

	// Rebalance.
	if should := min(level(n.left), level(n.right)) + 1; should < n.level {
		n.level = should
		if n.right != nil && should < n.right.level {
			n.right.level = should
		}
	}

	n = skew(n)
	n.right = skew(n.right)
	if n.right != nil {
		n.right.right = skew(n.right.right)
	}
	n = split(n)
	n.right = split(n.right)
	return n
}

func (t *Tree[T]) find(x T) *node[T] {
	seq, found := t.seqs[x]
	if !found {
		panic(fmt.Errorf("%w: %v", errMissing, x))
	}

	n := t.root
	for n.seq != seq {
		if seq < n.seq {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

func (t *Tree[T]) Weight(x T) float64 {
	return t.find(x).weight
}

// Update changes the weight of a present element.
func (t *Tree[T]) Update(x T, weight float64) {
	if weight < 0 {
		panic(fmt.Errorf("%w: %v", errNegativeWeight, weight))
	}

	seq, found := t.seqs[x]
	if !found {
		panic(fmt.Errorf("%w: %v", errMissing, x))
	}

	var walk func(n *node[T])
	walk = func(n *node[T]) {
		switch {
		case seq < n.seq:
			walk(n.left)
		case seq > n.seq:
			walk(n.right)
		default:
			n.weight = weight
		}
		n.update()
	}
	walk(t.root)
}

// Select returns the element whose cumulative weight interval, in insertion
// order, contains p. p is clamped to [0, Total()).
func (t *Tree[T]) Select(p float64) T {
	if t.root == nil {
		panic(errEmpty)
	}

	n := t.root
	for {
		if ls := sum(n.left); n.left != nil && p < ls {
			n = n.left
			continue
		} else {
			p -= ls
		}

		if p < n.weight || n.right == nil || sum(n.right) == 0 {
			return n.value
		}
		p -= n.weight
		n = n.right
	}
}

// ForEach visits all elements in insertion order.
func (t *Tree[T]) ForEach(do func(T, float64)) {
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		do(n.value, n.weight)
		walk(n.right)
	}
	walk(t.root)
}

// checkInvariant verifies the AA-tree level rules, the ordering and the
// subtree sums, returning a description of the first violation.
func (t *Tree[T]) checkInvariant() error {
	count := 0
	var check func(n *node[T], lo, hi uint64) error
	check = func(n *node[T], lo, hi uint64) error {
		if n == nil {
			return nil
		}
		count++

		switch {
		case n.seq < lo || n.seq > hi:
			return fmt.Errorf("node %d out of order", n.seq)
		case level(n.left) != n.level-1:
			return fmt.Errorf("left child of %d has wrong level", n.seq)
		case level(n.right) != n.level && level(n.right) != n.level-1:
			return fmt.Errorf("right child of %d has wrong level", n.seq)
		case n.right != nil && level(n.right.right) >= n.level:
			return fmt.Errorf("right grandchild of %d has wrong level", n.seq)
		case n.level > 1 && (n.left == nil || n.right == nil):
			return fmt.Errorf("internal node %d lacks a child", n.seq)
		case n.sum != n.weight+sum(n.left)+sum(n.right):
			return fmt.Errorf("node %d has stale sum", n.seq)
		}

		if n.seq > 0 {
			if err := check(n.left, lo, n.seq-1); err != nil {
				return err
			}
		} else if n.left != nil {
			return fmt.Errorf("node %d out of order", n.left.seq)
		}
		return check(n.right, n.seq+1, hi)
	}

	if err := check(t.root, 0, ^uint64(0)); err != nil {
		return err
	}
	if count != len(t.seqs) {
		return fmt.Errorf("tree holds %d nodes, index holds %d", count, len(t.seqs))
	}
	return nil
}
