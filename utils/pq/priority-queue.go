package pq

import (
	"container/heap"
	"errors"
	"fmt"
)

var (
	errDoubleInsert = errors.New("element already in priority queue")
	errMissing      = errors.New("element not in priority queue")
	errEmpty        = errors.New("priority queue is empty")
)

// lessFunc is a comparison function between two elements of type T.
type lessFunc[T any] func(T, T) bool

// _heap satisfies the heap.Interface. Besides the list of elements and the
// comparison function it tracks the position of every element, so that
// arbitrary elements can be removed or re-prioritized.
type _heap[T comparable] struct {
	list  []T
	less  lessFunc[T]
	index map[T]int
}

// Len returns the size of the heap.
func (h _heap[T]) Len() int {
	return len(h.list)
}

// Swap interchanges the values of the elements at the given indices.
func (h _heap[T]) Swap(i, j int) {
	l := h.list
	l[i], l[j] = l[j], l[i]
	h.index[l[i]] = i
	h.index[l[j]] = j
}

// Push appends a given element to the heap.
func (h *_heap[T]) Push(x any) {
	el := x.(T)
	h.index[el] = len(h.list)
	h.list = append(h.list, el)
}

// Pop retrieves the last element in the heap.
func (h *_heap[T]) Pop() any {
	old := h.list
	n := len(old)
	x := old[n-1]
	h.list = old[0 : n-1]
	delete(h.index, x)
	return x
}

// Less compares two elements in the heap at the given indices.
func (h _heap[T]) Less(i, j int) bool {
	return h.less(h.list[i], h.list[j])
}

var _ heap.Interface = (*_heap[int])(nil)

// PriorityQueue is an indexed binary heap. Elements are unique: inserting an
// element twice or removing an absent one is a usage error and panics.
type PriorityQueue[T comparable] struct {
	heap _heap[T]
}

// Empty creates an empty priority queue for elements of a given type,
// with the given comparison function.
func Empty[T comparable](less lessFunc[T]) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		heap: _heap[T]{nil, less, make(map[T]int)},
	}
}

// IsEmpty checks whether the priority queue is empty.
func (p *PriorityQueue[T]) IsEmpty() bool {
	return len(p.heap.list) == 0
}

func (p *PriorityQueue[T]) Len() int {
	return len(p.heap.list)
}

func (p *PriorityQueue[T]) Contains(x T) bool {
	_, found := p.heap.index[x]
	return found
}

// Peek returns the top element without removing it.
func (p *PriorityQueue[T]) Peek() T {
	if p.IsEmpty() {
		panic(errEmpty)
	}
	return p.heap.list[0]
}

// GetNext pops the top element from the heap.
func (p *PriorityQueue[T]) GetNext() T {
	if p.IsEmpty() {
		panic(errEmpty)
	}
	return heap.Pop(&p.heap).(T)
}

// Add inserts the given element in the heap.
func (p *PriorityQueue[T]) Add(x T) {
	if p.Contains(x) {
		panic(fmt.Errorf("%w: %v", errDoubleInsert, x))
	}

	heap.Push(&p.heap, x)
}

// Remove deletes an arbitrary element from the heap.
func (p *PriorityQueue[T]) Remove(x T) {
	i, found := p.heap.index[x]
	if !found {
		panic(fmt.Errorf("%w: %v", errMissing, x))
	}

	heap.Remove(&p.heap, i)
}

// Update restores the heap order after the priority of x changed.
func (p *PriorityQueue[T]) Update(x T) {
	i, found := p.heap.index[x]
	if !found {
		panic(fmt.Errorf("%w: %v", errMissing, x))
	}

	heap.Fix(&p.heap, i)
}

// Rebuild re-establishes all the invariants of the heap.
func (p *PriorityQueue[T]) Rebuild() {
	heap.Init(&p.heap)
}
