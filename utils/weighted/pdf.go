package weighted

import "math/rand"

// DiscretePDF samples elements with probability proportional to their weight.
// Sampling is logarithmic in the number of elements.
type DiscretePDF[T comparable] struct {
	tree *Tree[T]
	rnd  *rand.Rand
}

func NewDiscretePDF[T comparable](seed int64) *DiscretePDF[T] {
	return &DiscretePDF[T]{
		tree: New[T](),
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

func (d *DiscretePDF[T]) Len() int                    { return d.tree.Len() }
func (d *DiscretePDF[T]) IsEmpty() bool               { return d.tree.IsEmpty() }
func (d *DiscretePDF[T]) Contains(x T) bool           { return d.tree.Contains(x) }
func (d *DiscretePDF[T]) Add(x T, weight float64)     { d.tree.Insert(x, weight) }
func (d *DiscretePDF[T]) Remove(x T)                  { d.tree.Remove(x) }
func (d *DiscretePDF[T]) Update(x T, weight float64)  { d.tree.Update(x, weight) }
func (d *DiscretePDF[T]) Weight(x T) float64          { return d.tree.Weight(x) }
func (d *DiscretePDF[T]) ForEach(do func(T, float64)) { d.tree.ForEach(do) }

// Sample draws an element without removing it. If all weights are zero the
// oldest element is returned.
func (d *DiscretePDF[T]) Sample() T {
	return d.tree.Select(d.rnd.Float64() * d.tree.Total())
}
