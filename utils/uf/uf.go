// Package uf maintains equivalence classes of comparable values.
//
// It is a thin layer over the pointer-based union-find of
// github.com/spakin/disjoint that maps values to elements and, instead of
// notifying subscribers, reports every union that changed the partition as a
// returned Event.
package uf

import "github.com/spakin/disjoint"

// Event describes a union that merged two previously distinct classes.
// Kept is the representative of the merged class, Absorbed is the former
// representative of the other class.
type Event[T comparable] struct {
	Kept, Absorbed T
}

// Sets is a mutable collection of disjoint sets.
type Sets[T comparable] struct {
	elements map[T]*disjoint.Element
	// order records insertion order so that iteration is deterministic.
	order []T
}

func New[T comparable]() *Sets[T] {
	return &Sets[T]{elements: make(map[T]*disjoint.Element)}
}

func (s *Sets[T]) element(x T) *disjoint.Element {
	el, found := s.elements[x]
	if !found {
		el = disjoint.NewElement()
		el.Data = x
		s.elements[x] = el
		s.order = append(s.order, x)
	}
	return el
}

// Contains reports whether x has been added, explicitly or through Find/Union.
func (s *Sets[T]) Contains(x T) bool {
	_, found := s.elements[x]
	return found
}

// Add registers x as a singleton class if it is not known yet.
func (s *Sets[T]) Add(x T) {
	s.element(x)
}

// Find returns the representative of the class of x.
// Unknown values are their own singleton class.
func (s *Sets[T]) Find(x T) T {
	return s.element(x).Find().Data.(T)
}

// Union merges the classes of x and y. The second result is false, and the
// event is empty, if they were already in the same class.
func (s *Sets[T]) Union(x, y T) (Event[T], bool) {
	ex, ey := s.element(x).Find(), s.element(y).Find()
	if ex == ey {
		return Event[T]{}, false
	}

	disjoint.Union(ex, ey)
	kept := ex.Find()
	absorbed := ey
	if kept == ey {
		absorbed = ex
	}

	return Event[T]{Kept: kept.Data.(T), Absorbed: absorbed.Data.(T)}, true
}

// Connected reports whether x and y are in the same class.
func (s *Sets[T]) Connected(x, y T) bool {
	return s.element(x).Find() == s.element(y).Find()
}

// Len returns the number of known values.
func (s *Sets[T]) Len() int {
	return len(s.order)
}

// Clone returns an independent copy with the same partition.
// Subsequent unions in either copy are not visible in the other.
func (s *Sets[T]) Clone() *Sets[T] {
	c := New[T]()
	for _, x := range s.order {
		c.Add(x)
	}
	for _, x := range s.order {
		c.Union(x, s.Find(x))
	}
	return c
}

// Classes returns all classes with at least one member. Members of a class
// appear in insertion order, and classes are ordered by their first member.
func (s *Sets[T]) Classes() [][]T {
	index := make(map[*disjoint.Element]int)
	classes := [][]T{}
	for _, x := range s.order {
		rep := s.elements[x].Find()
		i, found := index[rep]
		if !found {
			i = len(classes)
			index[rep] = i
			classes = append(classes, nil)
		}
		classes[i] = append(classes[i], x)
	}

	return classes
}
