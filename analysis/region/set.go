package region

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// SetRegion is a finite set of points or, when thrown, the complement of a
// finite set within an infinite universe.
type SetRegion[P comparable] struct {
	points set.Collection[P]
	thrown bool
}

// Points is the finite region of the given points.
func Points[P comparable](ps ...P) SetRegion[P] {
	return SetRegion[P]{points: set.From(ps)}
}

// AllPoints is the whole universe.
func AllPoints[P comparable]() SetRegion[P] {
	return SetRegion[P]{points: set.New[P](0), thrown: true}
}

// AllExcept is the universe without the given points.
func AllExcept[P comparable](ps ...P) SetRegion[P] {
	return SetRegion[P]{points: set.From(ps), thrown: true}
}

func (s SetRegion[P]) elements() set.Collection[P] {
	if s.points == nil {
		return set.New[P](0)
	}
	return s.points
}

func (s SetRegion[P]) IsEmpty() bool {
	return !s.thrown && s.elements().Size() == 0
}

// IsFinite reports whether the region lists its members.
func (s SetRegion[P]) IsFinite() bool {
	return !s.thrown
}

// Members returns the listed points: the members of a finite region or the
// excluded points of a complement region.
func (s SetRegion[P]) Members() []P {
	return s.elements().Slice()
}

func (s SetRegion[P]) Contains(p P) bool {
	return s.elements().Contains(p) != s.thrown
}

func subsetOf[P comparable](x, y set.Collection[P]) bool {
	return x.Difference(y).Size() == 0
}

func (s SetRegion[P]) Compare(o SetRegion[P]) Comparison {
	if o.IsEmpty() {
		return Includes
	}

	a, b := s.elements(), o.elements()
	switch {
	case !s.thrown && !o.thrown:
		switch {
		case subsetOf(b, a):
			return Includes
		case a.Intersect(b).Size() == 0:
			return Disjoint
		}
		return Intersects
	case !s.thrown && o.thrown:
		// A finite set never includes an infinite one.
		if subsetOf(a, b) {
			return Disjoint
		}
		return Intersects
	case s.thrown && !o.thrown:
		switch {
		case b.Intersect(a).Size() == 0:
			return Includes
		case subsetOf(b, a):
			return Disjoint
		}
		return Intersects
	}

	if subsetOf(a, b) {
		return Includes
	}
	return Intersects
}

func (s SetRegion[P]) Subtract(o SetRegion[P]) SetRegion[P] {
	a, b := s.elements(), o.elements()
	switch {
	case !s.thrown && !o.thrown:
		return SetRegion[P]{points: a.Difference(b)}
	case !s.thrown && o.thrown:
		return SetRegion[P]{points: a.Intersect(b)}
	case s.thrown && !o.thrown:
		return SetRegion[P]{points: a.Union(b), thrown: true}
	}
	return SetRegion[P]{points: b.Difference(a)}
}

func (s SetRegion[P]) Intersect(o SetRegion[P]) SetRegion[P] {
	a, b := s.elements(), o.elements()
	switch {
	case !s.thrown && !o.thrown:
		return SetRegion[P]{points: a.Intersect(b)}
	case !s.thrown && o.thrown:
		return SetRegion[P]{points: a.Difference(b)}
	case s.thrown && !o.thrown:
		return SetRegion[P]{points: b.Difference(a)}
	}
	return SetRegion[P]{points: a.Union(b), thrown: true}
}

func (s SetRegion[P]) Union(o SetRegion[P]) SetRegion[P] {
	a, b := s.elements(), o.elements()
	switch {
	case !s.thrown && !o.thrown:
		return SetRegion[P]{points: a.Union(b)}
	case !s.thrown && o.thrown:
		return SetRegion[P]{points: b.Difference(a), thrown: true}
	case s.thrown && !o.thrown:
		return SetRegion[P]{points: a.Difference(b), thrown: true}
	}
	return SetRegion[P]{points: a.Intersect(b), thrown: true}
}

func (s SetRegion[P]) String() string {
	strs := []string{}
	for _, p := range s.Members() {
		strs = append(strs, fmt.Sprint(p))
	}
	sort.Strings(strs)
	for i, str := range strs {
		strs[i] = colorize.Point(str)
	}

	switch {
	case s.thrown && len(strs) == 0:
		return colorize.Region("⊤")
	case s.thrown:
		return colorize.Region("⊤") + " \\ {" + strings.Join(strs, ", ") + "}"
	case len(strs) == 0:
		return colorize.Region("∅")
	}
	return "{" + strings.Join(strs, ", ") + "}"
}

var _ Region[SetRegion[int]] = SetRegion[int]{}
