package region

import "strings"

// Rect is the Cartesian product of two regions.
type Rect[X Region[X], Y Region[Y]] struct {
	X X
	Y Y
}

func (r Rect[X, Y]) isEmpty() bool {
	return r.X.IsEmpty() || r.Y.IsEmpty()
}

// subtract removes s from r. The remainder is not a rectangle in general, so
// it is split into the part of r outside s.X and the part inside s.X but
// outside s.Y.
func (r Rect[X, Y]) subtract(s Rect[X, Y]) []Rect[X, Y] {
	res := make([]Rect[X, Y], 0, 2)
	if left := (Rect[X, Y]{r.X.Subtract(s.X), r.Y}); !left.isEmpty() {
		res = append(res, left)
	}
	if right := (Rect[X, Y]{r.X.Intersect(s.X), r.Y.Subtract(s.Y)}); !right.isEmpty() {
		res = append(res, right)
	}
	return res
}

func (r Rect[X, Y]) String() string {
	return r.X.String() + " × " + r.Y.String()
}

// ProductRegion is a union of pairwise disjoint, non-empty rectangles.
type ProductRegion[X Region[X], Y Region[Y]] struct {
	rects []Rect[X, Y]
}

// Product is the region x × y.
func Product[X Region[X], Y Region[Y]](x X, y Y) ProductRegion[X, Y] {
	r := Rect[X, Y]{x, y}
	if r.isEmpty() {
		return ProductRegion[X, Y]{}
	}
	return ProductRegion[X, Y]{rects: []Rect[X, Y]{r}}
}

func (p ProductRegion[X, Y]) IsEmpty() bool {
	return len(p.rects) == 0
}

// Rects returns the disjoint rectangles covering the region.
func (p ProductRegion[X, Y]) Rects() []Rect[X, Y] {
	return p.rects
}

func (p ProductRegion[X, Y]) Subtract(o ProductRegion[X, Y]) ProductRegion[X, Y] {
	res := []Rect[X, Y]{}
	for _, r := range p.rects {
		pieces := []Rect[X, Y]{r}
		for _, s := range o.rects {
			next := make([]Rect[X, Y], 0, len(pieces))
			for _, piece := range pieces {
				next = append(next, piece.subtract(s)...)
			}
			pieces = next
		}
		res = append(res, pieces...)
	}
	return ProductRegion[X, Y]{rects: res}
}

func (p ProductRegion[X, Y]) Intersect(o ProductRegion[X, Y]) ProductRegion[X, Y] {
	res := []Rect[X, Y]{}
	for _, r := range p.rects {
		for _, s := range o.rects {
			if i := (Rect[X, Y]{r.X.Intersect(s.X), r.Y.Intersect(s.Y)}); !i.isEmpty() {
				res = append(res, i)
			}
		}
	}
	return ProductRegion[X, Y]{rects: res}
}

func (p ProductRegion[X, Y]) Union(o ProductRegion[X, Y]) ProductRegion[X, Y] {
	rest := o.Subtract(p)
	res := make([]Rect[X, Y], 0, len(p.rects)+len(rest.rects))
	res = append(res, p.rects...)
	return ProductRegion[X, Y]{rects: append(res, rest.rects...)}
}

func (p ProductRegion[X, Y]) Compare(o ProductRegion[X, Y]) Comparison {
	switch {
	case o.Subtract(p).IsEmpty():
		return Includes
	case p.Intersect(o).IsEmpty():
		return Disjoint
	}
	return Intersects
}

func (p ProductRegion[X, Y]) String() string {
	if p.IsEmpty() {
		return colorize.Region("∅")
	}

	strs := make([]string, len(p.rects))
	for i, r := range p.rects {
		strs[i] = "(" + r.String() + ")"
	}
	return strings.Join(strs, " ∪ ")
}

var _ Region[ProductRegion[Trivial, Intervals[int]]] = ProductRegion[Trivial, Intervals[int]]{}
