package region

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Bound is an interval endpoint. Infinite bounds ignore Value and Closed.
type Bound[P constraints.Ordered] struct {
	Value    P
	Closed   bool
	Infinite bool
}

func Incl[P constraints.Ordered](v P) Bound[P] { return Bound[P]{Value: v, Closed: true} }
func Excl[P constraints.Ordered](v P) Bound[P] { return Bound[P]{Value: v} }
func Inf[P constraints.Ordered]() Bound[P]     { return Bound[P]{Infinite: true} }

type interval[P constraints.Ordered] struct {
	lo, hi Bound[P]
}

// Intervals is a finite union of intervals over an ordered domain. The
// intervals are kept sorted, pairwise disjoint and non-adjacent, so equal
// point sets over a dense domain have equal representations.
type Intervals[P constraints.Ordered] struct {
	list []interval[P]
}

func NoIntervals[P constraints.Ordered]() Intervals[P] {
	return Intervals[P]{}
}

// Unbounded is the whole domain.
func Unbounded[P constraints.Ordered]() Intervals[P] {
	return Intervals[P]{list: []interval[P]{{Inf[P](), Inf[P]()}}}
}

// Interval is the single interval between lo and hi. A lower bound above the
// upper bound is malformed.
func Interval[P constraints.Ordered](lo, hi Bound[P]) Intervals[P] {
	if !lo.Infinite && !hi.Infinite {
		switch {
		case lo.Value > hi.Value:
			panic(fmt.Errorf("%w: interval from %v to %v", errMalformed, lo.Value, hi.Value))
		case lo.Value == hi.Value && !(lo.Closed && hi.Closed):
			return NoIntervals[P]()
		}
	}
	return Intervals[P]{list: []interval[P]{{lo, hi}}}
}

// Closed is [lo, hi].
func Closed[P constraints.Ordered](lo, hi P) Intervals[P] {
	return Interval(Incl(lo), Incl(hi))
}

// Point is [v, v].
func Point[P constraints.Ordered](v P) Intervals[P] {
	return Closed(v, v)
}

func (s Intervals[P]) IsEmpty() bool {
	return len(s.list) == 0
}

// ForEach visits the intervals in ascending order.
func (s Intervals[P]) ForEach(do func(lo, hi Bound[P])) {
	for _, i := range s.list {
		do(i.lo, i.hi)
	}
}

// Contains reports whether v is in the set.
func (s Intervals[P]) Contains(v P) bool {
	pos := position[P]{v: v}
	for _, i := range s.list {
		if i.contains(pos) {
			return true
		}
	}
	return false
}

// position is a location visited by the sweep: the open segment before all
// endpoints, a point, or the open segment just after a point.
type position[P constraints.Ordered] struct {
	v     P
	start bool
	after bool
}

func (i interval[P]) contains(pos position[P]) bool {
	if pos.start {
		return i.lo.Infinite
	}

	loOk := i.lo.Infinite ||
		i.lo.Value < pos.v ||
		i.lo.Value == pos.v && (i.lo.Closed || pos.after)
	hiOk := i.hi.Infinite ||
		i.hi.Value > pos.v ||
		i.hi.Value == pos.v && i.hi.Closed && !pos.after
	return loOk && hiOk
}

// before reports whether the interval ends before pos.
func (i interval[P]) before(pos position[P]) bool {
	if pos.start || i.hi.Infinite {
		return false
	}
	return i.hi.Value < pos.v ||
		i.hi.Value == pos.v && (!i.hi.Closed || pos.after)
}

// cursor walks the intervals of one operand as the sweep advances.
type cursor[P constraints.Ordered] struct {
	list []interval[P]
	idx  int
}

func (c *cursor[P]) at(pos position[P]) bool {
	for c.idx < len(c.list) && c.list[c.idx].before(pos) {
		c.idx++
	}
	return c.idx < len(c.list) && c.list[c.idx].contains(pos)
}

// endpoints returns the sorted distinct finite endpoint values of a and b.
func endpoints[P constraints.Ordered](a, b []interval[P]) []P {
	collect := func(l []interval[P]) []P {
		res := make([]P, 0, 2*len(l))
		for _, i := range l {
			if !i.lo.Infinite {
				res = append(res, i.lo.Value)
			}
			if !i.hi.Infinite {
				res = append(res, i.hi.Value)
			}
		}
		return res
	}

	// Both lists are sorted, merge them.
	xs, ys := collect(a), collect(b)
	res := make([]P, 0, len(xs)+len(ys))
	push := func(v P) {
		if len(res) == 0 || res[len(res)-1] != v {
			res = append(res, v)
		}
	}
	i, j := 0, 0
	for i < len(xs) || j < len(ys) {
		switch {
		case j >= len(ys) || i < len(xs) && xs[i] <= ys[j]:
			push(xs[i])
			i++
		default:
			push(ys[j])
			j++
		}
	}
	return res
}

// sweep visits every elementary segment induced by the endpoints of a and b
// in ascending order, reporting whether the segment belongs to a and to b.
// Iteration stops when visit returns false.
func sweep[P constraints.Ordered](a, b Intervals[P], visit func(pos position[P], inA, inB bool) bool) {
	ca, cb := &cursor[P]{list: a.list}, &cursor[P]{list: b.list}
	step := func(pos position[P]) bool {
		return visit(pos, ca.at(pos), cb.at(pos))
	}

	if !step(position[P]{start: true}) {
		return
	}
	for _, v := range endpoints(a.list, b.list) {
		if !step(position[P]{v: v}) || !step(position[P]{v: v, after: true}) {
			return
		}
	}
}

// combine builds the set of segments where op holds.
func combine[P constraints.Ordered](a, b Intervals[P], op func(inA, inB bool) bool) Intervals[P] {
	res := []interval[P]{}
	var (
		open bool
		lo   Bound[P]
		prev position[P]
	)

	sweep(a, b, func(pos position[P], inA, inB bool) bool {
		in := op(inA, inB)
		switch {
		case in && !open:
			open = true
			switch {
			case pos.start:
				lo = Inf[P]()
			case pos.after:
				lo = Excl(pos.v)
			default:
				lo = Incl(pos.v)
			}
		case !in && open:
			open = false
			var hi Bound[P]
			switch {
			case prev.after:
				// The open segment after prev ends right before pos.
				hi = Excl(pos.v)
			default:
				hi = Incl(prev.v)
			}
			if prev.start {
				hi = Excl(pos.v)
			}
			res = append(res, interval[P]{lo, hi})
		}
		prev = pos
		return true
	})

	if open {
		res = append(res, interval[P]{lo, Inf[P]()})
	}
	return Intervals[P]{list: res}
}

func (s Intervals[P]) Union(o Intervals[P]) Intervals[P] {
	return combine(s, o, func(a, b bool) bool { return a || b })
}

func (s Intervals[P]) Intersect(o Intervals[P]) Intervals[P] {
	return combine(s, o, func(a, b bool) bool { return a && b })
}

func (s Intervals[P]) Subtract(o Intervals[P]) Intervals[P] {
	return combine(s, o, func(a, b bool) bool { return a && !b })
}

func (s Intervals[P]) Compare(o Intervals[P]) Comparison {
	if o.IsEmpty() {
		return Includes
	}

	shared, missing := false, false
	sweep(s, o, func(_ position[P], inS, inO bool) bool {
		shared = shared || inS && inO
		missing = missing || inO && !inS
		return !(shared && missing)
	})

	switch {
	case !missing:
		return Includes
	case shared:
		return Intersects
	}
	return Disjoint
}

func (b Bound[P]) lower() string {
	switch {
	case b.Infinite:
		return "(-∞"
	case b.Closed:
		return "[" + colorize.Point(b.Value)
	}
	return "(" + colorize.Point(b.Value)
}

func (b Bound[P]) upper() string {
	switch {
	case b.Infinite:
		return "+∞)"
	case b.Closed:
		return colorize.Point(b.Value) + "]"
	}
	return colorize.Point(b.Value) + ")"
}

func (s Intervals[P]) String() string {
	if s.IsEmpty() {
		return colorize.Region("∅")
	}

	strs := make([]string, len(s.list))
	for i, iv := range s.list {
		if !iv.lo.Infinite && !iv.hi.Infinite && iv.lo.Value == iv.hi.Value {
			strs[i] = "{" + colorize.Point(iv.lo.Value) + "}"
			continue
		}
		strs[i] = iv.lo.lower() + ", " + iv.hi.upper()
	}
	return strings.Join(strs, " ∪ ")
}

var _ Region[Intervals[int]] = Intervals[int]{}

// Discrete normalizes intervals over an integer domain: open bounds become
// closed, empty intervals disappear and adjacent intervals are joined.
func Discrete[P constraints.Integer](s Intervals[P]) Intervals[P] {
	res := make([]interval[P], 0, len(s.list))
	for _, iv := range s.list {
		lo, hi := iv.lo, iv.hi
		if !lo.Infinite && !lo.Closed {
			lo = Incl(lo.Value + 1)
		}
		if !hi.Infinite && !hi.Closed {
			hi = Incl(hi.Value - 1)
		}
		if !lo.Infinite && !hi.Infinite && lo.Value > hi.Value {
			continue
		}

		if n := len(res); n > 0 && !res[n-1].hi.Infinite && !lo.Infinite && res[n-1].hi.Value+1 == lo.Value {
			res[n-1].hi = hi
			continue
		}
		res = append(res, interval[P]{lo, hi})
	}
	return Intervals[P]{list: res}
}
