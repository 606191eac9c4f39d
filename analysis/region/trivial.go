package region

// Trivial is the region of a key space with a single key. It is either the
// whole space or empty.
type Trivial struct {
	empty bool
}

var (
	Full  = Trivial{}
	Empty = Trivial{empty: true}
)

func (t Trivial) IsEmpty() bool {
	return t.empty
}

func (t Trivial) Compare(o Trivial) Comparison {
	switch {
	case o.empty:
		return Includes
	case t.empty:
		return Disjoint
	}
	return Includes
}

func (t Trivial) Subtract(o Trivial) Trivial {
	if o.empty {
		return t
	}
	return Empty
}

func (t Trivial) Intersect(o Trivial) Trivial {
	return Trivial{empty: t.empty || o.empty}
}

func (t Trivial) Union(o Trivial) Trivial {
	return Trivial{empty: t.empty && o.empty}
}

func (t Trivial) String() string {
	if t.empty {
		return colorize.Region("∅")
	}
	return colorize.Region("⊤")
}

var _ Region[Trivial] = Trivial{}
