package collection

import (
	"sort"

	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
)

// KeyInfo describes the key space of a collection: how keys map to regions
// and how key relations are expressed at the solver level.
type KeyInfo[K any, R region.Region[R]] interface {
	// Region is the smallest region containing every value k may take.
	Region(k K) R
	// Full is the whole key space.
	Full() R
	// Exact reports whether Region(k) contains nothing but k.
	Exact(k K) bool
	// InRegion is the condition under which k lies in r.
	InRegion(k K, r R) expr.Expr
	Eq(a, b K) expr.Expr
	// Same reports whether two keys are syntactically identical.
	Same(a, b K) bool
	// Args and FromArgs convert between keys and the argument lists of
	// solver arrays indexed by Sorts.
	Args(k K) []expr.Expr
	FromArgs(args []expr.Expr) K
	Sorts() []expr.Sort
}

// AddressKeys indexes collections by references. Every concrete address is
// its own region point, and a symbolic reference may be any address.
type AddressKeys struct{}

func (AddressKeys) Region(k expr.Expr) region.SetRegion[int] {
	if a, ok := expr.AsAddress(k); ok {
		return region.Points(a)
	}
	return region.AllPoints[int]()
}

func (AddressKeys) Full() region.SetRegion[int] {
	return region.AllPoints[int]()
}

func (AddressKeys) Exact(k expr.Expr) bool {
	return expr.IsConcrete(k)
}

func (AddressKeys) InRegion(k expr.Expr, r region.SetRegion[int]) expr.Expr {
	if a, ok := expr.AsAddress(k); ok {
		return expr.MkBool(r.Contains(a))
	}

	members := r.Members()
	sort.Ints(members)
	conds := make([]expr.Expr, len(members))
	for i, m := range members {
		conds[i] = expr.MkEq(k, expr.MkAddr(m))
	}

	if r.IsFinite() {
		return expr.MkOr(conds...)
	}
	for i, c := range conds {
		conds[i] = expr.MkNot(c)
	}
	return expr.MkAnd(conds...)
}

func (AddressKeys) Eq(a, b expr.Expr) expr.Expr         { return expr.MkEq(a, b) }
func (AddressKeys) Same(a, b expr.Expr) bool            { return a.Equal(b) }
func (AddressKeys) Args(k expr.Expr) []expr.Expr        { return []expr.Expr{k} }
func (AddressKeys) FromArgs(args []expr.Expr) expr.Expr { return args[0] }
func (AddressKeys) Sorts() []expr.Sort                  { return []expr.Sort{expr.AddrSort} }

// IndexKeys indexes arrays by integer positions.
type IndexKeys struct{}

func (IndexKeys) Region(k expr.Expr) region.Intervals[int64] {
	if i, ok := expr.AsInt(k); ok {
		return region.Point(i)
	}
	return region.Unbounded[int64]()
}

func (IndexKeys) Full() region.Intervals[int64] {
	return region.Unbounded[int64]()
}

func (IndexKeys) Exact(k expr.Expr) bool {
	return expr.IsConcrete(k)
}

func (IndexKeys) InRegion(k expr.Expr, r region.Intervals[int64]) expr.Expr {
	if i, ok := expr.AsInt(k); ok {
		return expr.MkBool(r.Contains(i))
	}

	conds := []expr.Expr{}
	region.Discrete(r).ForEach(func(lo, hi region.Bound[int64]) {
		bounds := []expr.Expr{}
		if !lo.Infinite {
			bounds = append(bounds, expr.MkLe(expr.MkInt(lo.Value), k))
		}
		if !hi.Infinite {
			bounds = append(bounds, expr.MkLe(k, expr.MkInt(hi.Value)))
		}
		conds = append(conds, expr.MkAnd(bounds...))
	})
	return expr.MkOr(conds...)
}

func (IndexKeys) Eq(a, b expr.Expr) expr.Expr         { return expr.MkEq(a, b) }
func (IndexKeys) Same(a, b expr.Expr) bool            { return a.Equal(b) }
func (IndexKeys) Args(k expr.Expr) []expr.Expr        { return []expr.Expr{k} }
func (IndexKeys) FromArgs(args []expr.Expr) expr.Expr { return args[0] }
func (IndexKeys) Sorts() []expr.Sort                  { return []expr.Sort{expr.IntSort} }

// TrivialKeys is a key space that regions do not distinguish. Keys are still
// told apart by solver-level equality.
type TrivialKeys struct {
	S expr.Sort
}

func (TrivialKeys) Region(expr.Expr) region.Trivial     { return region.Full }
func (TrivialKeys) Full() region.Trivial                { return region.Full }
func (TrivialKeys) Exact(expr.Expr) bool                { return false }
func (TrivialKeys) Eq(a, b expr.Expr) expr.Expr         { return expr.MkEq(a, b) }
func (TrivialKeys) Same(a, b expr.Expr) bool            { return a.Equal(b) }
func (TrivialKeys) Args(k expr.Expr) []expr.Expr        { return []expr.Expr{k} }
func (TrivialKeys) FromArgs(args []expr.Expr) expr.Expr { return args[0] }
func (t TrivialKeys) Sorts() []expr.Sort                { return []expr.Sort{t.S} }

func (TrivialKeys) InRegion(_ expr.Expr, r region.Trivial) expr.Expr {
	return expr.MkBool(!r.IsEmpty())
}

// Pair is a two-dimensional key.
type Pair struct {
	First, Second expr.Expr
}

func (p Pair) String() string {
	return "(" + p.First.String() + ", " + p.Second.String() + ")"
}

// PairKeys is the product of two single-argument key spaces.
type PairKeys[X region.Region[X], Y region.Region[Y]] struct {
	First  KeyInfo[expr.Expr, X]
	Second KeyInfo[expr.Expr, Y]
}

func (p PairKeys[X, Y]) Region(k Pair) region.ProductRegion[X, Y] {
	return region.Product(p.First.Region(k.First), p.Second.Region(k.Second))
}

func (p PairKeys[X, Y]) Full() region.ProductRegion[X, Y] {
	return region.Product(p.First.Full(), p.Second.Full())
}

func (p PairKeys[X, Y]) Exact(k Pair) bool {
	return p.First.Exact(k.First) && p.Second.Exact(k.Second)
}

func (p PairKeys[X, Y]) InRegion(k Pair, r region.ProductRegion[X, Y]) expr.Expr {
	conds := []expr.Expr{}
	for _, rect := range r.Rects() {
		conds = append(conds, expr.MkAnd(
			p.First.InRegion(k.First, rect.X),
			p.Second.InRegion(k.Second, rect.Y),
		))
	}
	return expr.MkOr(conds...)
}

func (p PairKeys[X, Y]) Eq(a, b Pair) expr.Expr {
	return expr.MkAnd(p.First.Eq(a.First, b.First), p.Second.Eq(a.Second, b.Second))
}

func (p PairKeys[X, Y]) Same(a, b Pair) bool {
	return p.First.Same(a.First, b.First) && p.Second.Same(a.Second, b.Second)
}

func (p PairKeys[X, Y]) Args(k Pair) []expr.Expr {
	return append(p.First.Args(k.First), p.Second.Args(k.Second)...)
}

func (p PairKeys[X, Y]) FromArgs(args []expr.Expr) Pair {
	n := len(p.First.Sorts())
	return Pair{p.First.FromArgs(args[:n]), p.Second.FromArgs(args[n:])}
}

func (p PairKeys[X, Y]) Sorts() []expr.Sort {
	return append(append([]expr.Sort{}, p.First.Sorts()...), p.Second.Sorts()...)
}

var (
	_ KeyInfo[expr.Expr, region.SetRegion[int]]                                      = AddressKeys{}
	_ KeyInfo[expr.Expr, region.Intervals[int64]]                                    = IndexKeys{}
	_ KeyInfo[expr.Expr, region.Trivial]                                             = TrivialKeys{}
	_ KeyInfo[Pair, region.ProductRegion[region.SetRegion[int], region.SetRegion[int]]] = PairKeys[region.SetRegion[int], region.SetRegion[int]]{}
)
