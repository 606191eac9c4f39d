package collection

import (
	"testing"

	"github.com/cs-au-dk/symheap/analysis/expr"

	"github.com/google/go-cmp/cmp"
)

type foldPart struct {
	Ref  string
	Cond string
}

func foldParts(ref, guard expr.Expr) []foldPart {
	res := []foldPart{}
	FoldRef(ref, guard,
		func(addr int, cond expr.Expr) {
			res = append(res, foldPart{expr.MkAddr(addr).String(), cond.String()})
		},
		func(sym, cond expr.Expr) {
			res = append(res, foldPart{sym.String(), cond.String()})
		})
	return res
}

func TestFoldRef(t *testing.T) {
	p, q := expr.MkSymbol("p", expr.BoolSort), expr.MkSymbol("q", expr.BoolSort)
	x, y := expr.MkSymbol("x", expr.AddrSort), expr.MkSymbol("y", expr.AddrSort)
	a1, a2 := expr.MkAddr(1), expr.MkAddr(2)

	tests := []struct {
		name     string
		ref      expr.Expr
		guard    expr.Expr
		expected []foldPart
	}{
		{"concrete", a1, expr.True, []foldPart{{"#1", "true"}}},
		{"symbolic", x, expr.True, []foldPart{{"x", "true"}}},
		{"null is input", expr.Null, expr.True, []foldPart{{"#0", "true"}}},
		{"guarded", a1, p, []foldPart{{"#1", "p"}}},
		{"alias", expr.MkIte(p, a1, x), expr.True, []foldPart{{"#1", "p"}, {"x", "(not p)"}}},
		{
			"duplicates merge",
			expr.MkIte(p, a1, expr.MkIte(q, a2, a1)),
			expr.True,
			[]foldPart{{"#1", "(or p (and (not p) (not q)))"}, {"#2", "(and (not p) q)"}},
		},
		{
			"symbolic on both sides",
			expr.MkIte(p, x, expr.MkIte(q, a1, y)),
			expr.True,
			[]foldPart{{"#1", "(and (not p) q)"}, {"(ite p x y)", "(or p (not q))"}},
		},
		{"false part skipped", expr.MkIte(p, a1, x), expr.MkNot(p), []foldPart{{"x", "(not p)"}}},
	}

	for _, test := range tests {
		if diff := cmp.Diff(test.expected, foldParts(test.ref, test.guard)); diff != "" {
			t.Errorf("%s: unexpected parts (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestReadRef(t *testing.T) {
	p := expr.MkSymbol("p", expr.BoolSort)
	x := expr.MkSymbol("x", expr.AddrSort)

	read := ReadRef(expr.MkIte(p, expr.MkAddr(3), x), expr.IntSort,
		func(addr int) expr.Expr { return expr.MkInt(int64(addr * 10)) },
		func(expr.Expr) expr.Expr { return expr.MkSymbol("v", expr.IntSort) })

	if s := read.String(); s != "(ite p 30 v)" {
		t.Errorf("ReadRef = %s", s)
	}
}
