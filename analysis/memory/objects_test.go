package memory

import (
	"testing"

	"github.com/cs-au-dk/symheap/analysis/expr"
)

func TestFields(t *testing.T) {
	x, y := expr.MkSymbol("x", expr.AddrSort), expr.MkSymbol("y", expr.AddrSort)
	p := expr.MkSymbol("p", expr.BoolSort)
	field := func(ref expr.Expr) FieldLValue {
		return FieldLValue{Ref: ref, Field: "T.f", Sort: expr.IntSort}
	}

	mem := New()
	mem, a := mem.Alloc()
	mem = mem.Write(field(a), expr.MkInt(5), expr.True)
	mem = mem.Write(field(x), expr.MkInt(7), expr.True)
	aliased := mem.Write(field(expr.MkIte(p, a, x)), expr.MkInt(9), expr.True)

	tests := []struct {
		mem      Memory
		ref      expr.Expr
		expected string
	}{
		{mem, a, "5"},
		{mem, x, "7"},
		{mem, expr.MkAddr(2), "0"},
		{mem, y, "(ite (= x y) 7 field<T.f>I[y])"},
		{aliased, a, "(ite p 9 5)"},
		{aliased, x, "(ite (not p) 9 7)"},
	}

	for _, test := range tests {
		if got := test.mem.Read(field(test.ref)).String(); got != test.expected {
			t.Errorf("%v.f = %s, expected %s", test.ref, got, test.expected)
		}
	}

	if a.Value != 1 {
		t.Errorf("first allocation at %v", a)
	}
}

func TestSortMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("writing a boolean into an integer field should panic")
		}
	}()

	New().Write(FieldLValue{Ref: expr.MkAddr(1), Field: "T.f", Sort: expr.IntSort}, expr.True, expr.True)
}
