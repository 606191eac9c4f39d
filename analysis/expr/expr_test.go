package expr

import (
	"os"
	"testing"

	"github.com/cs-au-dk/symheap/utils"
)

func TestMain(m *testing.M) {
	utils.FlagSet().Set("no-colorize", "true")
	os.Exit(m.Run())
}

var (
	p  = MkSymbol("p", BoolSort)
	q  = MkSymbol("q", BoolSort)
	a  = MkSymbol("a", AddrSort)
	b  = MkSymbol("b", AddrSort)
	n  = MkSymbol("n", IntSort)
	a1 = MkAddr(1)
	a2 = MkAddr(2)
)

func TestSmartConstructors(t *testing.T) {
	tests := []struct {
		name     string
		got      Expr
		expected Expr
	}{
		{"eq concrete addresses", MkEq(a1, MkAddr(1)), True},
		{"ne concrete addresses", MkEq(a1, a2), False},
		{"eq same symbol", MkEq(a, MkSymbol("a", AddrSort)), True},
		{"eq distinct symbols", MkEq(a, b), &Eq{L: a, R: b}},
		{"allocated is not input", MkEq(a1, a), False},
		{"input may be null", MkEq(Null, a), &Eq{L: Null, R: a}},
		{"eq with true", MkEq(p, True), p},
		{"eq with false", MkEq(False, p), MkNot(p)},
		{"double negation", MkNot(MkNot(p)), p},
		{"and drops true", MkAnd(True, p, True), p},
		{"and absorbs false", MkAnd(p, False, q), False},
		{"and flattens", MkAnd(p, MkAnd(q, p)), &And{Args: []Expr{p, q}}},
		{"or drops false", MkOr(False, q), q},
		{"or absorbs true", MkOr(p, True), True},
		{"and with complement", MkAnd(MkNot(p), q, p), False},
		{"nested and with complement", MkAnd(p, MkAnd(q, MkNot(p))), False},
		{"or with complement", MkOr(p, MkNot(p)), True},
		{"or of negated and plain", MkOr(MkNot(q), p, q), True},
		{"empty and", MkAnd(), True},
		{"empty or", MkOr(), False},
		{"ite true", MkIte(True, a1, a2), a1},
		{"ite same branches", MkIte(p, a1, MkAddr(1)), a1},
		{"ite as condition", MkIte(p, True, False), p},
		{"ite as negation", MkIte(p, False, True), MkNot(p)},
		{"nested ite on same condition", MkIte(p, a1, MkIte(p, a2, Null)), &Ite{Cond: p, Then: a1, Else: Null}},
		{"eq through ite", MkEq(MkIte(p, a1, a2), a1), p},
		{"int folding", MkAdd(MkInt(2), MkInt(3)), MkInt(5)},
		{"add zero", MkAdd(n, MkInt(0)), n},
		{"sub self", MkSub(n, n), MkInt(0)},
		{"le folding", MkLe(MkInt(3), MkInt(2)), False},
		{"lt self", MkLt(n, n), False},
		{"select const array", MkSelect(MkConstArray([]Sort{IntSort}, MkInt(7)), n), MkInt(7)},
	}

	for _, test := range tests {
		if !test.got.Equal(test.expected) {
			t.Errorf("%s: got %v, expected %v", test.name, test.got, test.expected)
		}
	}
}

func TestSortMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	MkEq(a, n)
}

func TestEqualAndHash(t *testing.T) {
	e1 := MkIte(MkEq(a, b), MkInt(1), MkAdd(n, MkInt(2)))
	e2 := MkIte(MkEq(MkSymbol("a", AddrSort), MkSymbol("b", AddrSort)), MkInt(1), MkAdd(MkSymbol("n", IntSort), MkInt(2)))

	if e1 == e2 {
		t.Fatal("expected distinct objects")
	}
	if !e1.Equal(e2) {
		t.Errorf("%v and %v should be structurally equal", e1, e2)
	}
	if e1.Hash() != e2.Hash() {
		t.Errorf("equal expressions have different hashes")
	}
	if e1.Equal(MkIte(MkEq(a, b), MkInt(1), MkAdd(n, MkInt(3)))) {
		t.Error("different constants should not be equal")
	}
	if MkSymbol("x", IntSort).Equal(MkVar("x", IntSort)) {
		t.Error("a symbol should not equal a variable of the same name")
	}
}

func TestString(t *testing.T) {
	k := MkVar("k", AddrSort)
	tests := []struct {
		e        Expr
		expected string
	}{
		{MkIte(p, a1, Null), "(ite p #1 #0)"},
		{MkAnd(p, MkNot(q)), "(and p (not q))"},
		{MkStr("x"), `"x"`},
		{MkInputRead("field", IntSort, a), "field[a]"},
		{MkLambda([]*Var{k}, MkEq(k, a)), "(lambda ((k Addr)) (= k a))"},
		{MkSelect(MkArraySymbol("arr", []Sort{AddrSort}, IntSort), a), "(select arr a)"},
		{MkConstArray([]Sort{AddrSort, IntSort}, False), "(const (Addr Int) false)"},
	}

	for _, test := range tests {
		if got := test.e.String(); got != test.expected {
			t.Errorf("String() = %s, expected %s", got, test.expected)
		}
	}
}

func TestEval(t *testing.T) {
	k := MkVar("k", AddrSort)
	arr := MkArraySymbol("arr", []Sort{AddrSort}, IntSort)
	model := NewModel().
		WithConst("a", MkAddr(-1)).
		WithConst("n", MkInt(4)).
		WithConst("p", True).
		WithArray("arr", &ArrayInterp{
			Entries: []ArrayEntry{{Args: []Expr{MkAddr(-1)}, Value: MkInt(10)}},
			Default: MkInt(3),
		})

	lambda := MkLambda([]*Var{k}, MkIte(MkEq(k, a), MkInt(1), MkSelect(arr, k)))

	tests := []struct {
		e        Expr
		expected Expr
	}{
		{a, MkAddr(-1)},
		// Unassigned symbols take the sort default.
		{b, Null},
		{q, False},
		{MkAdd(n, MkInt(1)), MkInt(5)},
		{MkSub(n, MkInt(6)), MkInt(-2)},
		{&Eq{L: a, R: b}, False},
		{&Le{L: n, R: MkInt(4)}, True},
		{MkAnd(p, MkNot(q)), True},
		{MkIte(p, a1, a2), a1},
		{MkSelect(arr, a), MkInt(10)},
		{MkSelect(arr, b), MkInt(3)},
		{MkSelect(lambda, a), MkInt(1)},
		{MkSelect(lambda, b), MkInt(3)},
		{MkInputRead("arr", IntSort, a), MkInt(10)},
		{MkInputRead("missing", StringSort, a), MkStr("")},
	}

	for _, test := range tests {
		if got := model.Eval(test.e); !got.Equal(test.expected) {
			t.Errorf("Eval(%v) = %v, expected %v", test.e, got, test.expected)
		}
	}
}

func TestSubstituteAndSymbols(t *testing.T) {
	k := MkVar("k", AddrSort)
	e := MkAnd(MkEq(k, a), MkNot(MkEq(k, b)))

	res := Substitute(e, map[string]Expr{"k": a1})
	// Allocated addresses never equal input references.
	if !res.Equal(False) {
		t.Errorf("Substitute = %v, expected false", res)
	}

	res = Substitute(e, map[string]Expr{"k": a})
	if !res.Equal(MkNot(MkEq(a, b))) {
		t.Errorf("Substitute = %v, expected (not (= a b))", res)
	}

	syms := Symbols(MkIte(p, MkEq(a, b), MkEq(a, a)))
	names := []string{}
	for _, s := range syms {
		names = append(names, s.Name)
	}
	if len(names) != 3 || names[0] != "p" || names[1] != "a" || names[2] != "b" {
		t.Errorf("Symbols = %v", names)
	}
}
