package expr

var (
	True        = &BoolConst{Value: true}
	False       = &BoolConst{Value: false}
	Null        = &Address{Value: 0}
	zero        = &IntConst{Value: 0}
	emptyString = &StrConst{Value: ""}
)

func MkBool(b bool) Expr {
	if b {
		return True
	}
	return False
}

func MkInt(v int64) Expr {
	if v == 0 {
		return zero
	}
	return &IntConst{Value: v}
}

func MkStr(s string) Expr {
	if s == "" {
		return emptyString
	}
	return &StrConst{Value: s}
}

func MkAddr(a int) *Address {
	if a == 0 {
		return Null
	}
	return &Address{Value: a}
}

func MkSymbol(name string, s Sort) *Symbol {
	return &Symbol{Name: name, S: s}
}

func MkVar(name string, s Sort) *Var {
	return &Var{Name: name, S: s}
}

// IsConcrete reports whether e is a constant value.
func IsConcrete(e Expr) bool {
	switch e.(type) {
	case *BoolConst, *IntConst, *StrConst, *Address:
		return true
	}
	return false
}

// IsTrue and IsFalse recognize boolean constants.
func IsTrue(e Expr) bool {
	b, ok := e.(*BoolConst)
	return ok && b.Value
}

func IsFalse(e Expr) bool {
	b, ok := e.(*BoolConst)
	return ok && !b.Value
}

// AsAddress returns the concrete address denoted by e, if any.
func AsAddress(e Expr) (int, bool) {
	if a, ok := e.(*Address); ok {
		return a.Value, true
	}
	return 0, false
}

// AsInt returns the integer constant denoted by e, if any.
func AsInt(e Expr) (int64, bool) {
	if i, ok := e.(*IntConst); ok {
		return i.Value, true
	}
	return 0, false
}

func checkSorts(a, b Expr) {
	if a.Sort() != b.Sort() {
		panic(errSortMismatch(a, b))
	}
}

func MkNot(x Expr) Expr {
	switch x := x.(type) {
	case *BoolConst:
		return MkBool(!x.Value)
	case *Not:
		return x.X
	}
	return &Not{X: x}
}

// complementary reports whether one of x and y is the negation of the other.
func complementary(x, y Expr) bool {
	if n, ok := x.(*Not); ok && n.X.Equal(y) {
		return true
	}
	n, ok := y.(*Not)
	return ok && n.X.Equal(x)
}

// MkAnd flattens nested conjunctions and drops true and duplicate operands.
// A conjunction holding an operand and its negation is false.
func MkAnd(xs ...Expr) Expr {
	args := make([]Expr, 0, len(xs))
	var add func(x Expr) bool
	add = func(x Expr) bool {
		switch x := x.(type) {
		case *BoolConst:
			return x.Value
		case *And:
			for _, y := range x.Args {
				if !add(y) {
					return false
				}
			}
			return true
		}
		for _, y := range args {
			if y.Equal(x) {
				return true
			}
			if complementary(x, y) {
				return false
			}
		}
		args = append(args, x)
		return true
	}

	for _, x := range xs {
		if !add(x) {
			return False
		}
	}

	switch len(args) {
	case 0:
		return True
	case 1:
		return args[0]
	}
	return &And{Args: args}
}

// MkOr flattens nested disjunctions and drops false and duplicate operands.
// A disjunction holding an operand and its negation is true.
func MkOr(xs ...Expr) Expr {
	args := make([]Expr, 0, len(xs))
	var add func(x Expr) bool
	add = func(x Expr) bool {
		switch x := x.(type) {
		case *BoolConst:
			return !x.Value
		case *Or:
			for _, y := range x.Args {
				if !add(y) {
					return false
				}
			}
			return true
		}
		for _, y := range args {
			if y.Equal(x) {
				return true
			}
			if complementary(x, y) {
				return false
			}
		}
		args = append(args, x)
		return true
	}

	for _, x := range xs {
		if !add(x) {
			return True
		}
	}

	switch len(args) {
	case 0:
		return False
	case 1:
		return args[0]
	}
	return &Or{Args: args}
}

func MkImplies(a, b Expr) Expr {
	return MkOr(MkNot(a), b)
}

// MkEq decides equality of constants. Allocated addresses never equal input
// references, so a positive address compared with an address symbol is
// false. Equality of distinct symbols is left open.
func MkEq(a, b Expr) Expr {
	checkSorts(a, b)

	if a.Equal(b) {
		return True
	}
	if IsConcrete(a) && IsConcrete(b) {
		return False
	}

	if a.Sort() == BoolSort {
		switch {
		case IsTrue(a):
			return b
		case IsTrue(b):
			return a
		case IsFalse(a):
			return MkNot(b)
		case IsFalse(b):
			return MkNot(a)
		}
	}

	if a.Sort() == AddrSort {
		_, aSym := a.(*Symbol)
		_, bSym := b.(*Symbol)
		if x, ok := AsAddress(a); ok && x > 0 && bSym {
			return False
		}
		if x, ok := AsAddress(b); ok && x > 0 && aSym {
			return False
		}
	}

	// Push equalities with constants through conditionals over constants, so
	// alias guards stay decidable.
	if ite, ok := a.(*Ite); ok && IsConcrete(b) && IsConcrete(ite.Then) {
		return MkIte(ite.Cond, MkEq(ite.Then, b), MkEq(ite.Else, b))
	}
	if ite, ok := b.(*Ite); ok && IsConcrete(a) && IsConcrete(ite.Then) {
		return MkIte(ite.Cond, MkEq(a, ite.Then), MkEq(a, ite.Else))
	}

	return &Eq{L: a, R: b}
}

func MkNe(a, b Expr) Expr {
	return MkNot(MkEq(a, b))
}

// MkIte simplifies constant conditions, equal branches, boolean branches and
// directly nested conditionals over the same condition.
func MkIte(c, t, e Expr) Expr {
	if c.Sort() != BoolSort {
		panic(errSortMismatch(c, True))
	}
	checkSorts(t, e)

	switch {
	case IsTrue(c):
		return t
	case IsFalse(c):
		return e
	case t.Equal(e):
		return t
	}

	if inner, ok := t.(*Ite); ok && inner.Cond.Equal(c) {
		t = inner.Then
	}
	if inner, ok := e.(*Ite); ok && inner.Cond.Equal(c) {
		e = inner.Else
	}
	if t.Equal(e) {
		return t
	}

	if t.Sort() == BoolSort {
		switch {
		case IsTrue(t) && IsFalse(e):
			return c
		case IsFalse(t) && IsTrue(e):
			return MkNot(c)
		case IsTrue(t):
			return MkOr(c, e)
		case IsFalse(e):
			return MkAnd(c, t)
		}
	}

	return &Ite{Cond: c, Then: t, Else: e}
}

func intArgs(a, b Expr) (int64, int64, bool) {
	if a.Sort() != IntSort {
		panic(errSortMismatch(a, zero))
	}
	checkSorts(a, b)

	x, ok1 := AsInt(a)
	y, ok2 := AsInt(b)
	return x, y, ok1 && ok2
}

func MkLe(a, b Expr) Expr {
	if x, y, ok := intArgs(a, b); ok {
		return MkBool(x <= y)
	}
	if a.Equal(b) {
		return True
	}
	return &Le{L: a, R: b}
}

func MkLt(a, b Expr) Expr {
	if x, y, ok := intArgs(a, b); ok {
		return MkBool(x < y)
	}
	if a.Equal(b) {
		return False
	}
	return &Lt{L: a, R: b}
}

func MkGe(a, b Expr) Expr { return MkLe(b, a) }
func MkGt(a, b Expr) Expr { return MkLt(b, a) }

func MkAdd(a, b Expr) Expr {
	x, y, ok := intArgs(a, b)
	switch {
	case ok:
		return MkInt(x + y)
	case IsConcrete(a) && x == 0:
		return b
	case IsConcrete(b) && y == 0:
		return a
	}
	return &Add{L: a, R: b}
}

func MkSub(a, b Expr) Expr {
	x, y, ok := intArgs(a, b)
	switch {
	case ok:
		return MkInt(x - y)
	case IsConcrete(b) && y == 0:
		return a
	case a.Equal(b):
		return zero
	}
	return &Sub{L: a, R: b}
}

func MkInputRead(name string, s Sort, args ...Expr) Expr {
	return &InputRead{Name: name, Args: args, S: s}
}

func MkArraySymbol(name string, dom []Sort, result Sort) *ArraySymbol {
	return &ArraySymbol{Name: name, Dom: dom, Result: result}
}

func MkConstArray(dom []Sort, value Expr) *ConstArray {
	return &ConstArray{Dom: dom, Value: value}
}

func MkLambda(params []*Var, body Expr) *Lambda {
	return &Lambda{Params: params, Body: body}
}

// MkSelect reads an array. Constant arrays are resolved immediately; lambdas
// are kept unapplied so their bodies stay shared.
func MkSelect(array Expr, args ...Expr) Expr {
	dom := Domain(array)
	if len(dom) != len(args) {
		panic(errInternal)
	}
	for i, a := range args {
		if a.Sort() != dom[i] {
			panic(errSortMismatch(a, MkVar("_", dom[i])))
		}
	}

	if c, ok := array.(*ConstArray); ok {
		return c.Value
	}
	return &Select{Array: array, Args: args}
}
