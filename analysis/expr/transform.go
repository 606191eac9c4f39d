package expr

// Transform rebuilds e bottom-up. Nodes for which f returns true are replaced
// by its result without visiting their children. Shared sub-expressions are
// rewritten once, and unchanged sub-expressions keep their identity.
func Transform(e Expr, f func(Expr) (Expr, bool)) Expr {
	memo := make(map[Expr]Expr)

	var visit func(e Expr) Expr
	visit = func(e Expr) Expr {
		if res, found := memo[e]; found {
			return res
		}

		res, replaced := f(e)
		if !replaced {
			children := e.Children()
			changed := false
			next := make([]Expr, len(children))
			for i, c := range children {
				next[i] = visit(c)
				changed = changed || next[i] != c
			}

			res = e
			if changed {
				res = WithChildren(e, next)
			}
		}

		memo[e] = res
		return res
	}

	return visit(e)
}

// WithChildren rebuilds e over new immediate sub-expressions, in the order
// given by Children.
func WithChildren(e Expr, cs []Expr) Expr {
	switch e := e.(type) {
	case *BoolConst, *IntConst, *StrConst, *Address, *Symbol, *Var, *ArraySymbol:
		return e
	case *Not:
		return MkNot(cs[0])
	case *And:
		return MkAnd(cs...)
	case *Or:
		return MkOr(cs...)
	case *Eq:
		return MkEq(cs[0], cs[1])
	case *Le:
		return MkLe(cs[0], cs[1])
	case *Lt:
		return MkLt(cs[0], cs[1])
	case *Add:
		return MkAdd(cs[0], cs[1])
	case *Sub:
		return MkSub(cs[0], cs[1])
	case *Ite:
		return MkIte(cs[0], cs[1], cs[2])
	case *InputRead:
		return MkInputRead(e.Name, e.S, cs...)
	case *ConstArray:
		return MkConstArray(e.Dom, cs[0])
	case *Lambda:
		return MkLambda(e.Params, cs[0])
	case *Select:
		return MkSelect(cs[0], cs[1:]...)
	}
	panic(errPatternMatch(e))
}

// Substitute replaces variables by name.
func Substitute(e Expr, bindings map[string]Expr) Expr {
	return Transform(e, func(e Expr) (Expr, bool) {
		switch e := e.(type) {
		case *Var:
			if v, found := bindings[e.Name]; found {
				return v, true
			}
		case *Lambda:
			// Lambdas are closed.
			return e, true
		}
		return nil, false
	})
}

// Symbols collects the names of all symbols occurring in e.
func Symbols(e Expr) []*Symbol {
	seen := make(map[Expr]bool)
	names := make(map[string]bool)
	res := []*Symbol{}

	var visit func(e Expr)
	visit = func(e Expr) {
		if seen[e] {
			return
		}
		seen[e] = true

		if s, ok := e.(*Symbol); ok && !names[s.Name] {
			names[s.Name] = true
			res = append(res, s)
		}
		for _, c := range e.Children() {
			visit(c)
		}
	}
	visit(e)

	return res
}
