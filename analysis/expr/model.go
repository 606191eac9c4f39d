package expr

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

// ArrayEntry is one point of an array interpretation.
type ArrayEntry struct {
	Args  []Expr
	Value Expr
}

// ArrayInterp interprets an array as finitely many points over a default.
type ArrayInterp struct {
	Entries []ArrayEntry
	Default Expr
}

// Lookup returns the value at the given constant key.
func (a *ArrayInterp) Lookup(args ...Expr) Expr {
	for _, e := range a.Entries {
		if equalAll(e.Args, args) {
			return e.Value
		}
	}
	return a.Default
}

// Model is a satisfying assignment returned by a solver. Constants and arrays
// that are not mentioned take the default value of their sort.
type Model struct {
	consts *immutable.SortedMap[string, Expr]
	arrays *immutable.SortedMap[string, *ArrayInterp]
}

func NewModel() Model {
	return Model{
		consts: immutable.NewSortedMap[string, Expr](nil),
		arrays: immutable.NewSortedMap[string, *ArrayInterp](nil),
	}
}

// WithConst assigns a constant value to a symbol.
func (m Model) WithConst(name string, value Expr) Model {
	if !IsConcrete(value) {
		panic(errPatternMatch(value))
	}
	m.consts = m.consts.Set(name, value)
	return m
}

// WithArray assigns an interpretation to an array symbol or input collection.
func (m Model) WithArray(name string, interp *ArrayInterp) Model {
	m.arrays = m.arrays.Set(name, interp)
	return m
}

func (m Model) Const(name string) (Expr, bool) {
	return m.consts.Get(name)
}

func (m Model) Array(name string) (*ArrayInterp, bool) {
	return m.arrays.Get(name)
}

// ForEachArray visits array interpretations in name order.
func (m Model) ForEachArray(do func(name string, interp *ArrayInterp)) {
	for itr := m.arrays.Iterator(); !itr.Done(); {
		name, interp, _ := itr.Next()
		do(name, interp)
	}
}

func (m Model) String() string {
	strs := []string{}
	for itr := m.consts.Iterator(); !itr.Done(); {
		name, v, _ := itr.Next()
		strs = append(strs, colorize.Symbol(name)+" = "+v.String())
	}
	m.ForEachArray(func(name string, interp *ArrayInterp) {
		entries := []string{}
		for _, e := range interp.Entries {
			args := make([]string, len(e.Args))
			for i, a := range e.Args {
				args[i] = a.String()
			}
			entries = append(entries, strings.Join(args, ", ")+" -> "+e.Value.String())
		}
		entries = append(entries, "else -> "+interp.Default.String())
		strs = append(strs, colorize.Array(name)+" = ["+strings.Join(entries, "; ")+"]")
	})
	return "{ " + strings.Join(strs, ", ") + " }"
}

func (m Model) lookupArray(name string, s Sort, args []Expr) Expr {
	if interp, found := m.arrays.Get(name); found {
		return interp.Lookup(args...)
	}
	return s.Default()
}

// Eval evaluates e to a constant.
func (m Model) Eval(e Expr) Expr {
	return m.eval(e, nil)
}

// EvalBool evaluates a boolean expression.
func (m Model) EvalBool(e Expr) bool {
	return IsTrue(m.Eval(e))
}

func (m Model) evalAll(es []Expr, env map[string]Expr) []Expr {
	res := make([]Expr, len(es))
	for i, e := range es {
		res[i] = m.eval(e, env)
	}
	return res
}

func (m Model) evalInt(e Expr, env map[string]Expr) int64 {
	v, ok := AsInt(m.eval(e, env))
	if !ok {
		panic(errPatternMatch(e))
	}
	return v
}

func (m Model) eval(e Expr, env map[string]Expr) Expr {
	switch e := e.(type) {
	case *BoolConst, *IntConst, *StrConst, *Address:
		return e
	case *Symbol:
		if v, found := m.consts.Get(e.Name); found {
			return v
		}
		return e.S.Default()
	case *Var:
		if v, found := env[e.Name]; found {
			return v
		}
		panic(errUnbound(e))
	case *Not:
		return MkBool(!IsTrue(m.eval(e.X, env)))
	case *And:
		for _, x := range e.Args {
			if !IsTrue(m.eval(x, env)) {
				return False
			}
		}
		return True
	case *Or:
		for _, x := range e.Args {
			if IsTrue(m.eval(x, env)) {
				return True
			}
		}
		return False
	case *Eq:
		return MkBool(m.eval(e.L, env).Equal(m.eval(e.R, env)))
	case *Le:
		return MkBool(m.evalInt(e.L, env) <= m.evalInt(e.R, env))
	case *Lt:
		return MkBool(m.evalInt(e.L, env) < m.evalInt(e.R, env))
	case *Add:
		return MkInt(m.evalInt(e.L, env) + m.evalInt(e.R, env))
	case *Sub:
		return MkInt(m.evalInt(e.L, env) - m.evalInt(e.R, env))
	case *Ite:
		if IsTrue(m.eval(e.Cond, env)) {
			return m.eval(e.Then, env)
		}
		return m.eval(e.Else, env)
	case *InputRead:
		return m.lookupArray(e.Name, e.S, m.evalAll(e.Args, env))
	case *Select:
		return m.apply(e.Array, m.evalAll(e.Args, env), env)
	}
	panic(errPatternMatch(e))
}

// apply evaluates an array-valued expression at constant arguments.
func (m Model) apply(array Expr, args []Expr, env map[string]Expr) Expr {
	switch a := array.(type) {
	case *ArraySymbol:
		return m.lookupArray(a.Name, a.Result, args)
	case *ConstArray:
		return m.eval(a.Value, env)
	case *Lambda:
		// Lambdas are closed, so the body only sees its own parameters.
		inner := make(map[string]Expr, len(a.Params))
		for i, p := range a.Params {
			inner[p.Name] = args[i]
		}
		return m.eval(a.Body, inner)
	case *Ite:
		if IsTrue(m.eval(a.Cond, env)) {
			return m.apply(a.Then, args, env)
		}
		return m.apply(a.Else, args, env)
	}
	panic(errPatternMatch(array))
}
