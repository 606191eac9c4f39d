// Package expr defines the solver-level expressions produced by the heap
// model: quantifier-free formulas over booleans, integers, strings and
// addresses, plus array-valued terms (symbols, constant arrays and lambdas)
// that encode the content of symbolic collections.
//
// Expressions are immutable. Structural equality is available through Equal;
// pointer identity is meaningful as well, since shared sub-expressions are
// reused rather than rebuilt.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cs-au-dk/symheap/utils"
)

type Expr interface {
	fmt.Stringer

	Hash() uint32
	// Equal is structural equality.
	Equal(Expr) bool
	Sort() Sort
	// Children returns the immediate sub-expressions.
	Children() []Expr

	expr()
}

type (
	BoolConst struct {
		Value bool
	}
	IntConst struct {
		Value int64
	}
	StrConst struct {
		Value string
	}
	// Address is a concrete heap address.
	Address struct {
		Value int
	}
	// Symbol is an uninterpreted constant. Address-sorted symbols denote
	// input references.
	Symbol struct {
		Name string
		S    Sort
	}
	// Var is a variable bound by a Lambda.
	Var struct {
		Name string
		S    Sort
	}
	Not struct {
		hashed
		X Expr
	}
	And struct {
		hashed
		Args []Expr
	}
	Or struct {
		hashed
		Args []Expr
	}
	Eq struct {
		hashed
		L, R Expr
	}
	Le struct {
		hashed
		L, R Expr
	}
	Lt struct {
		hashed
		L, R Expr
	}
	Add struct {
		hashed
		L, R Expr
	}
	Sub struct {
		hashed
		L, R Expr
	}
	Ite struct {
		hashed
		Cond, Then, Else Expr
	}
	// InputRead is the initial content of an input collection at a key.
	InputRead struct {
		hashed
		Name string
		Args []Expr
		S    Sort
	}
	// ArraySymbol is an uninterpreted array.
	ArraySymbol struct {
		hashed
		Name   string
		Dom    []Sort
		Result Sort
	}
	// ConstArray maps every key to Value.
	ConstArray struct {
		hashed
		Dom   []Sort
		Value Expr
	}
	// Lambda is an array given by a closed body over its parameters.
	Lambda struct {
		hashed
		Params []*Var
		Body   Expr
	}
	Select struct {
		hashed
		Array Expr
		Args  []Expr
	}
)

func (*BoolConst) expr()   {}
func (*IntConst) expr()    {}
func (*StrConst) expr()    {}
func (*Address) expr()     {}
func (*Symbol) expr()      {}
func (*Var) expr()         {}
func (*Not) expr()         {}
func (*And) expr()         {}
func (*Or) expr()          {}
func (*Eq) expr()          {}
func (*Le) expr()          {}
func (*Lt) expr()          {}
func (*Add) expr()         {}
func (*Sub) expr()         {}
func (*Ite) expr()         {}
func (*InputRead) expr()   {}
func (*ArraySymbol) expr() {}
func (*ConstArray) expr()  {}
func (*Lambda) expr()      {}
func (*Select) expr()      {}

// hashed memoizes the structural hash of a node.
type hashed struct {
	h    uint32
	done bool
}

func (c *hashed) memo(compute func() uint32) uint32 {
	if !c.done {
		c.h, c.done = compute(), true
	}
	return c.h
}

// Operator tags mixed into hashes.
const (
	tagBool uint32 = iota + 1
	tagInt
	tagStr
	tagAddr
	tagSymbol
	tagVar
	tagNot
	tagAnd
	tagOr
	tagEq
	tagLe
	tagLt
	tagAdd
	tagSub
	tagIte
	tagInputRead
	tagArraySymbol
	tagConstArray
	tagLambda
	tagSelect
)

func hashAll(tag uint32, es ...Expr) uint32 {
	hs := make([]uint32, 0, len(es)+1)
	hs = append(hs, tag)
	for _, e := range es {
		hs = append(hs, e.Hash())
	}
	return utils.HashCombine(hs...)
}

// Leaves are hashed on demand so that equal leaves stay identical values.
func (e *BoolConst) Hash() uint32 {
	if e.Value {
		return utils.HashCombine(tagBool, 1)
	}
	return utils.HashCombine(tagBool, 0)
}
func (e *IntConst) Hash() uint32 {
	return utils.HashCombine(tagInt, uint32(e.Value), uint32(e.Value>>32))
}
func (e *StrConst) Hash() uint32 {
	return utils.HashCombine(tagStr, utils.HashString(e.Value))
}
func (e *Address) Hash() uint32 {
	return utils.HashCombine(tagAddr, uint32(e.Value))
}
func (e *Symbol) Hash() uint32 {
	return utils.HashCombine(tagSymbol, utils.HashString(e.Name), uint32(e.S))
}
func (e *Var) Hash() uint32 {
	return utils.HashCombine(tagVar, utils.HashString(e.Name), uint32(e.S))
}
func (e *Not) Hash() uint32 { return e.memo(func() uint32 { return hashAll(tagNot, e.X) }) }
func (e *And) Hash() uint32 { return e.memo(func() uint32 { return hashAll(tagAnd, e.Args...) }) }
func (e *Or) Hash() uint32  { return e.memo(func() uint32 { return hashAll(tagOr, e.Args...) }) }
func (e *Eq) Hash() uint32  { return e.memo(func() uint32 { return hashAll(tagEq, e.L, e.R) }) }
func (e *Le) Hash() uint32  { return e.memo(func() uint32 { return hashAll(tagLe, e.L, e.R) }) }
func (e *Lt) Hash() uint32  { return e.memo(func() uint32 { return hashAll(tagLt, e.L, e.R) }) }
func (e *Add) Hash() uint32 { return e.memo(func() uint32 { return hashAll(tagAdd, e.L, e.R) }) }
func (e *Sub) Hash() uint32 { return e.memo(func() uint32 { return hashAll(tagSub, e.L, e.R) }) }
func (e *Ite) Hash() uint32 {
	return e.memo(func() uint32 { return hashAll(tagIte, e.Cond, e.Then, e.Else) })
}
func (e *InputRead) Hash() uint32 {
	return e.memo(func() uint32 {
		return utils.HashCombine(hashAll(tagInputRead, e.Args...), utils.HashString(e.Name), uint32(e.S))
	})
}
func (e *ArraySymbol) Hash() uint32 {
	return e.memo(func() uint32 {
		hs := []uint32{tagArraySymbol, utils.HashString(e.Name), uint32(e.Result)}
		for _, s := range e.Dom {
			hs = append(hs, uint32(s))
		}
		return utils.HashCombine(hs...)
	})
}
func (e *ConstArray) Hash() uint32 {
	return e.memo(func() uint32 {
		hs := []uint32{tagConstArray, e.Value.Hash()}
		for _, s := range e.Dom {
			hs = append(hs, uint32(s))
		}
		return utils.HashCombine(hs...)
	})
}
func (e *Lambda) Hash() uint32 {
	return e.memo(func() uint32 {
		args := make([]Expr, 0, len(e.Params)+1)
		for _, p := range e.Params {
			args = append(args, p)
		}
		return hashAll(tagLambda, append(args, e.Body)...)
	})
}
func (e *Select) Hash() uint32 {
	return e.memo(func() uint32 { return hashAll(tagSelect, append([]Expr{e.Array}, e.Args...)...) })
}

func (e *BoolConst) Sort() Sort   { return BoolSort }
func (e *IntConst) Sort() Sort    { return IntSort }
func (e *StrConst) Sort() Sort    { return StringSort }
func (e *Address) Sort() Sort     { return AddrSort }
func (e *Symbol) Sort() Sort      { return e.S }
func (e *Var) Sort() Sort         { return e.S }
func (e *Not) Sort() Sort         { return BoolSort }
func (e *And) Sort() Sort         { return BoolSort }
func (e *Or) Sort() Sort          { return BoolSort }
func (e *Eq) Sort() Sort          { return BoolSort }
func (e *Le) Sort() Sort          { return BoolSort }
func (e *Lt) Sort() Sort          { return BoolSort }
func (e *Add) Sort() Sort         { return IntSort }
func (e *Sub) Sort() Sort         { return IntSort }
func (e *Ite) Sort() Sort         { return e.Then.Sort() }
func (e *InputRead) Sort() Sort   { return e.S }
func (e *ArraySymbol) Sort() Sort { return ArraySort }
func (e *ConstArray) Sort() Sort  { return ArraySort }
func (e *Lambda) Sort() Sort      { return ArraySort }
func (e *Select) Sort() Sort      { return Range(e.Array) }

// Domain returns the key sorts of an array-valued expression.
func Domain(e Expr) []Sort {
	switch e := e.(type) {
	case *ArraySymbol:
		return e.Dom
	case *ConstArray:
		return e.Dom
	case *Lambda:
		dom := make([]Sort, len(e.Params))
		for i, p := range e.Params {
			dom[i] = p.S
		}
		return dom
	case *Ite:
		return Domain(e.Then)
	}
	panic(errPatternMatch(e))
}

// Range returns the value sort of an array-valued expression.
func Range(e Expr) Sort {
	switch e := e.(type) {
	case *ArraySymbol:
		return e.Result
	case *ConstArray:
		return e.Value.Sort()
	case *Lambda:
		return e.Body.Sort()
	case *Ite:
		return Range(e.Then)
	}
	panic(errPatternMatch(e))
}

func (e *BoolConst) Children() []Expr   { return nil }
func (e *IntConst) Children() []Expr    { return nil }
func (e *StrConst) Children() []Expr    { return nil }
func (e *Address) Children() []Expr     { return nil }
func (e *Symbol) Children() []Expr      { return nil }
func (e *Var) Children() []Expr         { return nil }
func (e *Not) Children() []Expr         { return []Expr{e.X} }
func (e *And) Children() []Expr         { return e.Args }
func (e *Or) Children() []Expr          { return e.Args }
func (e *Eq) Children() []Expr          { return []Expr{e.L, e.R} }
func (e *Le) Children() []Expr          { return []Expr{e.L, e.R} }
func (e *Lt) Children() []Expr          { return []Expr{e.L, e.R} }
func (e *Add) Children() []Expr         { return []Expr{e.L, e.R} }
func (e *Sub) Children() []Expr         { return []Expr{e.L, e.R} }
func (e *Ite) Children() []Expr         { return []Expr{e.Cond, e.Then, e.Else} }
func (e *InputRead) Children() []Expr   { return e.Args }
func (e *ArraySymbol) Children() []Expr { return nil }
func (e *ConstArray) Children() []Expr  { return []Expr{e.Value} }
func (e *Lambda) Children() []Expr      { return []Expr{e.Body} }
func (e *Select) Children() []Expr      { return append([]Expr{e.Array}, e.Args...) }

func equalAll(as, bs []Expr) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Equal(bs[i]) {
			return false
		}
	}
	return true
}

func equalSorts(as, bs []Sort) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Identical pointers and differing hashes short-circuit.
func equal(a, b Expr) bool {
	if a == b {
		return true
	}
	if a.Hash() != b.Hash() {
		return false
	}

	switch a := a.(type) {
	case *BoolConst:
		b, ok := b.(*BoolConst)
		return ok && a.Value == b.Value
	case *IntConst:
		b, ok := b.(*IntConst)
		return ok && a.Value == b.Value
	case *StrConst:
		b, ok := b.(*StrConst)
		return ok && a.Value == b.Value
	case *Address:
		b, ok := b.(*Address)
		return ok && a.Value == b.Value
	case *Symbol:
		b, ok := b.(*Symbol)
		return ok && a.Name == b.Name && a.S == b.S
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Name == b.Name && a.S == b.S
	case *Not:
		b, ok := b.(*Not)
		return ok && a.X.Equal(b.X)
	case *And:
		b, ok := b.(*And)
		return ok && equalAll(a.Args, b.Args)
	case *Or:
		b, ok := b.(*Or)
		return ok && equalAll(a.Args, b.Args)
	case *Eq:
		b, ok := b.(*Eq)
		return ok && a.L.Equal(b.L) && a.R.Equal(b.R)
	case *Le:
		b, ok := b.(*Le)
		return ok && a.L.Equal(b.L) && a.R.Equal(b.R)
	case *Lt:
		b, ok := b.(*Lt)
		return ok && a.L.Equal(b.L) && a.R.Equal(b.R)
	case *Add:
		b, ok := b.(*Add)
		return ok && a.L.Equal(b.L) && a.R.Equal(b.R)
	case *Sub:
		b, ok := b.(*Sub)
		return ok && a.L.Equal(b.L) && a.R.Equal(b.R)
	case *Ite:
		b, ok := b.(*Ite)
		return ok && a.Cond.Equal(b.Cond) && a.Then.Equal(b.Then) && a.Else.Equal(b.Else)
	case *InputRead:
		b, ok := b.(*InputRead)
		return ok && a.Name == b.Name && a.S == b.S && equalAll(a.Args, b.Args)
	case *ArraySymbol:
		b, ok := b.(*ArraySymbol)
		return ok && a.Name == b.Name && a.Result == b.Result && equalSorts(a.Dom, b.Dom)
	case *ConstArray:
		b, ok := b.(*ConstArray)
		return ok && equalSorts(a.Dom, b.Dom) && a.Value.Equal(b.Value)
	case *Lambda:
		b, ok := b.(*Lambda)
		if !ok || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !a.Params[i].Equal(b.Params[i]) {
				return false
			}
		}
		return a.Body.Equal(b.Body)
	case *Select:
		b, ok := b.(*Select)
		return ok && a.Array.Equal(b.Array) && equalAll(a.Args, b.Args)
	}
	panic(errPatternMatch(a))
}

func (e *BoolConst) Equal(o Expr) bool   { return equal(e, o) }
func (e *IntConst) Equal(o Expr) bool    { return equal(e, o) }
func (e *StrConst) Equal(o Expr) bool    { return equal(e, o) }
func (e *Address) Equal(o Expr) bool     { return equal(e, o) }
func (e *Symbol) Equal(o Expr) bool      { return equal(e, o) }
func (e *Var) Equal(o Expr) bool         { return equal(e, o) }
func (e *Not) Equal(o Expr) bool         { return equal(e, o) }
func (e *And) Equal(o Expr) bool         { return equal(e, o) }
func (e *Or) Equal(o Expr) bool          { return equal(e, o) }
func (e *Eq) Equal(o Expr) bool          { return equal(e, o) }
func (e *Le) Equal(o Expr) bool          { return equal(e, o) }
func (e *Lt) Equal(o Expr) bool          { return equal(e, o) }
func (e *Add) Equal(o Expr) bool         { return equal(e, o) }
func (e *Sub) Equal(o Expr) bool         { return equal(e, o) }
func (e *Ite) Equal(o Expr) bool         { return equal(e, o) }
func (e *InputRead) Equal(o Expr) bool   { return equal(e, o) }
func (e *ArraySymbol) Equal(o Expr) bool { return equal(e, o) }
func (e *ConstArray) Equal(o Expr) bool  { return equal(e, o) }
func (e *Lambda) Equal(o Expr) bool      { return equal(e, o) }
func (e *Select) Equal(o Expr) bool      { return equal(e, o) }

func op(name string, args ...Expr) string {
	strs := make([]string, 0, len(args)+1)
	strs = append(strs, colorize.Op(name))
	for _, a := range args {
		strs = append(strs, a.String())
	}
	return "(" + strings.Join(strs, " ") + ")"
}

func sorts(ss []Sort) string {
	strs := make([]string, len(ss))
	for i, s := range ss {
		strs[i] = s.String()
	}
	return strings.Join(strs, " ")
}

func (e *BoolConst) String() string { return colorize.Const(strconv.FormatBool(e.Value)) }
func (e *IntConst) String() string  { return colorize.Const(strconv.FormatInt(e.Value, 10)) }
func (e *StrConst) String() string  { return colorize.Const(strconv.Quote(e.Value)) }
func (e *Address) String() string   { return colorize.Const("#" + strconv.Itoa(e.Value)) }
func (e *Symbol) String() string    { return colorize.Symbol(e.Name) }
func (e *Var) String() string       { return colorize.Var(e.Name) }
func (e *Not) String() string       { return op("not", e.X) }
func (e *And) String() string       { return op("and", e.Args...) }
func (e *Or) String() string        { return op("or", e.Args...) }
func (e *Eq) String() string        { return op("=", e.L, e.R) }
func (e *Le) String() string        { return op("<=", e.L, e.R) }
func (e *Lt) String() string        { return op("<", e.L, e.R) }
func (e *Add) String() string       { return op("+", e.L, e.R) }
func (e *Sub) String() string       { return op("-", e.L, e.R) }
func (e *Ite) String() string       { return op("ite", e.Cond, e.Then, e.Else) }
func (e *InputRead) String() string {
	strs := make([]string, len(e.Args))
	for i, a := range e.Args {
		strs[i] = a.String()
	}
	return colorize.Array(e.Name) + "[" + strings.Join(strs, ", ") + "]"
}
func (e *ArraySymbol) String() string { return colorize.Array(e.Name) }
func (e *ConstArray) String() string {
	return "(" + colorize.Op("const") + " (" + sorts(e.Dom) + ") " + e.Value.String() + ")"
}
func (e *Lambda) String() string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = "(" + p.String() + " " + p.S.String() + ")"
	}
	return "(" + colorize.Op("lambda") + " (" + strings.Join(params, " ") + ") " + e.Body.String() + ")"
}
func (e *Select) String() string { return op("select", append([]Expr{e.Array}, e.Args...)...) }
