package memory

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/expr"
)

// LValue is a heap location that can be read and written.
type LValue interface {
	fmt.Stringer
	lvalue()
}

type (
	// FieldLValue is field Field of the object at Ref.
	FieldLValue struct {
		Ref   expr.Expr
		Field string
		Sort  expr.Sort
	}

	// ArrayIndexLValue is element Index of the array of type Type at Ref.
	ArrayIndexLValue struct {
		Ref, Index expr.Expr
		Type       string
		Sort       expr.Sort
	}

	ArrayLengthLValue struct {
		Ref  expr.Expr
		Type string
	}

	// RefMapLValue is the value bound to Key in the map of type Type at Map.
	RefMapLValue struct {
		Map, Key expr.Expr
		Type     string
		Sort     expr.Sort
	}

	// RefSetLValue is the membership of Key in the key set of the map at Map.
	RefSetLValue struct {
		Map, Key expr.Expr
		Type     string
	}
)

func (FieldLValue) lvalue()       {}
func (ArrayIndexLValue) lvalue()  {}
func (ArrayLengthLValue) lvalue() {}
func (RefMapLValue) lvalue()      {}
func (RefSetLValue) lvalue()      {}

func (l FieldLValue) String() string       { return fmt.Sprintf("%v.%s", l.Ref, l.Field) }
func (l ArrayIndexLValue) String() string  { return fmt.Sprintf("%v[%v]", l.Ref, l.Index) }
func (l ArrayLengthLValue) String() string { return fmt.Sprintf("len(%v)", l.Ref) }
func (l RefMapLValue) String() string      { return fmt.Sprintf("%v[%v]", l.Map, l.Key) }
func (l RefSetLValue) String() string      { return fmt.Sprintf("%v ∈ keys(%v)", l.Key, l.Map) }
