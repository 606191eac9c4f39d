package expr

import "fmt"

// Sort classifies expressions.
type Sort uint8

const (
	BoolSort Sort = iota
	IntSort
	// AddrSort is the sort of heap addresses. Allocated objects have positive
	// addresses, 0 is null, and the model places input objects at addresses
	// less than or equal to 0.
	AddrSort
	StringSort
	// ArraySort is shared by all array-valued expressions. Their domain and
	// range are available through Domain and Range.
	ArraySort
)

func (s Sort) String() string {
	switch s {
	case BoolSort:
		return "Bool"
	case IntSort:
		return "Int"
	case AddrSort:
		return "Addr"
	case StringSort:
		return "String"
	case ArraySort:
		return "Array"
	}
	return fmt.Sprintf("Sort(%d)", uint8(s))
}

// Default is the canonical value of locations that were never written.
func (s Sort) Default() Expr {
	switch s {
	case BoolSort:
		return False
	case IntSort:
		return zero
	case AddrSort:
		return Null
	case StringSort:
		return emptyString
	}
	panic(errPatternMatch(s))
}

// ParseSort is the inverse of String for non-array sorts.
func ParseSort(str string) (Sort, bool) {
	for _, s := range []Sort{BoolSort, IntSort, AddrSort, StringSort} {
		if s.String() == str {
			return s, true
		}
	}
	return 0, false
}
