package expr

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/symheap/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Const  func(...interface{}) string
	Symbol func(...interface{}) string
	Var    func(...interface{}) string
	Op     func(...interface{}) string
	Array  func(...interface{}) string
}{
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Symbol: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Var: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Op: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgMagenta).SprintFunc())(is...)
	},
	Array: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
}

var (
	errInternal     = errors.New("internal error")
	errSortMismatch = func(a, b Expr) error {
		return fmt.Errorf("sort mismatch: %v : %s and %v : %s", a, a.Sort(), b, b.Sort())
	}
	errUnbound = func(v *Var) error {
		return fmt.Errorf("unbound variable %s", v.Name)
	}
	errPatternMatch = func(v interface{}) error {
		return fmt.Errorf("invalid pattern match: %v %T", v, v)
	}
)
