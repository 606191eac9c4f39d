package scenario

import (
	"strconv"
	"strings"

	"github.com/cs-au-dk/symheap/analysis/expr"

	"github.com/pkg/errors"
)

var errTerm = errors.New("malformed term")

// env resolves names in terms. Allocated objects are bound per path; symbols
// are shared by all paths.
type env struct {
	locals  map[string]expr.Expr
	symbols map[string]expr.Sort
}

func (e env) clone() env {
	locals := make(map[string]expr.Expr, len(e.locals))
	for k, v := range e.locals {
		locals[k] = v
	}
	return env{locals, e.symbols}
}

// term parses the small expression language of scenarios:
//
//	c ? a : b   a == b   a != b   a + b   !a   true   false   null   #3   42   name
//
// There are no parentheses. The operator found first in the list above is
// the outermost one.
func (e env) term(str string) (expr.Expr, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, errors.Wrap(errTerm, "empty term")
	}

	if q := strings.Index(str, " ? "); q >= 0 {
		c := strings.LastIndex(str, " : ")
		if c < q {
			return nil, errors.Wrapf(errTerm, "%q: missing else branch", str)
		}
		xs, err := e.terms(str[:q], str[q+3:c], str[c+3:])
		if err != nil {
			return nil, err
		}
		return expr.MkIte(xs[0], xs[1], xs[2]), nil
	}

	for _, op := range []struct {
		sym string
		mk  func(a, b expr.Expr) expr.Expr
	}{
		{" == ", expr.MkEq},
		{" != ", expr.MkNe},
		{" + ", expr.MkAdd},
		{" - ", expr.MkSub},
	} {
		if l, r, found := strings.Cut(str, op.sym); found {
			xs, err := e.terms(l, r)
			if err != nil {
				return nil, err
			}
			return op.mk(xs[0], xs[1]), nil
		}
	}

	if rest, found := strings.CutPrefix(str, "!"); found {
		x, err := e.term(rest)
		if err != nil {
			return nil, err
		}
		return expr.MkNot(x), nil
	}

	return e.atom(str)
}

func (e env) terms(strs ...string) ([]expr.Expr, error) {
	xs := make([]expr.Expr, len(strs))
	for i, s := range strs {
		x, err := e.term(s)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

func (e env) atom(str string) (expr.Expr, error) {
	switch str {
	case "true":
		return expr.True, nil
	case "false":
		return expr.False, nil
	case "null":
		return expr.Null, nil
	}

	if rest, found := strings.CutPrefix(str, "#"); found {
		a, err := strconv.Atoi(rest)
		if err != nil {
			return nil, errors.Wrapf(errTerm, "%q: bad address", str)
		}
		return expr.MkAddr(a), nil
	}

	if v, err := strconv.ParseInt(str, 10, 64); err == nil {
		return expr.MkInt(v), nil
	}

	if v, found := e.locals[str]; found {
		return v, nil
	}
	if s, found := e.symbols[str]; found {
		return expr.MkSymbol(str, s), nil
	}
	return nil, errors.Wrapf(errTerm, "unbound name %q", str)
}

func parseSort(str string) (expr.Sort, error) {
	s, ok := expr.ParseSort(str)
	if !ok {
		return 0, errors.Errorf("unknown sort %q", str)
	}
	return s, nil
}
