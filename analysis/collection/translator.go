package collection

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
	"github.com/cs-au-dk/symheap/analysis/regiontree"
	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/hmap"
	"github.com/cs-au-dk/symheap/utils/metrics"
)

// Translator turns collections into solver-level arrays. Update logs are
// shared between states, so translations are cached by the identity of the
// translated log node and of the array it is applied on top of. A
// Translator serves a single solver query and is not safe for concurrent
// use.
type Translator struct {
	bases   map[string]expr.Expr
	entries *hmap.Map[utils.IdentityPair, expr.Expr]
	trees   *hmap.Map[utils.IdentityPair, expr.Expr]

	hits, misses int
}

func NewTranslator() *Translator {
	return &Translator{
		bases:   make(map[string]expr.Expr),
		entries: hmap.NewMap[expr.Expr, utils.IdentityPair](utils.IdentityPairHasher{}),
		trees:   hmap.NewMap[expr.Expr, utils.IdentityPair](utils.IdentityPairHasher{}),
	}
}

// Stats returns the number of cache hits and misses so far.
func (t *Translator) Stats() (hits, misses int) {
	return t.hits, t.misses
}

func (t *Translator) lookup(cache *hmap.Map[utils.IdentityPair, expr.Expr], key utils.IdentityPair, compute func() expr.Expr) expr.Expr {
	if res, found := cache.GetOk(key); found {
		t.hits++
		metrics.TranslatorCache.WithLabelValues("hit").Inc()
		return res
	}

	t.misses++
	metrics.TranslatorCache.WithLabelValues("miss").Inc()
	res := compute()
	cache.Set(key, res)
	return res
}

func (t *Translator) base(id CollectionID, sorts []expr.Sort) expr.Expr {
	name := id.Name()
	if b, found := t.bases[name]; found {
		return b
	}

	var b expr.Expr
	if id.IsInput() {
		b = expr.MkArraySymbol(name, sorts, id.Sort)
	} else {
		b = expr.MkConstArray(sorts, id.Sort.Default())
	}
	t.bases[name] = b
	return b
}

func keyVars(sorts []expr.Sort) ([]*expr.Var, []expr.Expr) {
	vars := make([]*expr.Var, len(sorts))
	args := make([]expr.Expr, len(sorts))
	for i, s := range sorts {
		vars[i] = expr.MkVar(fmt.Sprintf("k%d", i), s)
		args[i] = vars[i]
	}
	return vars, args
}

// Translate returns an array expression that maps every key to the value
// Read returns for it under any model.
func Translate[K any, R region.Region[R]](t *Translator, c Collection[K, R]) expr.Expr {
	sorts := c.Keys.Sorts()
	tr := &translation[K, R]{t, c}
	return tr.tree(c.updates, t.base(c.ID, sorts))
}

type translation[K any, R region.Region[R]] struct {
	*Translator
	c Collection[K, R]
}

// tree layers the entries of a log over prev, oldest entry first.
func (tr *translation[K, R]) tree(log regiontree.RegionTree[UpdateNode[K], R], prev expr.Expr) expr.Expr {
	if log.IsEmpty() {
		return prev
	}

	key := utils.IdentityPair{First: log.Identity(), Second: prev}
	return tr.lookup(tr.trees, key, func() expr.Expr {
		acc := prev
		for _, e := range log.Entries() {
			acc = tr.entry(e, acc)
		}
		return acc
	})
}

// entry translates one update node. Inside its region the update decides
// the value when it applies and defers to its children otherwise. Outside
// its region the value of prev is kept.
func (tr *translation[K, R]) entry(e *regiontree.Entry[UpdateNode[K], R], prev expr.Expr) expr.Expr {
	key := utils.IdentityPair{First: e, Second: prev}
	return tr.lookup(tr.entries, key, func() expr.Expr {
		keys := tr.c.Keys
		vars, args := keyVars(keys.Sorts())
		k := keys.FromArgs(args)

		var cond, value expr.Expr
		switch u := e.Value.(type) {
		case *PinpointUpdate[K]:
			cond, value = expr.MkAnd(u.Guard(), keys.Eq(u.Key, k)), u.Value
		case *RangedUpdate[K]:
			var present expr.Expr
			present, value = u.Adapter.translateAt(tr.Translator, k)
			cond = expr.MkAnd(u.Guard(), present)
		default:
			panic(fmt.Errorf("%w: unknown update %T", errInternal, e.Value))
		}

		inner := expr.MkSelect(tr.tree(e.Children, prev), args...)
		outer := expr.MkSelect(prev, args...)
		return expr.MkLambda(vars, expr.MkIte(
			keys.InRegion(k, e.Region),
			expr.MkIte(cond, value, inner),
			outer,
		))
	})
}
