package collection

import (
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
)

// Adapter supplies the values of a ranged update at destination keys.
type Adapter[K any] interface {
	String() string
	// ReadAt is the value provided at k.
	ReadAt(k K) expr.Expr
	// Present is the condition under which a value is provided at k.
	Present(k K) expr.Expr
	// Total reports whether a value is provided at every key.
	Total() bool
	translateAt(t *Translator, k K) (present, value expr.Expr)
}

// MergeAdapter reads destination keys of type DK from a source collection
// keyed by SK. KeySet, when set, restricts the update to the source keys
// it contains. Restrict, when set, adds a condition on the destination key,
// typically that the destination key belongs to the merged map.
type MergeAdapter[DK, SK any, SR region.Region[SR]] struct {
	Source   Collection[SK, SR]
	KeySet   *Collection[SK, SR]
	Convert  func(DK) SK
	Restrict func(DK) expr.Expr
}

func (a *MergeAdapter[DK, SK, SR]) ReadAt(k DK) expr.Expr {
	return a.Source.Read(a.Convert(k))
}

func (a *MergeAdapter[DK, SK, SR]) Present(k DK) expr.Expr {
	conds := []expr.Expr{}
	if a.Restrict != nil {
		conds = append(conds, a.Restrict(k))
	}
	if a.KeySet != nil {
		conds = append(conds, a.KeySet.Read(a.Convert(k)))
	}
	return expr.MkAnd(conds...)
}

func (a *MergeAdapter[DK, SK, SR]) Total() bool {
	return a.KeySet == nil && a.Restrict == nil
}

func (a *MergeAdapter[DK, SK, SR]) translateAt(t *Translator, k DK) (expr.Expr, expr.Expr) {
	sk := a.Convert(k)
	value := expr.MkSelect(Translate(t, a.Source), a.Source.Keys.Args(sk)...)

	conds := []expr.Expr{}
	if a.Restrict != nil {
		conds = append(conds, a.Restrict(k))
	}
	if a.KeySet != nil {
		conds = append(conds, expr.MkSelect(Translate(t, *a.KeySet), a.KeySet.Keys.Args(sk)...))
	}
	return expr.MkAnd(conds...), value
}

func (a *MergeAdapter[DK, SK, SR]) String() string {
	s := "merge " + a.Source.ID.Name()
	if a.KeySet != nil {
		s += " on " + a.KeySet.ID.Name()
	}
	return s
}
