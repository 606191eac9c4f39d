package collection

import "github.com/cs-au-dk/symheap/analysis/expr"

type alias struct {
	addr int
	cond expr.Expr
}

// refSplit is a reference split into allocated aliases and a symbolic
// remainder, each with the condition selecting it.
type refSplit struct {
	aliases []alias
	sym     expr.Expr
	symCond expr.Expr
}

func (s *refSplit) addAlias(addr int, cond expr.Expr) {
	for i, a := range s.aliases {
		if a.addr == addr {
			s.aliases[i].cond = expr.MkOr(a.cond, cond)
			return
		}
	}
	s.aliases = append(s.aliases, alias{addr, cond})
}

func splitRef(ref expr.Expr) refSplit {
	if PartitionOf(ref) == Allocated {
		a, _ := expr.AsAddress(ref)
		return refSplit{aliases: []alias{{a, expr.True}}}
	}

	ite, ok := ref.(*expr.Ite)
	if !ok {
		return refSplit{sym: ref, symCond: expr.True}
	}

	c, nc := ite.Cond, expr.MkNot(ite.Cond)
	t, e := splitRef(ite.Then), splitRef(ite.Else)
	res := refSplit{}
	for _, a := range t.aliases {
		res.addAlias(a.addr, expr.MkAnd(c, a.cond))
	}
	for _, a := range e.aliases {
		res.addAlias(a.addr, expr.MkAnd(nc, a.cond))
	}

	switch {
	case t.sym != nil && e.sym != nil:
		res.sym, res.symCond = expr.MkIte(c, t.sym, e.sym), expr.MkIte(c, t.symCond, e.symCond)
	case t.sym != nil:
		res.sym, res.symCond = t.sym, expr.MkAnd(c, t.symCond)
	case e.sym != nil:
		res.sym, res.symCond = e.sym, expr.MkAnd(nc, e.symCond)
	}
	return res
}

// FoldRef splits an address-sorted expression built from conditionals into
// the allocated addresses it may denote and its input remainder. onConcrete
// is called once per distinct address in order of first occurrence, then
// onSymbolic at most once. Both receive guard conjoined with the condition
// selecting their part; parts selected under a false condition are skipped.
func FoldRef(ref, guard expr.Expr, onConcrete func(addr int, cond expr.Expr), onSymbolic func(ref, cond expr.Expr)) {
	if ref.Sort() != expr.AddrSort {
		panic(errSortMismatch)
	}

	s := splitRef(ref)
	for _, a := range s.aliases {
		if cond := expr.MkAnd(guard, a.cond); !expr.IsFalse(cond) {
			onConcrete(a.addr, cond)
		}
	}
	if s.sym != nil {
		if cond := expr.MkAnd(guard, s.symCond); !expr.IsFalse(cond) {
			onSymbolic(s.sym, cond)
		}
	}
}

// ReadRef combines the values read through every part of ref. The parts are
// selected by mutually exclusive conditions, so the last part needs none.
func ReadRef(ref expr.Expr, sort expr.Sort, onConcrete func(addr int) expr.Expr, onSymbolic func(ref expr.Expr) expr.Expr) expr.Expr {
	type part struct{ cond, value expr.Expr }
	parts := []part{}
	FoldRef(ref, expr.True,
		func(addr int, cond expr.Expr) { parts = append(parts, part{cond, onConcrete(addr)}) },
		func(sym, cond expr.Expr) { parts = append(parts, part{cond, onSymbolic(sym)}) })

	if len(parts) == 0 {
		return sort.Default()
	}

	res := parts[len(parts)-1].value
	for idx := len(parts) - 2; idx >= 0; idx-- {
		res = expr.MkIte(parts[idx].cond, parts[idx].value, res)
	}
	return res
}
