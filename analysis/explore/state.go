// Package explore schedules the symbolic states of an execution. States fork
// at branches and share their heap with their parent, since every heap
// structure is persistent.
package explore

import (
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/memory"
	"github.com/cs-au-dk/symheap/utils/logging"
	"github.com/cs-au-dk/symheap/utils/metrics"
	"github.com/cs-au-dk/symheap/utils/uf"

	"github.com/benbjohnson/immutable"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = logging.For("explore")

// State is one path of the execution.
type State struct {
	ID     uuid.UUID
	Parent uuid.UUID
	Depth  int
	Memory memory.Memory

	path    *immutable.List[expr.Expr]
	aliases *uf.Sets[string]
}

// NewState creates a root state over mem.
func NewState(mem memory.Memory) *State {
	return &State{
		ID:      uuid.New(),
		Memory:  mem,
		path:    immutable.NewList[expr.Expr](),
		aliases: uf.New[string](),
	}
}

// Constraints returns the path constraints in the order they were assumed.
func (s *State) Constraints() []expr.Expr {
	res := make([]expr.Expr, 0, s.path.Len())
	for itr := s.path.Iterator(); !itr.Done(); {
		_, c := itr.Next()
		res = append(res, c)
	}
	return res
}

// PathCondition is the conjunction of the path constraints.
func (s *State) PathCondition() expr.Expr {
	return expr.MkAnd(s.Constraints()...)
}

// Feasible is false once a constraint is trivially false.
func (s *State) Feasible() bool {
	return !expr.IsFalse(s.PathCondition())
}

// Assume adds a path constraint.
func (s *State) Assume(cond expr.Expr) {
	if !expr.IsTrue(cond) {
		s.path = s.path.Append(cond)
	}
}

func (s *State) child(cond expr.Expr) *State {
	c := &State{
		ID:      uuid.New(),
		Parent:  s.ID,
		Depth:   s.Depth + 1,
		Memory:  s.Memory,
		path:    s.path,
		aliases: s.aliases.Clone(),
	}
	c.Assume(cond)
	return c
}

// Fork splits the state on cond. The first child assumes cond, the second
// its negation. A side that is trivially infeasible is nil.
func (s *State) Fork(cond expr.Expr) (*State, *State) {
	var then, els *State
	if !expr.IsFalse(cond) {
		then = s.child(cond)
	}
	if !expr.IsTrue(cond) {
		els = s.child(expr.MkNot(cond))
	}

	if then != nil && els != nil {
		metrics.Forks.Inc()
		if logger.Enabled(zerolog.DebugLevel) {
			logger.Debug("fork", map[string]any{
				"state": s.ID.String(),
				"depth": s.Depth,
				"cond":  cond.String(),
			})
		}
	}
	return then, els
}

// AssumeAlias assumes that two symbolic references are equal. The event
// reports which class representative survived. It is false if the
// references were already known to alias.
func (s *State) AssumeAlias(a, b *expr.Symbol) (uf.Event[string], bool) {
	ev, merged := s.aliases.Union(a.Name, b.Name)
	if merged {
		s.Assume(expr.MkEq(a, b))
	}
	return ev, merged
}

// Canonical replaces a symbolic reference by the representative of its
// alias class.
func (s *State) Canonical(ref expr.Expr) expr.Expr {
	sym, ok := ref.(*expr.Symbol)
	if !ok || !s.aliases.Contains(sym.Name) {
		return ref
	}
	if rep := s.aliases.Find(sym.Name); rep != sym.Name {
		return expr.MkSymbol(rep, sym.S)
	}
	return ref
}

// Aliases returns the alias classes with more than one member.
func (s *State) Aliases() [][]string {
	res := [][]string{}
	for _, class := range s.aliases.Classes() {
		if len(class) > 1 {
			res = append(res, class)
		}
	}
	return res
}
