package collection

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/expr"
)

// UpdateNode is an entry of a collection's update log.
type UpdateNode[K any] interface {
	fmt.Stringer
	// Guard is the path condition under which the update took place.
	Guard() expr.Expr
	update()
}

// PinpointUpdate stores Value at Key.
type PinpointUpdate[K any] struct {
	Key   K
	Value expr.Expr
	guard expr.Expr
}

func (u *PinpointUpdate[K]) Guard() expr.Expr { return u.guard }
func (*PinpointUpdate[K]) update()            {}

func (u *PinpointUpdate[K]) String() string {
	s := fmt.Sprintf("%v := %v", u.Key, u.Value)
	if !expr.IsTrue(u.guard) {
		s += " if " + u.guard.String()
	}
	return s
}

// RangedUpdate copies the content of another collection into a region
// through an adapter.
type RangedUpdate[K any] struct {
	Adapter Adapter[K]
	guard   expr.Expr
}

func (u *RangedUpdate[K]) Guard() expr.Expr { return u.guard }
func (*RangedUpdate[K]) update()            {}

func (u *RangedUpdate[K]) String() string {
	s := u.Adapter.String()
	if !expr.IsTrue(u.guard) {
		s += " if " + u.guard.String()
	}
	return s
}
