// Package collection implements symbolic collections: persistent maps from
// keys to solver expressions whose content is recorded as a log of guarded
// updates over a region tree.
package collection

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/region"
	"github.com/cs-au-dk/symheap/analysis/regiontree"
	"github.com/cs-au-dk/symheap/utils/logging"
	"github.com/cs-au-dk/symheap/utils/metrics"

	"github.com/rs/zerolog"
)

var (
	errInternal     = errors.New("internal error")
	errSortMismatch = errors.New("sort mismatch")
)

var logger = logging.For("collection")

// Collection is a persistent symbolic map. Every mutation returns a new
// collection sharing the unchanged part of the update log.
type Collection[K any, R region.Region[R]] struct {
	ID      CollectionID
	Keys    KeyInfo[K, R]
	updates regiontree.RegionTree[UpdateNode[K], R]
}

func New[K any, R region.Region[R]](id CollectionID, keys KeyInfo[K, R]) Collection[K, R] {
	return Collection[K, R]{ID: id, Keys: keys}
}

// Updates returns the update log.
func (c Collection[K, R]) Updates() regiontree.RegionTree[UpdateNode[K], R] {
	return c.updates
}

// IsEmpty reports whether the collection was never written.
func (c Collection[K, R]) IsEmpty() bool {
	return c.updates.IsEmpty()
}

func (c Collection[K, R]) partitionLabel() string {
	switch c.ID.Kind {
	case RefMap, RefSet:
		return c.ID.Ref.String() + c.ID.Key.String()
	}
	return c.ID.Ref.String()
}

// Write stores value at k when guard holds. Older updates that the write
// shadows for every model are dropped from the log.
func (c Collection[K, R]) Write(k K, value, guard expr.Expr) Collection[K, R] {
	if value.Sort() != c.ID.Sort {
		panic(fmt.Errorf("%w: writing %v into %v", errSortMismatch, value, c.ID))
	}
	if expr.IsFalse(guard) {
		return c
	}

	metrics.CollectionWrites.WithLabelValues(c.partitionLabel()).Inc()
	if logger.Enabled(zerolog.TraceLevel) {
		logger.Trace("write", map[string]any{
			"collection": c.ID.Name(),
			"key":        fmt.Sprint(k),
			"value":      value.String(),
			"guard":      guard.String(),
		})
	}

	var filter func(UpdateNode[K]) bool
	switch {
	case !expr.IsTrue(guard):
	case c.Keys.Exact(k):
		filter = func(UpdateNode[K]) bool { return true }
	default:
		filter = func(u UpdateNode[K]) bool {
			p, ok := u.(*PinpointUpdate[K])
			return ok && c.Keys.Same(p.Key, k)
		}
	}

	node := &PinpointUpdate[K]{Key: k, Value: value, guard: guard}
	c.updates = c.updates.Write(c.Keys.Region(k), UpdateNode[K](node), filter)
	return c
}

// Merge installs a ranged update over reg that reads through adapter when
// guard holds.
func (c Collection[K, R]) Merge(adapter Adapter[K], reg R, guard expr.Expr) Collection[K, R] {
	if expr.IsFalse(guard) || reg.IsEmpty() {
		return c
	}

	if logger.Enabled(zerolog.TraceLevel) {
		logger.Trace("merge", map[string]any{
			"collection": c.ID.Name(),
			"region":     reg.String(),
			"source":     adapter.String(),
		})
	}

	var filter func(UpdateNode[K]) bool
	if expr.IsTrue(guard) && adapter.Total() {
		filter = func(UpdateNode[K]) bool { return true }
	}

	node := &RangedUpdate[K]{Adapter: adapter, guard: guard}
	c.updates = c.updates.Write(reg, UpdateNode[K](node), filter)
	return c
}

// base is the content of k before any update.
func (c Collection[K, R]) base(k K) expr.Expr {
	if c.ID.IsInput() {
		return expr.MkInputRead(c.ID.Name(), c.ID.Sort, c.Keys.Args(k)...)
	}
	return c.ID.Sort.Default()
}

// applies is the condition under which an update piece over r determines
// the value at k, together with that value.
func (c Collection[K, R]) applies(u UpdateNode[K], r R, k K, keyRegion R) (expr.Expr, expr.Expr) {
	conds := []expr.Expr{u.Guard()}
	if r.Compare(keyRegion) != region.Includes {
		conds = append(conds, c.Keys.InRegion(k, r))
	}

	switch u := u.(type) {
	case *PinpointUpdate[K]:
		return expr.MkAnd(append(conds, c.Keys.Eq(u.Key, k))...), u.Value
	case *RangedUpdate[K]:
		return expr.MkAnd(append(conds, u.Adapter.Present(k))...), u.Adapter.ReadAt(k)
	}
	panic(fmt.Errorf("%w: unknown update %T", errInternal, u))
}

// Read returns the value at k. Updates are folded in log order, so for every
// model the newest update that applies to k determines the result.
func (c Collection[K, R]) Read(k K) expr.Expr {
	keyRegion := c.Keys.Region(k)
	res := c.base(k)
	c.updates.Localize(keyRegion).ForEach(func(u UpdateNode[K], r R) {
		cond, value := c.applies(u, r, k, keyRegion)
		res = expr.MkIte(cond, value, res)
	})
	return res
}

func (c Collection[K, R]) String() string {
	return c.ID.String() + " " + c.updates.String()
}
