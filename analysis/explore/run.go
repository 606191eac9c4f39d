package explore

import (
	"time"

	"github.com/cs-au-dk/symheap/utils/timeout"
)

// Step executes a state up to its next branch and returns the successors.
// A state without successors has terminated.
type Step func(*State) []*State

// Stats summarizes an exploration.
type Stats struct {
	Explored   int
	Terminated int
	Pending    int
	Elapsed    time.Duration
}

// Explorer drives states through a Step.
type Explorer struct {
	Selector Selector
	// Budget bounds the wall-clock time of Run. Zero means unbounded.
	Budget time.Duration
	// Clock replaces time.Now when set.
	Clock func() time.Time
}

// Run explores every state reachable from initial, or as many as the budget
// allows. Running out of time is reported with timeout.ErrTimeout.
func (e Explorer) Run(initial *State, step Step) (Stats, error) {
	e.Selector.Add(initial)

	states := timeout.New(e.Selector.Next, e.Budget)
	if e.Clock != nil {
		states.WithClock(e.Clock)
	}

	stats := Stats{}
	for s, ok := states.Next(); ok; s, ok = states.Next() {
		stats.Explored++
		succs := step(s)
		if len(succs) == 0 {
			stats.Terminated++
		}
		for _, succ := range succs {
			if succ != nil && succ.Feasible() {
				e.Selector.Add(succ)
			}
		}
	}

	stats.Pending = e.Selector.Len()
	stats.Elapsed = states.Elapsed()
	logger.Info("exploration finished", map[string]any{
		"explored":   stats.Explored,
		"terminated": stats.Terminated,
		"pending":    stats.Pending,
	})
	return stats, states.Err()
}

// Run explores from initial with the given selector and budget.
func Run(initial *State, step Step, sel Selector, budget time.Duration) (Stats, error) {
	return Explorer{Selector: sel, Budget: budget}.Run(initial, step)
}
