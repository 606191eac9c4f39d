package explore

import (
	"errors"

	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/pq"
	"github.com/cs-au-dk/symheap/utils/weighted"
	"github.com/cs-au-dk/symheap/utils/worklist"
)

var errUnknownSelector = errors.New("unknown selector")

// Selector decides which pending state is explored next.
type Selector interface {
	Add(s *State)
	// Next removes and returns a pending state. It returns false when no
	// state is pending.
	Next() (*State, bool)
	Len() int
}

// BFS explores states in the order they were added.
type BFS struct {
	queue worklist.Worklist[*State]
}

func NewBFS() *BFS {
	return &BFS{worklist.Empty[*State]()}
}

func (b *BFS) Add(s *State) { b.queue.Add(s) }
func (b *BFS) Len() int     { return b.queue.Len() }

func (b *BFS) Next() (*State, bool) {
	if b.queue.IsEmpty() {
		return nil, false
	}
	return b.queue.GetNext(), true
}

// Priority explores the least pending state first.
type Priority struct {
	queue *pq.PriorityQueue[*State]
}

// NewPriority orders states by less. A nil less prefers shallow states.
func NewPriority(less func(a, b *State) bool) *Priority {
	if less == nil {
		less = func(a, b *State) bool { return a.Depth < b.Depth }
	}
	return &Priority{pq.Empty[*State](less)}
}

func (p *Priority) Add(s *State) { p.queue.Add(s) }
func (p *Priority) Len() int     { return p.queue.Len() }

func (p *Priority) Next() (*State, bool) {
	if p.queue.IsEmpty() {
		return nil, false
	}
	return p.queue.GetNext(), true
}

// Weighted samples pending states with probability proportional to their
// weight.
type Weighted struct {
	pdf    *weighted.DiscretePDF[*State]
	weight func(*State) float64
}

// NewWeighted samples with the given seed. A nil weight favours shallow
// states.
func NewWeighted(seed int64, weight func(*State) float64) *Weighted {
	if weight == nil {
		weight = func(s *State) float64 { return 1 / float64(1+s.Depth) }
	}
	return &Weighted{weighted.NewDiscretePDF[*State](seed), weight}
}

func (w *Weighted) Add(s *State) { w.pdf.Add(s, w.weight(s)) }
func (w *Weighted) Len() int     { return w.pdf.Len() }

func (w *Weighted) Next() (*State, bool) {
	if w.pdf.IsEmpty() {
		return nil, false
	}
	s := w.pdf.Sample()
	w.pdf.Remove(s)
	return s, true
}

// SelectorFromOptions creates the selector chosen on the command line.
func SelectorFromOptions() Selector {
	switch sel := utils.Opts().Selector(); {
	case sel.BFS():
		return NewBFS()
	case sel.Priority():
		return NewPriority(nil)
	case sel.Weighted():
		return NewWeighted(utils.Opts().Seed(), nil)
	}
	panic(errUnknownSelector)
}
