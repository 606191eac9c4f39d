// Package timeout bounds lazy sequences by wall-clock time.
package timeout

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTimeout is reported once the cumulative time spent draining a Bounded
// sequence exceeds its budget.
var ErrTimeout = errors.New("time budget exceeded")

// Bounded wraps a pull-based sequence. The clock starts at the first call to
// Next; every later call checks the elapsed time before pulling.
type Bounded[T any] struct {
	next   func() (T, bool)
	budget time.Duration
	now    func() time.Time

	start   time.Time
	started bool
	err     error
}

// New bounds next by budget. A non-positive budget never times out.
func New[T any](next func() (T, bool), budget time.Duration) *Bounded[T] {
	return &Bounded[T]{next: next, budget: budget, now: time.Now}
}

// WithClock replaces the time source.
func (b *Bounded[T]) WithClock(now func() time.Time) *Bounded[T] {
	b.now = now
	return b
}

// Next returns the next element. It returns false when the underlying
// sequence is exhausted or the budget ran out, in which case Err is set.
func (b *Bounded[T]) Next() (res T, ok bool) {
	if b.err != nil {
		return
	}

	if !b.started {
		b.start, b.started = b.now(), true
	} else if elapsed := b.now().Sub(b.start); b.budget > 0 && elapsed > b.budget {
		b.err = errors.Wrapf(ErrTimeout, "after %s", elapsed)
		return
	}

	return b.next()
}

// Err reports why iteration stopped early, or nil.
func (b *Bounded[T]) Err() error {
	return b.err
}

// Elapsed is the time since the first call to Next.
func (b *Bounded[T]) Elapsed() time.Duration {
	if !b.started {
		return 0
	}
	return b.now().Sub(b.start)
}

// FromSlice adapts a slice into a pull-based sequence.
func FromSlice[T any](xs []T) func() (T, bool) {
	i := 0
	return func() (res T, ok bool) {
		if i >= len(xs) {
			return
		}
		i++
		return xs[i-1], true
	}
}
