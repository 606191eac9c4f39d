package timeout

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestExhaustsWithinBudget(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(FromSlice([]int{1, 2, 3}), time.Second).WithClock(clock.now)

	sum := 0
	for x, ok := b.Next(); ok; x, ok = b.Next() {
		sum += x
		clock.t = clock.t.Add(100 * time.Millisecond)
	}

	if sum != 6 {
		t.Errorf("sum = %d, expected 6", sum)
	}
	if b.Err() != nil {
		t.Errorf("unexpected error %v", b.Err())
	}
}

func TestTimesOut(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	// Infinite sequence.
	n := 0
	b := New(func() (int, bool) { n++; return n, true }, time.Second).WithClock(clock.now)

	pulled := 0
	for _, ok := b.Next(); ok; _, ok = b.Next() {
		pulled++
		clock.t = clock.t.Add(300 * time.Millisecond)
	}

	// Pulls at 0, 300, 600 and 900ms succeed, 1200ms exceeds the budget.
	if pulled != 4 {
		t.Errorf("pulled %d elements, expected 4", pulled)
	}
	if !errors.Is(b.Err(), ErrTimeout) {
		t.Errorf("Err() = %v, expected %v", b.Err(), ErrTimeout)
	}
	if _, ok := b.Next(); ok {
		t.Error("Next should keep failing after a timeout")
	}
}

func TestClockStartsOnFirstPull(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(FromSlice([]string{"a", "b"}), time.Second).WithClock(clock.now)

	// Time passing before the first pull does not count.
	clock.t = clock.t.Add(time.Hour)
	if _, ok := b.Next(); !ok {
		t.Fatal("first pull failed")
	}
	if _, ok := b.Next(); !ok {
		t.Fatalf("second pull failed: %v", b.Err())
	}
}

func TestUnlimitedBudget(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(FromSlice([]int{1, 2}), 0).WithClock(clock.now)
	b.Next()
	clock.t = clock.t.Add(24 * time.Hour)
	if _, ok := b.Next(); !ok {
		t.Errorf("unexpected stop: %v", b.Err())
	}
}
