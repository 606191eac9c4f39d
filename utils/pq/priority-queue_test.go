package pq

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func expectPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Errorf("expected panic with %v, got %v", target, r)
		}
	}()
	f()
}

func TestOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	q := Empty(func(a, b int) bool { return a < b })

	values := rnd.Perm(50)
	for _, v := range values {
		q.Add(v)
	}

	sort.Ints(values)
	for _, expected := range values {
		if got := q.GetNext(); got != expected {
			t.Fatalf("GetNext() = %d, expected %d", got, expected)
		}
	}

	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

func TestRemove(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 9, 3, 7} {
		q.Add(v)
	}

	q.Remove(3)
	q.Remove(9)
	if q.Contains(3) || q.Contains(9) {
		t.Error("removed elements are still present")
	}

	for _, expected := range []int{1, 5, 7} {
		if got := q.GetNext(); got != expected {
			t.Errorf("GetNext() = %d, expected %d", got, expected)
		}
	}
}

func TestUpdate(t *testing.T) {
	prio := map[string]int{"a": 3, "b": 2, "c": 1}
	q := Empty(func(x, y string) bool { return prio[x] < prio[y] })
	for k := range prio {
		q.Add(k)
	}

	if q.Peek() != "c" {
		t.Fatalf("Peek() = %s, expected c", q.Peek())
	}

	prio["a"] = 0
	q.Update("a")
	if q.Peek() != "a" {
		t.Errorf("Peek() = %s after update, expected a", q.Peek())
	}
}

func TestUsageErrors(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	q.Add(1)

	expectPanic(t, errDoubleInsert, func() { q.Add(1) })
	expectPanic(t, errMissing, func() { q.Remove(2) })
	expectPanic(t, errMissing, func() { q.Update(2) })

	q.GetNext()
	expectPanic(t, errEmpty, func() { q.GetNext() })
}
