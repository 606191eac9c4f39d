package worklist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProcessOrder(t *testing.T) {
	visited := []int{}
	Start(1, func(n int, add func(int)) {
		visited = append(visited, n)
		if n < 4 {
			add(2 * n)
			add(2*n + 1)
		}
	})

	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7}, visited); diff != "" {
		t.Errorf("Unexpected visiting order (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	w := Empty[int]()
	for i := 0; i < 4; i++ {
		w.Add(i)
	}

	if !w.Remove(func(x int) bool { return x == 2 }) {
		t.Fatal("Expected to remove 2")
	}
	if w.Remove(func(x int) bool { return x == 9 }) {
		t.Error("Removed a missing element")
	}

	got := []int{}
	for !w.IsEmpty() {
		got = append(got, w.GetNext())
	}
	if diff := cmp.Diff([]int{0, 1, 3}, got); diff != "" {
		t.Errorf("Unexpected contents (-want +got):\n%s", diff)
	}
}
