package tree

import (
	"math/rand"
	"testing"

	"github.com/benbjohnson/immutable"
)

var intHasher = immutable.NewHasher(int(0))

// badHasher sends every key to the same leaf.
type badHasher struct{}

func (badHasher) Hash(int) uint32     { return 0 }
func (badHasher) Equal(a, b int) bool { return a == b }

// memHasher assigns random hashes from a small range.
type memHasher struct {
	mem   map[int]uint32
	limit int
}

func (m memHasher) Hash(x int) uint32 {
	if v, ok := m.mem[x]; ok {
		return v
	}
	h := uint32(rand.Intn(m.limit))
	m.mem[x] = h
	return h
}
func (m memHasher) Equal(a, b int) bool { return a == b }

func hashers(n int) []immutable.Hasher[int] {
	return []immutable.Hasher[int]{intHasher, badHasher{}, memHasher{make(map[int]uint32), n}}
}

func expectHit(t *testing.T, tree Tree[int, string], key int, expected string) {
	t.Helper()
	if v, found := tree.Lookup(key); !found || v != expected {
		t.Errorf("Lookup(%d) = %q, %v, expected %q", key, v, found, expected)
	}
}

func expectMiss(t *testing.T, tree Tree[int, string], key int) {
	t.Helper()
	if _, found := tree.Lookup(key); found {
		t.Error("Expected miss for", key)
	}
}

func strEq(a, b string) bool { return a == b }

func TestSameKey(t *testing.T) {
	for _, hasher := range hashers(3) {
		tree0 := NewTree[int, string](hasher)
		tree1 := tree0.Insert(0, "v1")
		tree2 := tree1.Insert(0, "v2")

		expectMiss(t, tree0, 0)
		expectHit(t, tree1, 0, "v1")
		expectHit(t, tree2, 0, "v2")

		if tree1.Equal(tree2, strEq) {
			t.Error(tree1, "should not equal", tree2)
		}
	}
}

func TestHistory(t *testing.T) {
	const N = 100
	for _, hasher := range hashers(N / 5) {
		tree := NewTree[int, string](hasher)
		history := []Tree[int, string]{tree}
		for i := 0; i < N; i++ {
			tree = tree.Insert(i, "v")
			history = append(history, tree)
		}

		for vidx, tree := range history {
			if sz := tree.Size(); sz != vidx {
				t.Errorf("Size() = %d, expected %d", sz, vidx)
			}
			for i := 0; i < N; i++ {
				if vidx <= i {
					expectMiss(t, tree, i)
				} else {
					expectHit(t, tree, i, "v")
				}
			}
		}
	}
}

func TestInsertOrMerge(t *testing.T) {
	keepFirst := func(_, prev string) (string, bool) { return prev, true }

	for _, hasher := range hashers(2) {
		tree := NewTree[int, string](hasher).Insert(1, "a")
		merged := tree.InsertOrMerge(1, "b", keepFirst)
		expectHit(t, merged, 1, "a")
		if merged.root != tree.root {
			t.Error("Expected an unchanged tree to keep its root")
		}

		merged = merged.InsertOrMerge(2, "c", keepFirst)
		expectHit(t, merged, 2, "c")
	}
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	for _, hasher := range hashers(10) {
		a, b := NewTree[int, string](hasher), NewTree[int, string](hasher)
		perm := rand.Perm(50)
		for i := 0; i < 50; i++ {
			a = a.Insert(i, "x")
			b = b.Insert(perm[i], "x")
		}

		if !a.Equal(b, strEq) {
			t.Errorf("Expected %v to equal %v", a, b)
		}
		if a.Insert(7, "y").Equal(b, strEq) {
			t.Error("Expected trees with different values to differ")
		}
	}
}

func TestString(t *testing.T) {
	tree := NewTree[int, string](intHasher).Insert(2, "b").Insert(1, "a")
	if s, expected := tree.String(), "{\n  1 ↦ a\n  2 ↦ b\n}"; s != expected {
		t.Errorf("String() = %q, expected %q", s, expected)
	}
}
