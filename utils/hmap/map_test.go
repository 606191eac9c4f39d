package hmap

import (
	"testing"

	"github.com/cs-au-dk/symheap/utils"
)

// collidingHasher sends every key to the same bucket.
type collidingHasher struct{}

func (collidingHasher) Hash(int) uint32     { return 7 }
func (collidingHasher) Equal(a, b int) bool { return a == b }

func TestCollisions(t *testing.T) {
	m := NewMap[string, int](collidingHasher{})
	m.Set(1, "a")
	m.Set(2, "b")
	m.Set(1, "c")

	if m.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", m.Len())
	}
	if v := m.Get(1); v != "c" {
		t.Errorf("Get(1) = %q, expected \"c\"", v)
	}
	if v, ok := m.GetOk(2); !ok || v != "b" {
		t.Errorf("GetOk(2) = %q, %v", v, ok)
	}
	if _, ok := m.GetOk(3); ok {
		t.Error("Expected miss for 3")
	}
}

func TestIdentityPairs(t *testing.T) {
	a, b := new(int), new(int)
	m := NewMap[int, utils.IdentityPair](utils.IdentityPairHasher{})
	m.Set(utils.IdentityPair{First: a, Second: b}, 1)
	m.Set(utils.IdentityPair{First: b, Second: a}, 2)

	if v := m.Get(utils.IdentityPair{First: a, Second: b}); v != 1 {
		t.Errorf("Get(a, b) = %d, expected 1", v)
	}
	if v := m.Get(utils.IdentityPair{First: b, Second: a}); v != 2 {
		t.Errorf("Get(b, a) = %d, expected 2", v)
	}
}
