package utils

import (
	"hash/fnv"
	"reflect"

	"github.com/benbjohnson/immutable"
)

type (
	// Hashable is implemented by all hashable types.
	Hashable interface {
		Hash() uint32
	}
	// HashableEq is implemented by all hashable types that can be compared for equality.
	HashableEq[T any] interface {
		Hashable
		Equal(T) bool
	}

	// hashableHasher is a hasher for hashable and equality comparable entities.
	hashableHasher[T HashableEq[T]] struct{}
)

// Equal checks that two hashable entities a and b are equal.
func (hashableHasher[T]) Equal(a, b T) bool { return a.Equal(b) }

// Hash computes the uint32 hash of hashable entity a.
func (hashableHasher[T]) Hash(a T) uint32 { return a.Hash() }

// HashableHasher is a generic hasher factory of hashable and equality comparable entities.
func HashableHasher[T HashableEq[T]]() immutable.Hasher[T] { return hashableHasher[T]{} }

// PointerHasher is a generic hasher for pointer-like values.
// Two values are equal only if they are the same object.
type PointerHasher[T any] struct{}

// Hash computes the uint32 hash of hashable pointer v.
func (PointerHasher[T]) Hash(v T) uint32 {
	// Use reflection to get a uintptr value
	p := reflect.ValueOf(v).Pointer()
	return uint32(p ^ (p >> 32))
}

// Equal checks equality between two hashable pointers.
func (PointerHasher[T]) Equal(a, b T) bool {
	return any(a) == any(b)
}

var _ immutable.Hasher[any] = PointerHasher[any]{}

// IdentityPair is a pair of pointer-like values compared by identity.
type IdentityPair struct {
	First, Second any
}

// IdentityPairHasher hashes pairs of pointer-like values by identity.
type IdentityPairHasher struct{}

func (IdentityPairHasher) Hash(p IdentityPair) uint32 {
	return HashCombine(
		PointerHasher[any]{}.Hash(p.First),
		PointerHasher[any]{}.Hash(p.Second),
	)
}

func (IdentityPairHasher) Equal(a, b IdentityPair) bool {
	return a.First == b.First && a.Second == b.Second
}

var _ immutable.Hasher[IdentityPair] = IdentityPairHasher{}

// HashCombine uses the C++ boost algorithm for combining multiple hash values.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}

// HashString computes the FNV-1a hash of a string.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
