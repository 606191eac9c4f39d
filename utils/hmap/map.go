package hmap

import "github.com/benbjohnson/immutable"

// A simple mutable hash map for keys that Go maps cannot index directly, such
// as keys compared by a custom hasher. Hash collisions are resolved by
// chaining.

type node[K, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

type Map[K, V any] struct {
	hasher immutable.Hasher[K]
	mp     map[uint32]*node[K, V]
	size   int
}

// Order of V and K are swapped since K can be inferred by the argument.
func NewMap[V, K any](hasher immutable.Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		hasher: hasher,
		mp:     make(map[uint32]*node[K, V]),
	}
}

func (m *Map[K, V]) Set(key K, value V) {
	h := m.hasher.Hash(key)
	snode, found := m.mp[h]
	if !found {
		m.mp[h] = &node[K, V]{key, value, nil}
		m.size++
		return
	}

	for {
		if m.hasher.Equal(key, snode.key) {
			snode.value = value
			return
		}

		if snode.next == nil {
			snode.next = &node[K, V]{key, value, nil}
			m.size++
			return
		}
		snode = snode.next
	}
}

func (m *Map[K, V]) GetOk(key K) (res V, ok bool) {
	for node := m.mp[m.hasher.Hash(key)]; node != nil; node = node.next {
		if m.hasher.Equal(key, node.key) {
			return node.value, true
		}
	}

	return
}

func (m *Map[K, V]) Get(key K) V {
	v, _ := m.GetOk(key)
	return v
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int {
	return m.size
}
