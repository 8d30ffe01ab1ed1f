package threadsafe

import "sync"

type Map[K comparable, V any] struct {
	inner map[K]V
	mux   *sync.Mutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		inner: make(map[K]V),
		mux:   &sync.Mutex{},
	}
}

func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.inner[key]; ok {
		return false
	}
	m.inner[key] = value
	return true
}

// Upsert stores value unless the key is taken and canReplace rejects the
// current occupant. The whole decision runs under the map lock.
func (m *Map[K, V]) Upsert(key K, value V, canReplace func(old V) bool) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if old, ok := m.inner[key]; ok && !canReplace(old) {
		return false
	}
	m.inner[key] = value
	return true
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	value, ok := m.inner[key]
	return value, ok
}

func (m *Map[K, V]) Delete(key K) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.inner[key]; !ok {
		return false
	}
	delete(m.inner, key)
	return true
}

func (m *Map[K, V]) Len() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return len(m.inner)
}
