package sync

import "sync"

// TypedSyncMap is a thin generic wrapper around sync.Map. The zero
// value is ready to use and must not be copied after first use.
type TypedSyncMap[K comparable, V any] struct {
	m sync.Map
}

func (m *TypedSyncMap[K, V]) Delete(key K) { m.m.Delete(key) }

func (m *TypedSyncMap[K, V]) Store(key K, value V) { m.m.Store(key, value) }

func (m *TypedSyncMap[K, V]) Load(key K) (V, bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return *new(V), false
	}

	vv, ok := v.(V)
	return vv, ok
}

// LoadOrStore returns the existing value for the key if present, otherwise
// it stores the value given. The loaded result is true if the value was
// already present, which makes this usable as an atomic claim.
func (m *TypedSyncMap[K, V]) LoadOrStore(key K, value V) (V, bool) {
	a, loaded := m.m.LoadOrStore(key, value)
	if av, ok := a.(V); ok {
		return av, loaded
	}

	return *new(V), loaded
}

func (m *TypedSyncMap[K, V]) LoadAndDelete(key K) (V, bool) {
	v, loaded := m.m.LoadAndDelete(key)
	if !loaded {
		return *new(V), false
	}

	vv, _ := v.(V)
	return vv, true
}

// Has reports whether the key is present.
func (m *TypedSyncMap[K, V]) Has(key K) bool {
	_, ok := m.m.Load(key)
	return ok
}

// Range calls fn for each entry until fn returns false. The same
// consistency caveats as sync.Map.Range apply.
func (m *TypedSyncMap[K, V]) Range(fn func(K, V) bool) {
	m.m.Range(func(key, value any) bool {
		k, kok := key.(K)
		v, vok := value.(V)
		if !kok || !vok {
			return true
		}

		return fn(k, v)
	})
}
