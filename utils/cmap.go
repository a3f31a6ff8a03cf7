package utils

import "github.com/puzpuzpuz/xsync/v3"

// CMap is a typed concurrent map. Registries that may be read from a
// metrics scrape goroutine while the engine mutates on another use it.
type CMap[K comparable, V any] struct {
	m *xsync.MapOf[K, V]
}

func NewCMap[K comparable, V any]() *CMap[K, V] {
	return &CMap[K, V]{m: xsync.NewMapOf[K, V]()}
}

func (m *CMap[K, V]) Load(key K) (value V, ok bool) {
	return m.m.Load(key)
}

func (m *CMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

func (m *CMap[K, V]) Delete(key K) {
	m.m.Delete(key)
}

func (m *CMap[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return m.m.LoadAndDelete(key)
}

func (m *CMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return m.m.LoadOrStore(key, value)
}

func (m *CMap[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(f)
}

func (m *CMap[K, V]) Size() int {
	return m.m.Size()
}
