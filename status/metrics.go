package status

import (
	"maps"
	"slices"
	"sync"
)

// Metrics holds named values of one kind
// Owners look a key up once at construction and write through the pointer afterwards
type Metrics[T any] struct {
	mu     sync.RWMutex
	byKey  map[string]*T
	render func(*T) string
}

func newMetrics[T any](render func(*T) string) *Metrics[T] {
	return &Metrics[T]{byKey: make(map[string]*T), render: render}
}

// Get returns the value for key, allocating it on first use
func (m *Metrics[T]) Get(key string) *T {
	m.mu.RLock()
	v, ok := m.byKey[key]
	m.mu.RUnlock()
	if ok {
		return v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.byKey[key]; ok {
		return v
	}
	v = new(T)
	m.byKey[key] = v
	return v
}

// Has reports whether key was ever requested
func (m *Metrics[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byKey[key]
	return ok
}

// Len returns the number of keys
func (m *Metrics[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey)
}

// appendLines appends "key=value" for every key in sorted order
func (m *Metrics[T]) appendLines(out []string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(m.byKey)) {
		out = append(out, k+"="+m.render(m.byKey[k]))
	}
	return out
}
