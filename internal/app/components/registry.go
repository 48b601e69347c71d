package components

import "sync"

// Registry shares one widget instance per key between concurrent requests, so
// a second submit racing the first finds the same in-flight flag. Entries live
// only while some request holds them.
type Registry[V any] struct {
	mu      sync.Mutex
	entries map[string]*registryEntry[V]
}

type registryEntry[V any] struct {
	value V
	refs  int
}

// NewRegistry creates an empty registry
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{entries: make(map[string]*registryEntry[V])}
}

// Acquire returns the live instance for key, creating it when absent. The
// returned release must be called once the request is done with it.
func (r *Registry[V]) Acquire(key string, create func() V) (V, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &registryEntry[V]{value: create()}
		r.entries[key] = e
	}
	e.refs++

	var once sync.Once
	return e.value, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			e.refs--
			if e.refs == 0 && r.entries[key] == e {
				delete(r.entries, key)
			}
		})
	}
}

// Len is the number of live entries
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
