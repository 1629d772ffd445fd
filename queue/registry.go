package queue

import (
	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/store"
)

// Registry maps queue names to their backing store handle. It is built
// once at startup from a static table and read-only afterwards, so it is
// safe for concurrent use without locking.
type Registry struct {
	names  []string
	stores map[string]store.Store
}

// NewRegistry builds a registry binding every queue name to the given
// store handle. Registration order is preserved by Names.
func NewRegistry(s store.Store, names ...string) *Registry {
	r := &Registry{
		names:  make([]string, 0, len(names)),
		stores: make(map[string]store.Store, len(names)),
	}
	for _, name := range names {
		if _, dup := r.stores[name]; dup {
			continue
		}
		r.names = append(r.names, name)
		r.stores[name] = s
	}
	return r
}

// Store returns the store handle for a queue name, or
// taskq.ErrUnknownQueue when the name is not registered.
func (r *Registry) Store(name string) (store.Store, error) {
	s, ok := r.stores[name]
	if !ok {
		return nil, taskq.ErrUnknownQueue
	}
	return s, nil
}

// Has reports whether the queue name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.stores[name]
	return ok
}

// Names returns all registered queue names in registration order.
// The returned slice must not be modified.
func (r *Registry) Names() []string {
	return r.names
}
