package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// HandlerFunc is a type-erased processor that accepts a raw JSON payload.
// A typed Definition[T] is converted to a HandlerFunc at registration
// time by closing over JSON unmarshal + the typed handler.
type HandlerFunc func(ctx context.Context, payload []byte) error

// key identifies one processor slot: exactly one handler per
// (queue, jobName) pair.
type key struct {
	queue string
	name  string
}

// Registry maps (queue, jobName) pairs to type-erased handler functions
// and records per-definition option defaults. It is safe for concurrent
// use; in practice it is populated once at startup and read-only after.
type Registry struct {
	mu       sync.RWMutex
	handlers map[key]HandlerFunc
	defaults map[key]Options
}

// NewRegistry creates an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[key]HandlerFunc),
		defaults: make(map[key]Options),
	}
}

// RegisterDefinition registers a typed processor definition. The generic
// handler is wrapped in a closure that JSON-unmarshals the payload into T
// before calling the typed handler. Registering a second handler for the
// same (queue, name) pair replaces the first.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func RegisterDefinition[T any](r *Registry, def *Definition[T]) {
	handler := func(ctx context.Context, payload []byte) error {
		var t T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &t); err != nil {
				return fmt.Errorf("unmarshal payload for job %q: %w", def.Name, err)
			}
		}
		return def.Handler(ctx, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{queue: def.Queue, name: def.Name}
	r.handlers[k] = handler
	r.defaults[k] = def.Opts
}

// Get returns the handler for the given (queue, jobName) pair.
// Returns false if no processor is registered.
func (r *Registry) Get(queue, name string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key{queue: queue, name: name}]
	return h, ok
}

// Defaults returns the option defaults registered for the pair, falling
// back to DefaultOptions when the pair is unknown.
func (r *Registry) Defaults(queue, name string) Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o, ok := r.defaults[key{queue: queue, name: name}]; ok {
		return o
	}
	return DefaultOptions()
}

// Names returns the job names registered for a queue, sorted.
func (r *Registry) Names(queue string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for k := range r.handlers {
		if k.queue == queue {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}
