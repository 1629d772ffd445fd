package job

import "context"

// Definition is a typed processor definition bound to one (queue, name)
// pair. T is the payload type (must be JSON-serializable).
type Definition[T any] struct {
	// Queue is the queue this processor consumes from.
	Queue string

	// Name is the job name identifying this processor within the queue.
	Name string

	// Handler is the function that processes the job payload.
	Handler func(ctx context.Context, payload T) error

	// Opts configures retry budget, backoff, delay, and timeout defaults
	// for jobs enqueued under this definition.
	Opts Options
}

// NewDefinition creates a typed processor definition.
func NewDefinition[T any](queue, name string, handler func(ctx context.Context, payload T) error, opts ...Option) *Definition[T] {
	def := &Definition[T]{
		Queue:   queue,
		Name:    name,
		Handler: handler,
		Opts:    DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&def.Opts)
	}
	return def
}
