package taskq

import (
	"context"
	"log/slog"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// Storer is the minimal store interface held by the Dispatcher.
// It covers lifecycle operations only. The full store.Store interface is
// used in subsystem layers that don't create import cycles.
type Storer interface {
	Ping(ctx context.Context) error
	Close() error
}

// poolRunner is an internal interface for worker pool lifecycle.
type poolRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// collectorRunner is an internal interface for the metrics collector
// lifecycle.
type collectorRunner interface {
	Start(ctx context.Context)
	Stop()
}

// hookEmitter is an internal interface for lifecycle shutdown events.
type hookEmitter interface {
	EmitShutdown(ctx context.Context)
}

// Dispatcher is the central coordinator for job processing. Create one
// with New() and functional options, then wire the subsystems with the
// engine package. The Dispatcher holds references to subsystem components
// via internal interfaces to avoid import cycles.
type Dispatcher struct {
	config    Config
	logger    *slog.Logger
	store     Storer
	pool      poolRunner
	collector collectorRunner
	hooks     hookEmitter

	started bool
}

// New creates a new Dispatcher with the given options.
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Logger returns the dispatcher's logger.
func (d *Dispatcher) Logger() *slog.Logger { return d.logger }

// Store returns the dispatcher's store.
func (d *Dispatcher) Store() Storer { return d.store }

// Config returns a copy of the dispatcher's configuration.
func (d *Dispatcher) Config() Config { return d.config }

// SetPool sets the worker pool (called by the engine package).
func (d *Dispatcher) SetPool(p poolRunner) { d.pool = p }

// SetCollector sets the metrics collector (called by the engine package).
func (d *Dispatcher) SetCollector(c collectorRunner) { d.collector = c }

// SetHooks sets the hook emitter (called by the engine package).
func (d *Dispatcher) SetHooks(h hookEmitter) { d.hooks = h }

// Start begins job processing and metrics collection.
func (d *Dispatcher) Start(ctx context.Context) error {
	if d.store == nil {
		return ErrNoStore
	}
	if d.pool != nil {
		if err := d.pool.Start(ctx); err != nil {
			return err
		}
	}
	if d.collector != nil {
		d.collector.Start(ctx)
	}
	d.started = true
	return nil
}

// Stop gracefully shuts down the dispatcher: collector first, then the
// worker pool, then lifecycle hooks, then the store.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.collector != nil {
		d.collector.Stop()
	}
	if d.pool != nil && d.started {
		if err := d.pool.Stop(ctx); err != nil {
			d.logger.Error("pool stop error", slog.String("error", err.Error()))
		}
	}
	if d.hooks != nil {
		d.hooks.EmitShutdown(ctx)
	}
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// WithQueues sets the queues the dispatcher will poll.
func WithQueues(queues []string) Option {
	return func(d *Dispatcher) error {
		d.config.Queues = queues
		return nil
	}
}

// WithConcurrency sets the number of concurrent worker goroutines.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) error {
		d.config.Concurrency = n
		return nil
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) error {
		d.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the dispatcher.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) error {
		d.logger = l
		return nil
	}
}

// WithStore sets the queue store backend for the dispatcher.
// Typically a store.Store implementation; the Dispatcher itself only
// needs the lifecycle subset.
func WithStore(s Storer) Option {
	return func(d *Dispatcher) error {
		d.store = s
		return nil
	}
}
