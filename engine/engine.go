package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/dlq"
	"github.com/kocayazbey/AyazTrade-sub002/hook"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/metrics"
	"github.com/kocayazbey/AyazTrade-sub002/middleware"
	"github.com/kocayazbey/AyazTrade-sub002/queue"
	"github.com/kocayazbey/AyazTrade-sub002/store"
	"github.com/kocayazbey/AyazTrade-sub002/worker"
)

// tracerName is the instrumentation scope name used when a custom
// TracerProvider is supplied.
const tracerName = "github.com/kocayazbey/AyazTrade-sub002"

// Engine replays dead letters onto their original queues.
var _ dlq.Enqueuer = (*Engine)(nil)

// Engine is the assembled job processing system: queue registry,
// processor registry, lifecycle hooks, middleware chain, DLQ service,
// metrics collector, and worker pool, all wired to a Dispatcher.
type Engine struct {
	dispatcher *taskq.Dispatcher
	logger     *slog.Logger

	store    store.Store
	queues   *queue.Registry
	registry *job.Registry
	hooks    *hook.Registry

	dlqService *dlq.Service
	promReg    *prometheus.Registry
	metricsReg *metrics.Registry
	collector  *metrics.Collector

	queueManager *queue.Manager
	pool         *worker.Pool

	// Build-time options, consumed by Build.
	extraHooks     []hook.Hook
	userMiddleware []middleware.Middleware
	queueConfigs   []queue.Config
	tracerProvider trace.TracerProvider
}

// Option configures the engine during Build.
type Option func(*Engine)

// WithHook registers a lifecycle hook in addition to the built-in
// metrics collector.
func WithHook(h hook.Hook) Option {
	return func(e *Engine) { e.extraHooks = append(e.extraHooks, h) }
}

// WithMiddleware appends middleware after the default chain
// (recover, tracing, logging, timeout). Appended middleware runs
// closest to the processor.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) { e.userMiddleware = append(e.userMiddleware, mws...) }
}

// WithQueueConfig sets per-queue rate limits and concurrency caps.
func WithQueueConfig(configs ...queue.Config) Option {
	return func(e *Engine) { e.queueConfigs = append(e.queueConfigs, configs...) }
}

// WithTracerProvider sets a custom TracerProvider for the tracing
// middleware. Without it the global otel provider is used, which is a
// noop unless the application configured one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracerProvider = tp }
}

// WithPrometheusRegistry sets the Prometheus registry the engine's
// instruments are registered on. Without it a fresh registry is
// created, exposed via Gatherer.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(e *Engine) { e.promReg = reg }
}

// Build wires all subsystems around the Dispatcher. The Dispatcher's
// store must implement the full store.Store interface.
func Build(d *taskq.Dispatcher, opts ...Option) (*Engine, error) {
	s, ok := d.Store().(store.Store)
	if !ok {
		return nil, taskq.ErrNoStore
	}

	cfg := d.Config()
	e := &Engine{
		dispatcher: d,
		logger:     d.Logger(),
		store:      s,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.queues = queue.NewRegistry(s, cfg.Queues...)
	e.registry = job.NewRegistry()
	e.hooks = hook.NewRegistry(e.logger)

	e.dlqService = dlq.NewService(s, dlq.WithLogger(e.logger))
	e.dlqService.SetEnqueuer(e)

	if e.promReg == nil {
		e.promReg = prometheus.NewRegistry()
	}
	e.metricsReg = metrics.NewRegistry(e.promReg)
	e.collector = metrics.NewCollector(s, e.metricsReg, cfg.Queues,
		metrics.WithLogger(e.logger),
		metrics.WithInterval(cfg.CollectInterval),
	)

	e.hooks.Register(e.collector)
	for _, h := range e.extraHooks {
		e.hooks.Register(h)
	}

	tracing := middleware.Tracing()
	if e.tracerProvider != nil {
		tracing = middleware.TracingWithTracer(e.tracerProvider.Tracer(tracerName))
	}
	mws := []middleware.Middleware{
		middleware.Recover(e.logger),
		tracing,
		middleware.Logging(e.logger),
		middleware.Timeout(e.logger),
	}
	mws = append(mws, e.userMiddleware...)

	executor := worker.NewExecutor(e.registry, e.hooks, s, e.dlqService, e.logger, mws...)

	// Workers never poll the dlq queue: dead letters sit there until an
	// explicit replay, they are not executed in place.
	workQueues := make([]string, 0, len(cfg.Queues))
	for _, q := range cfg.Queues {
		if q != taskq.QueueDLQ {
			workQueues = append(workQueues, q)
		}
	}

	poolOpts := []worker.PoolOption{
		worker.WithPoolQueues(workQueues),
		worker.WithPoolConcurrency(cfg.Concurrency),
		worker.WithPollInterval(cfg.PollInterval),
	}
	if len(e.queueConfigs) > 0 {
		e.queueManager = queue.NewManager(e.queueConfigs...)
		poolOpts = append(poolOpts, worker.WithQueueManager(e.queueManager))
	}
	e.pool = worker.NewPool(s, executor, e.hooks, e.logger, poolOpts...)

	d.SetPool(e.pool)
	d.SetCollector(e.collector)
	d.SetHooks(e.hooks)

	return e, nil
}

// Register registers a typed processor definition. The definition's
// queue must be one of the configured queues.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func Register[T any](e *Engine, def *job.Definition[T]) error {
	if !e.queues.Has(def.Queue) {
		return fmt.Errorf("engine: register %q on queue %q: %w", def.Name, def.Queue, taskq.ErrUnknownQueue)
	}
	job.RegisterDefinition(e.registry, def)
	return nil
}

// Enqueue marshals the typed payload and enqueues a job for it.
// Options override the defaults recorded at registration.
func Enqueue[T any](ctx context.Context, e *Engine, queueName, name string, payload T, opts ...job.Option) (*job.Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("engine: marshal payload for job %q: %w", name, err)
	}
	return e.enqueue(ctx, queueName, name, data, opts...)
}

// EnqueueRaw enqueues a pre-marshaled payload using the processor's
// registered defaults. This is the path the DLQ replay uses.
func (e *Engine) EnqueueRaw(ctx context.Context, queueName, name string, payload []byte) (*job.Job, error) {
	return e.enqueue(ctx, queueName, name, payload)
}

func (e *Engine) enqueue(ctx context.Context, queueName, name string, payload []byte, opts ...job.Option) (*job.Job, error) {
	s, err := e.queues.Store(queueName)
	if err != nil {
		return nil, fmt.Errorf("engine: enqueue %q on queue %q: %w", name, queueName, err)
	}

	o := e.registry.Defaults(queueName, name)
	for _, opt := range opts {
		opt(&o)
	}

	now := time.Now().UTC()
	j := &job.Job{
		ID:          id.NewJobID(),
		Queue:       queueName,
		Name:        name,
		Payload:     payload,
		State:       job.StateWaiting,
		MaxAttempts: o.Attempts,
		Backoff:     o.Backoff,
		Timeout:     o.Timeout,
		RunAt:       now,
		EnqueuedAt:  now,
	}
	if o.Delay > 0 {
		j.State = job.StateDelayed
		j.RunAt = now.Add(o.Delay)
	}

	if err := s.EnqueueJob(ctx, j); err != nil {
		return nil, err
	}

	if _, ok := e.registry.Get(queueName, name); !ok && queueName != taskq.QueueDLQ {
		e.logger.Warn("job enqueued with no registered processor",
			slog.String("queue", queueName),
			slog.String("job", name),
		)
	}

	e.hooks.EmitJobEnqueued(ctx, j)
	return j, nil
}

// GetJob fetches a job by queue and ID.
func (e *Engine) GetJob(ctx context.Context, queueName string, jobID id.JobID) (*job.Job, error) {
	s, err := e.queues.Store(queueName)
	if err != nil {
		return nil, err
	}
	return s.GetJob(ctx, queueName, jobID)
}

// RemoveJob deletes a job from its queue. Removing a job that does not
// exist is a no-op.
func (e *Engine) RemoveJob(ctx context.Context, queueName string, jobID id.JobID) error {
	s, err := e.queues.Store(queueName)
	if err != nil {
		return err
	}
	return s.RemoveJob(ctx, queueName, jobID)
}

// MoveToDLQ manually moves a job to the dead letter queue, removing it
// from its original queue.
func (e *Engine) MoveToDLQ(ctx context.Context, queueName string, jobID id.JobID, reason string) (*job.Job, error) {
	s, err := e.queues.Store(queueName)
	if err != nil {
		return nil, err
	}
	j, err := s.GetJob(ctx, queueName, jobID)
	if err != nil {
		return nil, err
	}

	moveErr := errors.New(reason)
	dead, err := e.dlqService.Push(ctx, j, moveErr)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveJob(ctx, queueName, jobID); err != nil {
		e.logger.Warn("job moved to DLQ but not removed from origin queue",
			slog.String("job_id", jobID.String()),
			slog.String("queue", queueName),
			slog.String("error", err.Error()),
		)
	}

	e.hooks.EmitJobDLQ(ctx, j, moveErr)
	return dead, nil
}

// ListDLQ returns up to limit dead letter jobs in arrival order.
func (e *Engine) ListDLQ(ctx context.Context, limit int) ([]*job.Job, error) {
	return e.dlqService.List(ctx, limit)
}

// RetryFromDLQ replays up to limit dead letters onto their original
// queues and returns how many were re-enqueued.
func (e *Engine) RetryFromDLQ(ctx context.Context, limit int) (int, error) {
	retried, err := e.dlqService.RetryBatch(ctx, limit)
	if err != nil {
		return retried, err
	}
	if retried > 0 {
		e.hooks.EmitDLQReplayed(ctx, retried)
	}
	return retried, nil
}

// Health returns the latest per-queue health verdicts. Queues appear
// only after the collector has sampled them at least once.
func (e *Engine) Health() map[string]metrics.Health {
	return e.collector.HealthSnapshot()
}

// QueueHealth returns the latest verdict for one queue.
func (e *Engine) QueueHealth(queueName string) (metrics.Health, bool) {
	return e.collector.QueueHealth(queueName)
}

// QueueCounts returns the current per-state job counts for a queue.
func (e *Engine) QueueCounts(ctx context.Context, queueName string) (map[job.State]int64, error) {
	s, err := e.queues.Store(queueName)
	if err != nil {
		return nil, err
	}
	return s.CountJobsByState(ctx, queueName)
}

// Queues returns the configured queue names in registration order.
func (e *Engine) Queues() []string { return e.queues.Names() }

// JobNames returns the processor names registered for a queue.
func (e *Engine) JobNames(queueName string) []string { return e.registry.Names(queueName) }

// Hooks returns the lifecycle hook registry.
func (e *Engine) Hooks() *hook.Registry { return e.hooks }

// Collector returns the metrics collector.
func (e *Engine) Collector() *metrics.Collector { return e.collector }

// Gatherer returns the Prometheus gatherer holding the engine's
// instruments, for mounting on a /metrics endpoint.
func (e *Engine) Gatherer() prometheus.Gatherer { return e.promReg }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Start begins job processing via the Dispatcher.
func (e *Engine) Start(ctx context.Context) error { return e.dispatcher.Start(ctx) }

// Stop gracefully shuts the engine down via the Dispatcher.
func (e *Engine) Stop(ctx context.Context) error { return e.dispatcher.Stop(ctx) }
