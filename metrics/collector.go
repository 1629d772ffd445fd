package metrics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/hook"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/middleware"
	"github.com/kocayazbey/AyazTrade-sub002/store"
)

// Compile-time interface checks.
var (
	_ hook.Hook         = (*Collector)(nil)
	_ hook.JobStarted   = (*Collector)(nil)
	_ hook.JobCompleted = (*Collector)(nil)
	_ hook.JobFailed    = (*Collector)(nil)
	_ hook.JobRetrying  = (*Collector)(nil)
	_ hook.JobDLQ       = (*Collector)(nil)
)

// Collector feeds the Prometheus instruments. It records event-driven
// counters via lifecycle hooks and runs a background loop that samples
// per-queue job counts from the store, updating the state gauges and
// per-queue health verdicts.
type Collector struct {
	store    store.Store
	queues   []string
	registry *Registry
	logger   *slog.Logger
	interval time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu     sync.RWMutex
	health map[string]Health
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CollectorOption {
	return func(c *Collector) { c.logger = l }
}

// WithInterval overrides the sampling interval.
func WithInterval(d time.Duration) CollectorOption {
	return func(c *Collector) { c.interval = d }
}

// NewCollector creates a collector that samples the given queues.
func NewCollector(s store.Store, registry *Registry, queues []string, opts ...CollectorOption) *Collector {
	c := &Collector{
		store:    s,
		queues:   queues,
		registry: registry,
		logger:   slog.Default(),
		interval: 30 * time.Second,
		stopCh:   make(chan struct{}),
		health:   make(map[string]Health, len(queues)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start launches the background sampling loop. One sample is taken
// immediately so health data is available before the first tick.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.Collect(ctx)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the sampling loop and waits for it to exit.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// Collect samples every configured queue once. A failure on one queue
// is logged and does not block the others.
func (c *Collector) Collect(ctx context.Context) {
	for _, queue := range c.queues {
		counts, err := c.store.CountJobsByState(ctx, queue)
		if err != nil {
			c.logger.Warn("queue sample failed",
				slog.String("queue", queue),
				slog.String("error", err.Error()),
			)
			continue
		}

		for state, n := range counts {
			c.registry.QueueJobs.WithLabelValues(queue, string(state)).Set(float64(n))
		}

		h := Evaluate(queue, counts)
		c.mu.Lock()
		c.health[queue] = h
		c.mu.Unlock()

		if h.Verdict != VerdictHealthy {
			c.logger.Warn("queue health degraded",
				slog.String("queue", queue),
				slog.String("verdict", string(h.Verdict)),
				slog.Float64("failure_rate", h.FailureRate),
				slog.Int64("waiting", counts[job.StateWaiting]),
			)
		}
	}
}

// HealthSnapshot returns the latest health verdict for every sampled
// queue.
func (c *Collector) HealthSnapshot() map[string]Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Health, len(c.health))
	for q, h := range c.health {
		out[q] = h
	}
	return out
}

// QueueHealth returns the latest verdict for one queue. The second
// return is false until the queue has been sampled at least once.
func (c *Collector) QueueHealth(queue string) (Health, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.health[queue]
	return h, ok
}

// Name implements hook.Hook.
func (c *Collector) Name() string { return "metrics-collector" }

// OnJobStarted records how long the job sat in the queue before a
// worker picked it up.
func (c *Collector) OnJobStarted(_ context.Context, j *job.Job) error {
	wait := time.Since(j.EnqueuedAt)
	if wait < 0 {
		wait = 0
	}
	c.registry.JobWait.WithLabelValues(j.Queue).Observe(wait.Seconds())
	return nil
}

// OnJobCompleted records execution duration and the completion counter.
func (c *Collector) OnJobCompleted(_ context.Context, j *job.Job, elapsed time.Duration) error {
	c.registry.JobDuration.WithLabelValues(j.Queue, j.Name).Observe(elapsed.Seconds())
	c.registry.JobCompletions.WithLabelValues(j.Queue, j.Name).Inc()
	return nil
}

// OnJobFailed records a terminal failure classified by kind.
func (c *Collector) OnJobFailed(_ context.Context, j *job.Job, err error) error {
	c.registry.JobFailures.WithLabelValues(j.Queue, j.Name, classify(err)).Inc()
	return nil
}

// OnJobRetrying records a scheduled retry.
func (c *Collector) OnJobRetrying(_ context.Context, j *job.Job, _ int, _ time.Time) error {
	c.registry.JobRetries.WithLabelValues(j.Queue, j.Name).Inc()
	return nil
}

// OnJobDLQ records a job moved to the dead letter queue.
func (c *Collector) OnJobDLQ(_ context.Context, _ *job.Job, _ error) error {
	c.registry.DLQEntries.Inc()
	return nil
}

// classify maps a terminal error to a failure-kind label.
func classify(err error) string {
	var pe *middleware.PanicError
	switch {
	case err == nil:
		return "handler_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, taskq.ErrNoHandler):
		return "no_handler"
	case errors.As(err, &pe):
		return "panic"
	default:
		return "handler_error"
	}
}
