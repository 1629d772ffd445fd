// Package hook defines lifecycle hooks for the queue engine.
// Hooks are notified of job lifecycle events (enqueued, completed,
// failed, etc.) and can react to them, recording metrics, writing audit
// logs, and so on.
//
// Each lifecycle event is a separate interface so hooks opt in only to
// the events they care about. The [Registry] fans out each event to all
// registered hooks that implement the corresponding interface.
package hook

import (
	"context"
	"time"

	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// JobEnqueued is called after a job is successfully enqueued.
type JobEnqueued interface {
	OnJobEnqueued(ctx context.Context, j *job.Job) error
}

// JobStarted is called when a worker begins executing a job.
type JobStarted interface {
	OnJobStarted(ctx context.Context, j *job.Job) error
}

// JobCompleted is called after a job finishes successfully.
type JobCompleted interface {
	OnJobCompleted(ctx context.Context, j *job.Job, elapsed time.Duration) error
}

// JobFailed is called when a job fails terminally (no more retries).
type JobFailed interface {
	OnJobFailed(ctx context.Context, j *job.Job, err error) error
}

// JobRetrying is called when a job fails but is scheduled for retry.
type JobRetrying interface {
	OnJobRetrying(ctx context.Context, j *job.Job, attempt int, nextRunAt time.Time) error
}

// JobDLQ is called when a job is moved to the dead letter queue.
type JobDLQ interface {
	OnJobDLQ(ctx context.Context, j *job.Job, err error) error
}

// DLQReplayed is called after a bulk replay drains entries from the
// dead letter queue back onto their original queues.
type DLQReplayed interface {
	OnDLQReplayed(ctx context.Context, retried int) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
