package tasks

import (
	"context"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/dlq"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the dlq queue.
const (
	JobDeadLetter = dlq.JobName
	JobRetryDLQ   = "retryDlq"
)

// ReplayPayload is the payload for retryDlq jobs.
type ReplayPayload struct {
	Limit int `json:"limit"`
}

// defaultReplayLimit bounds a retryDlq run with no explicit limit.
const defaultReplayLimit = 50

// Replayer drains the dead letter queue. Implemented by the engine.
type Replayer interface {
	RetryFromDLQ(ctx context.Context, limit int) (int, error)
}

// DeadLetter returns the deadLetter processor definition. Dead letters
// are never consumed automatically: workers do not poll the dlq queue,
// and entries sit in waiting until an explicit replay. The registration
// exists so every (queue, jobName) pair in the catalog has exactly one
// processor; the handler is a no-op.
func DeadLetter() *job.Definition[dlq.Entry] {
	return job.NewDefinition(taskq.QueueDLQ, JobDeadLetter,
		func(_ context.Context, _ dlq.Entry) error {
			return nil
		},
		job.WithAttempts(1),
	)
}

// RetryDLQ returns the retryDlq processor definition, which runs a bulk
// replay with a limit from its payload. Like deadLetter it is driven
// explicitly rather than by the worker pool.
func RetryDLQ(r Replayer) *job.Definition[ReplayPayload] {
	return job.NewDefinition(taskq.QueueDLQ, JobRetryDLQ,
		func(ctx context.Context, p ReplayPayload) error {
			limit := p.Limit
			if limit <= 0 {
				limit = defaultReplayLimit
			}
			_, err := r.RetryFromDLQ(ctx, limit)
			return err
		})
}
