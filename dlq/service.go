package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/store"
)

// Enqueuer re-enqueues replayed jobs onto their original queues. It is
// implemented by the engine, which applies processor defaults and fires
// lifecycle hooks.
type Enqueuer interface {
	EnqueueRaw(ctx context.Context, queue, name string, payload []byte) (*job.Job, error)
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service provides dead letter queue operations over the job store.
type Service struct {
	store    store.Store
	enqueuer Enqueuer
	logger   *slog.Logger
}

// NewService creates a DLQ service. The enqueuer is used only by
// RetryBatch and may be set later via SetEnqueuer.
func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{store: s, logger: slog.Default()}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// SetEnqueuer wires the replay path. Called once during engine
// construction; the service and the engine reference each other.
func (s *Service) SetEnqueuer(e Enqueuer) { s.enqueuer = e }

// Push wraps a terminally failed job in an Entry envelope and enqueues
// it as a deadLetter job on the dlq queue. Dead letter jobs get a
// single attempt so a broken deadLetter processor cannot loop.
func (s *Service) Push(ctx context.Context, j *job.Job, jobErr error) (*job.Job, error) {
	reason := ""
	if jobErr != nil {
		reason = jobErr.Error()
	}
	entry := Entry{
		OriginalQueue: j.Queue,
		JobName:       j.Name,
		Data:          j.Payload,
		AttemptsMade:  j.AttemptsMade,
		FailedReason:  reason,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("dlq: marshal entry: %w", err)
	}

	now := time.Now().UTC()
	dead := &job.Job{
		ID:          id.NewJobID(),
		Queue:       taskq.QueueDLQ,
		Name:        JobName,
		Payload:     payload,
		State:       job.StateWaiting,
		MaxAttempts: 1,
		RunAt:       now,
		EnqueuedAt:  now,
	}
	if err := s.store.EnqueueJob(ctx, dead); err != nil {
		return nil, fmt.Errorf("dlq: push: %w", err)
	}

	s.logger.Warn("job moved to dead letter queue",
		slog.String("job_id", j.ID.String()),
		slog.String("queue", j.Queue),
		slog.String("job", j.Name),
		slog.Int("attempts_made", j.AttemptsMade),
		slog.String("reason", reason),
	)
	return dead, nil
}

// List returns up to limit waiting dead letter jobs in arrival order.
func (s *Service) List(ctx context.Context, limit int) ([]*job.Job, error) {
	return s.store.ListJobsByState(ctx, taskq.QueueDLQ, job.StateWaiting, limit)
}

// RetryBatch drains up to limit entries from the dead letter queue in
// arrival order and re-enqueues each original job onto its original
// queue. Entries that cannot be replayed are skipped and left in the
// DLQ. Returns the number of jobs successfully re-enqueued.
//
// Replay is at-least-once: a crash between re-enqueue and removal can
// leave the entry behind to be replayed again. Processors whose side
// effects are not idempotent must dedupe on their own keys.
func (s *Service) RetryBatch(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	entries, err := s.store.ListJobsByState(ctx, taskq.QueueDLQ, job.StateWaiting, limit)
	if err != nil {
		return 0, fmt.Errorf("dlq: list entries: %w", err)
	}

	retried := 0
	for _, dead := range entries {
		var entry Entry
		if err := json.Unmarshal(dead.Payload, &entry); err != nil {
			s.logger.Warn("skipping dead letter with corrupt envelope",
				slog.String("job_id", dead.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		if _, err := s.enqueuer.EnqueueRaw(ctx, entry.OriginalQueue, entry.JobName, entry.Data); err != nil {
			s.logger.Warn("skipping dead letter that failed to re-enqueue",
				slog.String("job_id", dead.ID.String()),
				slog.String("original_queue", entry.OriginalQueue),
				slog.String("job", entry.JobName),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := s.store.RemoveJob(ctx, taskq.QueueDLQ, dead.ID); err != nil {
			s.logger.Warn("replayed dead letter could not be removed",
				slog.String("job_id", dead.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		retried++
	}

	s.logger.Info("dead letter replay finished",
		slog.Int("requested", limit),
		slog.Int("retried", retried),
	)
	return retried, nil
}
