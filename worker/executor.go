// Package worker provides the job execution engine: an Executor that
// invokes registered processors through middleware, and a Pool that
// manages concurrent worker goroutines polling the queues.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/dlq"
	"github.com/kocayazbey/AyazTrade-sub002/hook"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/middleware"
	"github.com/kocayazbey/AyazTrade-sub002/store"
)

// Executor runs a single job through middleware and the registered
// processor, then handles retry scheduling, DLQ push, state updates,
// and lifecycle events.
type Executor struct {
	registry   *job.Registry
	hooks      *hook.Registry
	store      store.Store
	dlqService *dlq.Service
	mw         middleware.Middleware
	logger     *slog.Logger
}

// NewExecutor creates an Executor with the given dependencies.
func NewExecutor(
	registry *job.Registry,
	hooks *hook.Registry,
	s store.Store,
	dlqService *dlq.Service,
	logger *slog.Logger,
	mws ...middleware.Middleware,
) *Executor {
	return &Executor{
		registry:   registry,
		hooks:      hooks,
		store:      s,
		dlqService: dlqService,
		mw:         middleware.Chain(mws...),
		logger:     logger,
	}
}

// Execute runs a job through the middleware chain and processor.
// On success: marks completed, emits JobCompleted.
// On failure with attempts remaining: schedules a delayed retry with
// backoff, emits JobRetrying.
// On failure with attempts exhausted: marks failed, pushes to the DLQ,
// emits JobFailed + JobDLQ.
// A job whose (queue, name) pair has no registered processor fails
// terminally on the spot: retrying cannot help it.
func (e *Executor) Execute(ctx context.Context, j *job.Job) error {
	now := time.Now().UTC()

	handler, ok := e.registry.Get(j.Queue, j.Name)
	if !ok {
		err := fmt.Errorf("%w: %s/%s", taskq.ErrNoHandler, j.Queue, j.Name)
		j.AttemptsMade++
		j.LastError = err.Error()
		return e.failTerminally(ctx, j, err, now)
	}

	start := time.Now()

	// The terminal handler that calls the registered processor.
	terminal := func(ctx context.Context) error {
		return handler(ctx, j.Payload)
	}

	err := e.mw(ctx, j, terminal)
	elapsed := time.Since(start)
	now = time.Now().UTC()

	if err != nil {
		return e.handleFailure(ctx, j, err, now)
	}
	return e.handleSuccess(ctx, j, now, elapsed)
}

// handleSuccess marks the job as completed and emits the lifecycle
// event.
func (e *Executor) handleSuccess(ctx context.Context, j *job.Job, now time.Time, elapsed time.Duration) error {
	j.State = job.StateCompleted
	j.FinishedAt = &now

	if updateErr := e.store.UpdateJob(ctx, j); updateErr != nil {
		e.logger.Error("failed to update job after success",
			slog.String("job_id", j.ID.String()),
			slog.String("job", j.Name),
			slog.String("error", updateErr.Error()),
		)
		return updateErr
	}

	e.hooks.EmitJobCompleted(ctx, j, elapsed)
	return nil
}

// handleFailure increments the attempt counter and either schedules a
// retry or sends the job to the DLQ.
func (e *Executor) handleFailure(ctx context.Context, j *job.Job, handlerErr error, now time.Time) error {
	j.AttemptsMade++
	j.LastError = handlerErr.Error()

	if j.AttemptsLeft() {
		return e.scheduleRetry(ctx, j, now, handlerErr)
	}
	return e.failTerminally(ctx, j, handlerErr, now)
}

// scheduleRetry sets the job to StateDelayed with a backoff delay.
func (e *Executor) scheduleRetry(ctx context.Context, j *job.Job, now time.Time, handlerErr error) error {
	delay := j.Backoff.Delay(j.AttemptsMade)
	nextRunAt := now.Add(delay)
	j.RunAt = nextRunAt
	j.State = job.StateDelayed

	if updateErr := e.store.UpdateJob(ctx, j); updateErr != nil {
		e.logger.Error("failed to update job for retry",
			slog.String("job_id", j.ID.String()),
			slog.String("error", updateErr.Error()),
		)
		return updateErr
	}

	e.hooks.EmitJobRetrying(ctx, j, j.AttemptsMade, nextRunAt)

	e.logger.Info("job scheduled for retry",
		slog.String("job_id", j.ID.String()),
		slog.String("job", j.Name),
		slog.Int("attempt", j.AttemptsMade),
		slog.Int("max_attempts", j.MaxAttempts),
		slog.Duration("delay", delay),
	)

	return fmt.Errorf("job %s attempt %d/%d: %w", j.Name, j.AttemptsMade, j.MaxAttempts, handlerErr)
}

// failTerminally marks the job as failed, pushes it to the DLQ, and
// emits the terminal lifecycle events.
func (e *Executor) failTerminally(ctx context.Context, j *job.Job, handlerErr error, now time.Time) error {
	j.State = job.StateFailed
	j.FinishedAt = &now

	if updateErr := e.store.UpdateJob(ctx, j); updateErr != nil {
		e.logger.Error("failed to update job as failed",
			slog.String("job_id", j.ID.String()),
			slog.String("error", updateErr.Error()),
		)
		return updateErr
	}

	// A failed deadLetter job stays failed. Pushing it back onto the
	// dlq queue would loop forever.
	if e.dlqService != nil && j.Queue != taskq.QueueDLQ {
		if _, dlqErr := e.dlqService.Push(ctx, j, handlerErr); dlqErr != nil {
			e.logger.Error("failed to push job to DLQ",
				slog.String("job_id", j.ID.String()),
				slog.String("error", dlqErr.Error()),
			)
		} else {
			e.hooks.EmitJobDLQ(ctx, j, handlerErr)
		}
	}

	e.hooks.EmitJobFailed(ctx, j, handlerErr)

	return handlerErr
}
