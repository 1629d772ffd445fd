// Package store defines the queue store contract. The store is the
// single source of truth for job state: it owns every job, serializes
// state transitions, and orders the waiting set FIFO per queue.
// Backends: Redis and Memory.
package store

import (
	"context"

	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Store is the queue store interface. All operations are safe for
// concurrent use. Job identity is (queue, jobID); IDs are unique within
// a queue.
type Store interface {
	// EnqueueJob persists a new job. The job's State decides where it
	// lands: waiting jobs join the FIFO tail, delayed jobs wait until
	// RunAt. Returns taskq.ErrJobAlreadyExists on ID collision.
	EnqueueJob(ctx context.Context, j *job.Job) error

	// DequeueJobs promotes due delayed jobs to waiting, then atomically
	// claims up to limit waiting jobs in FIFO order, transitions them to
	// active, and returns them. At most one caller obtains a given job.
	DequeueJobs(ctx context.Context, queue string, limit int) ([]*job.Job, error)

	// GetJob retrieves a job snapshot. Returns taskq.ErrJobNotFound when
	// absent.
	GetJob(ctx context.Context, queue string, jobID id.JobID) (*job.Job, error)

	// UpdateJob persists changes to an existing job, moving it between
	// state indexes as needed.
	UpdateJob(ctx context.Context, j *job.Job) error

	// RemoveJob deletes a job. It is a no-op when the job no longer
	// exists.
	RemoveJob(ctx context.Context, queue string, jobID id.JobID) error

	// ListJobsByState returns up to limit jobs in the given state.
	// For waiting and delayed jobs the order is FIFO (enqueue order /
	// due order). Zero limit means no limit.
	ListJobsByState(ctx context.Context, queue string, state job.State, limit int) ([]*job.Job, error)

	// CountJobsByState returns the number of jobs per state for a queue.
	// Every state appears in the result, zero-valued when empty.
	CountJobsByState(ctx context.Context, queue string) (map[job.State]int64, error)

	// Ping checks store connectivity.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
