package job

import (
	"time"

	"github.com/kocayazbey/AyazTrade-sub002/backoff"
	"github.com/kocayazbey/AyazTrade-sub002/id"
)

// State represents the lifecycle state of a job.
type State string

const (
	// StateWaiting means the job is eligible to be picked up by a worker.
	StateWaiting State = "waiting"
	// StateActive means a worker is currently executing the job.
	StateActive State = "active"
	// StateDelayed means the job is scheduled for the future, either by an
	// initial delay or by retry backoff.
	StateDelayed State = "delayed"
	// StateCompleted means the job finished successfully.
	StateCompleted State = "completed"
	// StateFailed means the job exhausted its retry budget.
	StateFailed State = "failed"
)

// States lists all job states in lifecycle order. Used by the metrics
// collector when sampling per-queue counts.
func States() []State {
	return []State{StateWaiting, StateActive, StateDelayed, StateCompleted, StateFailed}
}

// Job represents a unit of work owned by the queue store.
type Job struct {
	ID           id.JobID       `json:"id"`
	Queue        string         `json:"queue"`
	Name         string         `json:"name"`
	Payload      []byte         `json:"payload"`
	State        State          `json:"state"`
	AttemptsMade int            `json:"attempts_made"`
	MaxAttempts  int            `json:"max_attempts"`
	Backoff      backoff.Policy `json:"backoff"`
	LastError    string         `json:"last_error,omitempty"`
	RunAt        time.Time      `json:"run_at"`
	EnqueuedAt   time.Time      `json:"enqueued_at"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	Timeout      time.Duration  `json:"timeout,omitempty"`
}

// AttemptsLeft reports whether the job still has retry budget.
func (j *Job) AttemptsLeft() bool {
	return j.AttemptsMade < j.MaxAttempts
}
