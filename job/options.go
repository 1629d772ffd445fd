package job

import (
	"time"

	"github.com/kocayazbey/AyazTrade-sub002/backoff"
)

// Options configures per-job behavior: retry budget, backoff policy,
// scheduling delay, and execution timeout.
type Options struct {
	// Attempts is the maximum number of execution attempts (initial run
	// included) before the job is failed and sent to the DLQ.
	Attempts int

	// Backoff governs the delay before a retried job becomes eligible
	// again.
	Backoff backoff.Policy

	// Delay postpones the first execution. Zero means immediate.
	Delay time.Duration

	// Timeout is the maximum duration one attempt may run before its
	// context is cancelled. Zero means unlimited.
	Timeout time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Attempts: 3,
		Backoff:  backoff.Default(),
		Timeout:  5 * time.Minute,
	}
}

// Option is a functional option for configuring job Options.
type Option func(*Options)

// WithAttempts sets the maximum number of execution attempts.
func WithAttempts(n int) Option {
	return func(o *Options) {
		o.Attempts = n
	}
}

// WithBackoff sets the retry backoff policy.
func WithBackoff(p backoff.Policy) Option {
	return func(o *Options) {
		o.Backoff = p
	}
}

// WithDelay postpones the first execution by d.
func WithDelay(d time.Duration) Option {
	return func(o *Options) {
		o.Delay = d
	}
}

// WithTimeout sets the per-attempt execution deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}
