package taskq

import "time"

// Canonical queue names. The set of queues is fixed and known at process
// start; AddJob calls referencing any other name fail with ErrUnknownQueue.
const (
	QueueEmail    = "email"
	QueueSMS      = "sms"
	QueueWebhook  = "webhook"
	QueueIndexing = "indexing"
	QueuePayments = "payments"

	// QueueDLQ is the reserved dead letter queue. Jobs land here after
	// exhausting their retry budget and stay until explicitly replayed.
	QueueDLQ = "dlq"
)

// DefaultQueues returns the fixed queue set in registration order.
func DefaultQueues() []string {
	return []string{QueueEmail, QueueSMS, QueueWebhook, QueueIndexing, QueuePayments, QueueDLQ}
}

// Config holds configuration for the Dispatcher.
type Config struct {
	// Queues is the list of queues workers will poll.
	Queues []string

	// Concurrency is the number of worker goroutines pulling jobs.
	Concurrency int

	// PollInterval is how often an idle worker polls for new jobs.
	PollInterval time.Duration

	// CollectInterval is how often the metrics collector samples
	// per-queue job counts.
	CollectInterval time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Queues:          DefaultQueues(),
		Concurrency:     10,
		PollInterval:    1 * time.Second,
		CollectInterval: 30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}
