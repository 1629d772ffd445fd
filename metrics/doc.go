// Package metrics provides Prometheus instrumentation and per-queue
// health reporting for the queue engine.
//
// The [Registry] owns the Prometheus instruments. The [Collector] feeds
// them from two directions: it implements the hook interfaces to record
// event-driven counters and histograms (completions, failures, retries,
// execution and wait durations), and it runs a background polling loop
// that samples per-queue job counts from the store, updates the state
// gauges, and computes a health verdict for every queue.
//
// # Health verdicts
//
// A queue is unhealthy when its failure rate, failed / (waiting +
// active + failed), exceeds 10%. A queue that is not unhealthy but has
// a waiting backlog above 1000 jobs gets a warning. Otherwise it is
// healthy. An error while sampling one queue never blocks the others.
package metrics
