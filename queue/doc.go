// Package queue defines the queue registry and per-queue throttling.
//
// The [Registry] maps queue names to their backing store handle. The set
// of names is fixed at process start; operations referencing any other
// name fail fast with taskq.ErrUnknownQueue. The registry is read-only
// after construction, so lookups need no locking.
//
// The [Manager] enforces optional per-queue rate limits and concurrency
// caps at dequeue time, using a token-bucket limiter
// (golang.org/x/time/rate) and an active-count gate:
//
//	m := queue.NewManager(
//	    queue.Config{Name: "email", RateLimit: 10, RateBurst: 20},
//	    queue.Config{Name: "payments", MaxConcurrency: 2},
//	)
//	if m.Acquire(queueName) {
//	    defer m.Release(queueName)
//	    // process the job
//	}
//
// Queues without a [Config] have no limits beyond the pool-wide
// concurrency.
package queue
