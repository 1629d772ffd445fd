// Package taskq is the background job dispatch and reliability layer.
// It accepts typed jobs onto a fixed set of named queues, routes them to
// per-queue processors, retries failures with configurable backoff,
// captures terminally-failed jobs in a dead letter queue for inspection
// and bulk replay, and continuously derives per-queue health metrics.
//
// # Quick Start
//
//	d, err := taskq.New(
//	    taskq.WithStore(redisStore),
//	    taskq.WithConcurrency(4),
//	)
//
// # Architecture
//
// The root package holds configuration, sentinel errors, and the thin
// Dispatcher lifecycle coordinator. The engine package wires the
// subsystems (job registry, queue registry, DLQ service, metrics
// collector, worker pool) together and exposes the operational API:
// AddJob, GetJob, RemoveJob, MoveToDLQ, RetryFromDLQ.
//
// The queue store is the single source of truth for job state; in-process
// metrics are operational aggregates only and reset on restart.
package taskq
