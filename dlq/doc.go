// Package dlq provides the dead letter queue for jobs that have
// exhausted their retry budget.
//
// The dead letter queue is itself a queue: terminally failed jobs are
// wrapped in an [Entry] envelope and enqueued as "deadLetter" jobs on
// the "dlq" queue. The envelope preserves the original queue, job name,
// payload, attempt count, and final error message for debugging.
//
// # Push
//
// When a job fails with no retries remaining, the executor calls
// [Service.Push] to wrap it and move it to the DLQ.
//
// # Replay
//
// [Service.RetryBatch] drains up to a requested number of entries from
// the DLQ in arrival order and re-enqueues each original job onto its
// original queue with a fresh ID and a reset attempt counter. Entries
// that cannot be replayed (corrupt envelope, queue no longer
// configured) are skipped and left in place; the batch keeps going.
package dlq
