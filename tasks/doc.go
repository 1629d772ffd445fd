// Package tasks defines the typed job processors for the fixed queue
// set: email, sms, webhook, indexing, and payments. Each processor is a
// job.Definition bound to a collaborator interface so the delivery
// mechanics (SMTP client, SMS provider, HTTP client, search cluster,
// payment gateway) stay injectable and testable.
//
// Replay from the dead letter queue is at-least-once, so every
// processor here must tolerate duplicate delivery. Payment charges
// carry an explicit idempotency key for exactly that reason.
package tasks
