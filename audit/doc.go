// Package audit is a lifecycle hook that bridges queue events to an
// audit trail backend.
//
// Every job lifecycle event emits a structured audit record through the
// [Recorder] interface. The hook assigns severity levels (info for
// normal operations, warning for retries, critical for terminal
// failures) and metadata (job name, queue, elapsed time, errors).
//
// # Usage
//
//	engine.Build(d, engine.WithHook(audit.New(recorder)))
//
// # Selective filtering
//
//	audit.New(recorder,
//	    audit.WithActions(
//	        audit.ActionJobFailed,
//	        audit.ActionJobDLQ,
//	    ),
//	)
package audit
