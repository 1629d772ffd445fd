// Package engine wires all queue subsystems together: the queue and
// processor registries, hook registry, middleware chain, DLQ service,
// metrics collector, and worker pool. It also provides the public job
// operations (enqueue, fetch, remove, move to DLQ, bulk replay).
//
// This package exists to break the import cycle: the root taskq package
// defines the configuration and sentinel errors imported by every
// subsystem, and so cannot import those subsystems back. The engine
// package sits above all subsystem packages and below the application
// layer.
//
// Typical setup:
//
//	d, _ := taskq.New(taskq.WithStore(s), taskq.WithLogger(logger))
//	eng, _ := engine.Build(d)
//	engine.Register(eng, tasks.SendEmail(mailer))
//	_ = eng.Start(ctx)
//	defer eng.Stop(ctx)
//
//	j, _ := engine.Enqueue(ctx, eng, taskq.QueueEmail, "sendEmail", payload)
package engine
