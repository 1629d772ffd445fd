// Package job defines the job entity, state machine, typed definitions,
// and the processor registry.
//
// # Job Entity
//
// A [Job] represents one unit of work. It carries an opaque JSON payload
// and progresses through a state machine:
//
//	waiting → active → completed
//	waiting → active → delayed → waiting → ...   (retry with backoff)
//	waiting → active → failed                    (retries exhausted)
//
// A job enqueued with a Delay starts in the delayed state and is
// promoted to waiting once its RunAt is due. Failed jobs may be lifted
// into the dead letter queue, where they cycle through the DLQ's own
// waiting → active → completed states when replayed.
//
// Identity is an opaque ID unique within a queue. The queue store owns
// the job; dispatchers and processors reference jobs by ID and never
// hold long-lived copies.
//
// # Defining a Processor
//
// Use [Definition] with a typed handler. The payload is JSON-serialized
// at enqueue time and deserialized before the handler runs:
//
//	var SendEmail = job.NewDefinition(taskq.QueueEmail, "sendEmail",
//	    func(ctx context.Context, p EmailPayload) error {
//	        return mailer.Send(ctx, p.To, p.Subject, p.Template)
//	    },
//	)
//
// # Registry
//
// [Registry] maps (queue, jobName) pairs to type-erased [HandlerFunc]
// values — exactly one processor per pair. Register definitions at
// startup via [RegisterDefinition].
package job
