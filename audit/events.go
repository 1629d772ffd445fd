package audit

// Audit record actions. Each constant corresponds to one lifecycle hook
// and becomes the Action field of the record.
const (
	ActionJobEnqueued  = "job.enqueued"
	ActionJobStarted   = "job.started"
	ActionJobCompleted = "job.completed"
	ActionJobFailed    = "job.failed"
	ActionJobRetrying  = "job.retrying"
	ActionJobDLQ       = "job.dlq"
	ActionDLQReplayed  = "dlq.replayed"
)

// Audit record categories group related actions.
const (
	CategoryJob = "taskq.job"
	CategoryDLQ = "taskq.dlq"
)

// Resource types used as the Resource field in audit records.
const (
	ResourceJob = "job"
	ResourceDLQ = "dlq"
)

// AllActions returns every action this hook can emit.
func AllActions() []string {
	return []string{
		ActionJobEnqueued,
		ActionJobStarted,
		ActionJobCompleted,
		ActionJobFailed,
		ActionJobRetrying,
		ActionJobDLQ,
		ActionDLQReplayed,
	}
}
