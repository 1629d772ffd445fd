package dlq

// JobName is the job name carried by every dead letter queue entry.
const JobName = "deadLetter"

// Entry is the payload envelope of a dead letter job. It preserves
// everything needed to inspect or replay the original job.
type Entry struct {
	OriginalQueue string `json:"originalQueue"`
	JobName       string `json:"jobName"`
	Data          []byte `json:"data"`
	AttemptsMade  int    `json:"attemptsMade"`
	FailedReason  string `json:"failedReason"`
}
