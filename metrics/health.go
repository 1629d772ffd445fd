package metrics

import (
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Verdict classifies queue health.
type Verdict string

const (
	VerdictHealthy   Verdict = "healthy"
	VerdictWarning   Verdict = "warning"
	VerdictUnhealthy Verdict = "unhealthy"
)

// Health thresholds.
const (
	// unhealthyFailureRate is the failure rate above which a queue is
	// reported unhealthy.
	unhealthyFailureRate = 0.1

	// warningBacklog is the combined waiting+active count above which a
	// queue gets a backlog warning.
	warningBacklog = 1000
)

// Health is the evaluated condition of a single queue.
type Health struct {
	Queue       string              `json:"queue"`
	Verdict     Verdict             `json:"verdict"`
	FailureRate float64             `json:"failureRate"`
	Counts      map[job.State]int64 `json:"counts"`
}

// Evaluate computes a queue's health verdict from its per-state counts.
//
// The failure rate considers only jobs that have reached a decision
// point: failed / (waiting + active + failed). Completed jobs are
// excluded so a long-running healthy queue cannot mask a recent burst
// of failures. An empty queue has a zero failure rate.
func Evaluate(queue string, counts map[job.State]int64) Health {
	waiting := counts[job.StateWaiting]
	active := counts[job.StateActive]
	failed := counts[job.StateFailed]

	var rate float64
	if total := waiting + active + failed; total > 0 {
		rate = float64(failed) / float64(total)
	}

	verdict := VerdictHealthy
	switch {
	case rate > unhealthyFailureRate:
		verdict = VerdictUnhealthy
	case waiting+active > warningBacklog:
		verdict = VerdictWarning
	}

	return Health{
		Queue:       queue,
		Verdict:     verdict,
		FailureRate: rate,
		Counts:      counts,
	}
}
