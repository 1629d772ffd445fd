package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every instrument exported by the engine.
const namespace = "taskq"

// Registry owns the Prometheus instruments for the queue engine. All
// instruments are registered against the provided Registerer so callers
// can expose them on their own /metrics endpoint.
type Registry struct {
	QueueJobs      *prometheus.GaugeVec
	JobDuration    *prometheus.HistogramVec
	JobWait        *prometheus.HistogramVec
	JobCompletions *prometheus.CounterVec
	JobFailures    *prometheus.CounterVec
	JobRetries     *prometheus.CounterVec
	DLQEntries     prometheus.Counter
}

// NewRegistry creates and registers the engine instruments.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		QueueJobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_jobs",
			Help:      "Current number of jobs per queue and state.",
		}, []string{"queue", "state"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Job execution time in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"queue", "job"}),
		JobWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_wait_seconds",
			Help:      "Time between enqueue and the start of execution in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"queue"}),
		JobCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_completions_total",
			Help:      "Total successfully completed jobs.",
		}, []string{"queue", "job"}),
		JobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_failures_total",
			Help:      "Total terminal job failures by kind.",
		}, []string{"queue", "job", "kind"}),
		JobRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_retries_total",
			Help:      "Total retry attempts scheduled.",
		}, []string{"queue", "job"}),
		DLQEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dlq_entries_total",
			Help:      "Total jobs moved to the dead letter queue.",
		}),
	}

	reg.MustRegister(
		r.QueueJobs,
		r.JobDuration,
		r.JobWait,
		r.JobCompletions,
		r.JobFailures,
		r.JobRetries,
		r.DLQEntries,
	)
	return r
}
