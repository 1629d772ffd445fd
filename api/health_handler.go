package api

import (
	"net/http"

	"github.com/kocayazbey/AyazTrade-sub002/metrics"
)

// HealthResponse aggregates the per-queue verdicts. Status is the worst
// verdict across all queues.
type HealthResponse struct {
	Status metrics.Verdict           `json:"status"`
	Queues map[string]metrics.Health `json:"queues"`
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	queues := a.eng.Health()

	status := metrics.VerdictHealthy
	for _, h := range queues {
		switch h.Verdict {
		case metrics.VerdictUnhealthy:
			status = metrics.VerdictUnhealthy
		case metrics.VerdictWarning:
			if status == metrics.VerdictHealthy {
				status = metrics.VerdictWarning
			}
		}
	}

	code := http.StatusOK
	if status == metrics.VerdictUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: status, Queues: queues})
}
