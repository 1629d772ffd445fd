package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kocayazbey/AyazTrade-sub002/engine"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// QueueInfo describes one queue in the listQueues response.
type QueueInfo struct {
	Queue  string              `json:"queue"`
	Jobs   []string            `json:"jobs"`
	Counts map[job.State]int64 `json:"counts"`
}

func (a *API) listQueues(w http.ResponseWriter, r *http.Request) {
	queues := a.eng.Queues()
	out := make([]QueueInfo, 0, len(queues))
	for _, q := range queues {
		counts, err := a.eng.QueueCounts(r.Context(), q)
		if err != nil {
			mapError(w, err)
			return
		}
		out = append(out, QueueInfo{
			Queue:  q,
			Jobs:   a.eng.JobNames(q),
			Counts: counts,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// EnqueueJobRequest is the body for POST /queues/{queue}/jobs.
type EnqueueJobRequest struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`

	// Optional overrides; zero values keep the processor defaults.
	Attempts int   `json:"attempts,omitempty"`
	DelayMs  int64 `json:"delay_ms,omitempty"`
}

func (a *API) enqueueJob(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "queue")

	var req EnqueueJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var opts []job.Option
	if req.Attempts > 0 {
		opts = append(opts, job.WithAttempts(req.Attempts))
	}
	if req.DelayMs > 0 {
		opts = append(opts, job.WithDelay(time.Duration(req.DelayMs)*time.Millisecond))
	}

	j, err := engine.Enqueue(r.Context(), a.eng, queueName, req.Name, req.Payload, opts...)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (a *API) getJob(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "queue")
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	j, err := a.eng.GetJob(r.Context(), queueName, jobID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (a *API) removeJob(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "queue")
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.eng.RemoveJob(r.Context(), queueName, jobID); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveToDLQRequest is the body for POST /queues/{queue}/jobs/{jobID}/dlq.
type MoveToDLQRequest struct {
	Reason string `json:"reason"`
}

func (a *API) moveToDLQ(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "queue")
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req MoveToDLQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Reason == "" {
		req.Reason = "moved via API"
	}

	dead, err := a.eng.MoveToDLQ(r.Context(), queueName, jobID, req.Reason)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dead)
}
