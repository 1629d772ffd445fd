package api

import (
	"net/http"
	"strconv"
)

const (
	defaultDLQLimit = 50
	maxDLQLimit     = 1000
)

// limitParam parses the "limit" query parameter, clamped to
// [1, maxDLQLimit] with a default when absent or invalid.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultDLQLimit
	}
	if limit > maxDLQLimit {
		return maxDLQLimit
	}
	return limit
}

func (a *API) listDLQ(w http.ResponseWriter, r *http.Request) {
	entries, err := a.eng.ListDLQ(r.Context(), limitParam(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// RetryDLQResponse reports how many dead letters a replay re-enqueued.
type RetryDLQResponse struct {
	Retried int `json:"retried"`
}

func (a *API) retryDLQ(w http.ResponseWriter, r *http.Request) {
	retried, err := a.eng.RetryFromDLQ(r.Context(), limitParam(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RetryDLQResponse{Retried: retried})
}
