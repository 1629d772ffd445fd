// Package api exposes the queue engine over HTTP: queue inspection,
// job submission and removal, dead letter listing and replay, health
// verdicts, and Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/engine"
)

// API serves the HTTP management surface for an Engine.
type API struct {
	eng    *engine.Engine
	logger *slog.Logger
}

// New creates an API from a queue Engine.
func New(eng *engine.Engine) *API {
	return &API{eng: eng, logger: eng.Logger()}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(a.requestLogger)

	r.Get("/healthz", a.livez)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.eng.Gatherer(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Get("/queues", a.listQueues)

		// Static dlq routes take precedence over the {queue} subtree.
		r.Get("/queues/dlq/jobs", a.listDLQ)
		r.Post("/queues/dlq/retry", a.retryDLQ)

		r.Route("/queues/{queue}", func(r chi.Router) {
			r.Post("/jobs", a.enqueueJob)
			r.Get("/jobs/{jobID}", a.getJob)
			r.Delete("/jobs/{jobID}", a.removeJob)
			r.Post("/jobs/{jobID}/dlq", a.moveToDLQ)
		})
	})

	return r
}

// requestLogger logs one line per request through the structured logger.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func (a *API) livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// mapError translates sentinel errors into HTTP status codes.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, taskq.ErrJobNotFound), errors.Is(err, taskq.ErrUnknownQueue):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, taskq.ErrJobAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
