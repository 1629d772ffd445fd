package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// enqueueRequest mirrors the server's enqueue body.
type enqueueRequest struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`

	Attempts int   `json:"attempts,omitempty"`
	DelayMs  int64 `json:"delay_ms,omitempty"`
}

// EnqueueOption configures an enqueue request.
type EnqueueOption func(*enqueueRequest)

// WithAttempts overrides the processor's default attempt budget for
// this job.
func WithAttempts(n int) EnqueueOption {
	return func(r *enqueueRequest) { r.Attempts = n }
}

// WithDelay schedules the job to run after the given delay.
func WithDelay(d time.Duration) EnqueueOption {
	return func(r *enqueueRequest) { r.DelayMs = d.Milliseconds() }
}

// Enqueue submits a job to the given queue. The payload is marshaled
// to JSON and delivered to the processor registered for (queue, name).
func (c *Client) Enqueue(ctx context.Context, queue, name string, payload any, opts ...EnqueueOption) (*job.Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("taskq/client: marshal payload: %w", err)
	}

	req := enqueueRequest{Name: name, Payload: raw}
	for _, opt := range opts {
		opt(&req)
	}

	var j job.Job
	if err := c.do(ctx, http.MethodPost, "/queues/"+url.PathEscape(queue)+"/jobs", req, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJob retrieves a job by queue and ID.
func (c *Client) GetJob(ctx context.Context, queue, jobID string) (*job.Job, error) {
	var j job.Job
	err := c.do(ctx, http.MethodGet, jobPath(queue, jobID), nil, &j)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// RemoveJob deletes a job from its queue.
func (c *Client) RemoveJob(ctx context.Context, queue, jobID string) error {
	return c.do(ctx, http.MethodDelete, jobPath(queue, jobID), nil, nil)
}

// MoveToDLQ moves a job into the dead letter queue with the given
// reason and returns the resulting dead letter job.
func (c *Client) MoveToDLQ(ctx context.Context, queue, jobID, reason string) (*job.Job, error) {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}

	var dead job.Job
	if err := c.do(ctx, http.MethodPost, jobPath(queue, jobID)+"/dlq", body, &dead); err != nil {
		return nil, err
	}
	return &dead, nil
}

func jobPath(queue, jobID string) string {
	return "/queues/" + url.PathEscape(queue) + "/jobs/" + url.PathEscape(jobID)
}
