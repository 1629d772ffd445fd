package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// ListDLQ returns up to limit dead letter jobs awaiting replay. Each
// job's Payload is a dlq.Entry envelope preserving the original queue,
// job name, payload and failure reason.
func (c *Client) ListDLQ(ctx context.Context, limit int) ([]*job.Job, error) {
	var out []*job.Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/queues/dlq/jobs?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RetryDLQ re-enqueues up to limit dead letters onto their original
// queues and reports how many were replayed.
func (c *Client) RetryDLQ(ctx context.Context, limit int) (int, error) {
	var out struct {
		Retried int `json:"retried"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/queues/dlq/retry?limit=%d", limit), nil, &out); err != nil {
		return 0, err
	}
	return out.Retried, nil
}
