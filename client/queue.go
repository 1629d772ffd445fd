package client

import (
	"context"
	"net/http"

	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/metrics"
)

// QueueInfo describes one queue as reported by the server.
type QueueInfo struct {
	Queue  string              `json:"queue"`
	Jobs   []string            `json:"jobs"`
	Counts map[job.State]int64 `json:"counts"`
}

// ListQueues returns every configured queue with its registered job
// names and per-state counts.
func (c *Client) ListQueues(ctx context.Context) ([]QueueInfo, error) {
	var out []QueueInfo
	if err := c.do(ctx, http.MethodGet, "/queues", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HealthReport is the server's aggregated health response.
type HealthReport struct {
	Status metrics.Verdict           `json:"status"`
	Queues map[string]metrics.Health `json:"queues"`
}

// Health returns the per-queue health verdicts. An unhealthy overall
// status is reported as data, not as an error: the server answers 503
// but the report is still decoded.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, c.statusError(resp)
	}

	var report HealthReport
	if err := decodeJSON(resp, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
