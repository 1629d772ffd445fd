package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPDeliverer delivers webhooks over plain HTTP POST.
type HTTPDeliverer struct {
	client *http.Client
}

// NewHTTPDeliverer creates a webhook deliverer. A nil client gets a
// default with a 10s timeout; per-job timeouts still apply through the
// request context.
func NewHTTPDeliverer(client *http.Client) *HTTPDeliverer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPDeliverer{client: client}
}

// Deliver posts the body to the subscriber endpoint. Any response
// outside 2xx is an error so the job retries.
func (h *HTTPDeliverer) Deliver(ctx context.Context, url string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tasks: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("tasks: deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tasks: webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}
