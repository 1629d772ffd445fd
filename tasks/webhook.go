package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/backoff"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the webhook queue.
const JobDeliverWebhook = "deliverWebhook"

// WebhookPayload is the payload for deliverWebhook jobs.
type WebhookPayload struct {
	URL     string            `json:"url"`
	Event   string            `json:"event"`
	Body    json.RawMessage   `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

// WebhookDeliverer posts webhook bodies to subscriber endpoints.
type WebhookDeliverer interface {
	Deliver(ctx context.Context, url string, body []byte, headers map[string]string) error
}

// DeliverWebhook returns the deliverWebhook processor definition.
// Subscriber endpoints flap, so webhooks get a larger retry budget with
// exponential backoff.
func DeliverWebhook(d WebhookDeliverer) *job.Definition[WebhookPayload] {
	return job.NewDefinition(taskq.QueueWebhook, JobDeliverWebhook,
		func(ctx context.Context, p WebhookPayload) error {
			if p.URL == "" {
				return fmt.Errorf("tasks: %s: url is required", JobDeliverWebhook)
			}
			return d.Deliver(ctx, p.URL, p.Body, p.Headers)
		},
		job.WithAttempts(5),
		job.WithBackoff(backoff.Exponential(5*time.Second, 10*time.Minute)),
		job.WithTimeout(30*time.Second),
	)
}
