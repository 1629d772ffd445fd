package tasks

import (
	"context"
	"fmt"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/backoff"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the payments queue.
const JobProcessPayment = "processPayment"

// PaymentPayload is the payload for processPayment jobs. IdempotencyKey
// must be set by the producer; the gateway dedupes on it, which makes a
// replayed charge a no-op instead of a double charge.
type PaymentPayload struct {
	IdempotencyKey string `json:"idempotencyKey"`
	CustomerID     string `json:"customerId"`
	AmountCents    int64  `json:"amountCents"`
	Currency       string `json:"currency"`
}

// PaymentGateway executes charges against the payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, idempotencyKey, customerID string, amountCents int64, currency string) error
}

// ProcessPayment returns the processPayment processor definition.
// Charges retry with fixed spacing rather than tight exponential bursts
// so provider rate limits are respected.
func ProcessPayment(g PaymentGateway) *job.Definition[PaymentPayload] {
	return job.NewDefinition(taskq.QueuePayments, JobProcessPayment,
		func(ctx context.Context, p PaymentPayload) error {
			if p.IdempotencyKey == "" {
				return fmt.Errorf("tasks: %s: idempotencyKey is required", JobProcessPayment)
			}
			if p.AmountCents <= 0 {
				return fmt.Errorf("tasks: %s: amountCents must be positive", JobProcessPayment)
			}
			return g.Charge(ctx, p.IdempotencyKey, p.CustomerID, p.AmountCents, p.Currency)
		},
		job.WithBackoff(backoff.Fixed(30*time.Second)),
		job.WithTimeout(time.Minute),
	)
}
