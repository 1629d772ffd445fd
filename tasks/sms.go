package tasks

import (
	"context"
	"fmt"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the sms queue.
const JobSendSMS = "sendSms"

// SMSPayload is the payload for sendSms jobs.
type SMSPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SMSSender delivers text messages.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// SendSMS returns the sendSms processor definition.
func SendSMS(s SMSSender) *job.Definition[SMSPayload] {
	return job.NewDefinition(taskq.QueueSMS, JobSendSMS,
		func(ctx context.Context, p SMSPayload) error {
			if p.To == "" {
				return fmt.Errorf("tasks: %s: recipient is required", JobSendSMS)
			}
			return s.Send(ctx, p.To, p.Body)
		})
}
