package tasks

import (
	"context"
	"fmt"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the email queue.
const JobSendEmail = "sendEmail"

// EmailPayload is the payload for sendEmail jobs.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers email messages.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendEmail returns the sendEmail processor definition.
func SendEmail(m Mailer) *job.Definition[EmailPayload] {
	return job.NewDefinition(taskq.QueueEmail, JobSendEmail,
		func(ctx context.Context, p EmailPayload) error {
			if p.To == "" {
				return fmt.Errorf("tasks: %s: recipient is required", JobSendEmail)
			}
			return m.Send(ctx, p.To, p.Subject, p.Body)
		})
}
