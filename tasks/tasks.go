package tasks

import (
	"github.com/kocayazbey/AyazTrade-sub002/engine"
)

// Dependencies holds the collaborators every processor needs.
type Dependencies struct {
	Mailer   Mailer
	SMS      SMSSender
	Webhooks WebhookDeliverer
	Indexer  Indexer
	Payments PaymentGateway
}

// registerCatalog registers the dlq queue's own processors so every
// enumerated (queue, jobName) pair has exactly one handler.
func registerCatalog(eng *engine.Engine) error {
	if err := engine.Register(eng, DeadLetter()); err != nil {
		return err
	}
	return engine.Register(eng, RetryDLQ(eng))
}

// RegisterAll registers every processor definition on the engine.
func RegisterAll(eng *engine.Engine, deps Dependencies) error {
	if err := engine.Register(eng, SendEmail(deps.Mailer)); err != nil {
		return err
	}
	if err := engine.Register(eng, SendSMS(deps.SMS)); err != nil {
		return err
	}
	if err := engine.Register(eng, DeliverWebhook(deps.Webhooks)); err != nil {
		return err
	}
	if err := engine.Register(eng, IndexDocument(deps.Indexer)); err != nil {
		return err
	}
	if err := engine.Register(eng, DeleteDocument(deps.Indexer)); err != nil {
		return err
	}
	if err := engine.Register(eng, ProcessPayment(deps.Payments)); err != nil {
		return err
	}
	return registerCatalog(eng)
}
