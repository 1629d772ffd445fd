package main

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Log-only collaborators stand in for the real SMTP, SMS, search, and
// payment integrations, which live in the services that embed this
// module. They record the delivery intent so the pipeline is observable
// end to end.

type logOnlyMailer struct{ logger *slog.Logger }

func (m logOnlyMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("email delivered", slog.String("to", to), slog.String("subject", subject))
	return nil
}

type logOnlySMS struct{ logger *slog.Logger }

func (s logOnlySMS) Send(_ context.Context, to, _ string) error {
	s.logger.Info("sms delivered", slog.String("to", to))
	return nil
}

type logOnlyIndexer struct{ logger *slog.Logger }

func (i logOnlyIndexer) Index(_ context.Context, index, docID string, _ json.RawMessage) error {
	i.logger.Info("document indexed", slog.String("index", index), slog.String("doc_id", docID))
	return nil
}

func (i logOnlyIndexer) Delete(_ context.Context, index, docID string) error {
	i.logger.Info("document deleted", slog.String("index", index), slog.String("doc_id", docID))
	return nil
}

type logOnlyGateway struct{ logger *slog.Logger }

func (g logOnlyGateway) Charge(_ context.Context, idempotencyKey, customerID string, amountCents int64, currency string) error {
	g.logger.Info("payment charged",
		slog.String("idempotency_key", idempotencyKey),
		slog.String("customer_id", customerID),
		slog.Int64("amount_cents", amountCents),
		slog.String("currency", currency),
	)
	return nil
}
