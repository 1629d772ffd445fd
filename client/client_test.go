package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/api"
	"github.com/kocayazbey/AyazTrade-sub002/client"
	"github.com/kocayazbey/AyazTrade-sub002/engine"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/metrics"
	"github.com/kocayazbey/AyazTrade-sub002/store/memory"
)

type emailPayload struct {
	To string `json:"to"`
}

func newServer(t *testing.T) (*engine.Engine, *client.Client) {
	t.Helper()
	d, err := taskq.New(taskq.WithStore(memory.New()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng, err := engine.Build(d)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	srv := httptest.NewServer(api.New(eng).Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return eng, c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	if _, err := client.New("ftp://example.com"); err == nil {
		t.Error("New accepted ftp scheme")
	}
	if _, err := client.New("://bad"); err == nil {
		t.Error("New accepted malformed URL")
	}
}

func TestClient_EnqueueAndGetJob(t *testing.T) {
	_, c := newServer(t)
	ctx := context.Background()

	j, err := c.Enqueue(ctx, taskq.QueueEmail, "sendEmail", emailPayload{To: "ops@example.com"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j.Queue != taskq.QueueEmail || j.Name != "sendEmail" {
		t.Errorf("job = %s/%s, want email/sendEmail", j.Queue, j.Name)
	}
	if j.State != job.StateWaiting {
		t.Errorf("State = %q, want waiting", j.State)
	}

	got, err := c.GetJob(ctx, taskq.QueueEmail, j.ID.String())
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.ID.String() != j.ID.String() {
		t.Errorf("ID = %s, want %s", got.ID, j.ID)
	}
}

func TestClient_EnqueueOptions(t *testing.T) {
	_, c := newServer(t)

	j, err := c.Enqueue(context.Background(), taskq.QueueSMS, "sendSms", emailPayload{},
		client.WithAttempts(7),
		client.WithDelay(time.Minute),
	)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", j.MaxAttempts)
	}
	if j.State != job.StateDelayed {
		t.Errorf("State = %q, want delayed", j.State)
	}
}

func TestClient_NotFound(t *testing.T) {
	_, c := newServer(t)
	ctx := context.Background()

	_, err := c.Enqueue(ctx, "bulk-export", "export", emailPayload{})
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("unknown queue: err = %v, want ErrNotFound", err)
	}

	_, err = c.GetJob(ctx, taskq.QueueEmail, "job_01h2xcejqtf2nbrexx3vqjhp41")
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("missing job: err = %v, want ErrNotFound", err)
	}

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 404 {
		t.Errorf("err = %v, want *StatusError with code 404", err)
	}
}

func TestClient_RemoveJob(t *testing.T) {
	_, c := newServer(t)
	ctx := context.Background()

	j, err := c.Enqueue(ctx, taskq.QueueWebhook, "deliverWebhook", emailPayload{})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := c.RemoveJob(ctx, taskq.QueueWebhook, j.ID.String()); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	if _, err := c.GetJob(ctx, taskq.QueueWebhook, j.ID.String()); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("GetJob after remove: err = %v, want ErrNotFound", err)
	}
}

func TestClient_ListQueues(t *testing.T) {
	_, c := newServer(t)
	ctx := context.Background()

	if _, err := c.Enqueue(ctx, taskq.QueueEmail, "sendEmail", emailPayload{}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	queues, err := c.ListQueues(ctx)
	if err != nil {
		t.Fatalf("ListQueues: %v", err)
	}
	if len(queues) != len(taskq.DefaultQueues()) {
		t.Fatalf("listed %d queues, want %d", len(queues), len(taskq.DefaultQueues()))
	}
	byName := make(map[string]client.QueueInfo, len(queues))
	for _, q := range queues {
		byName[q.Queue] = q
	}
	if byName[taskq.QueueEmail].Counts[job.StateWaiting] != 1 {
		t.Errorf("email waiting = %d, want 1", byName[taskq.QueueEmail].Counts[job.StateWaiting])
	}
}

func TestClient_DLQFlow(t *testing.T) {
	_, c := newServer(t)
	ctx := context.Background()

	j, err := c.Enqueue(ctx, taskq.QueuePayments, "processPayment", emailPayload{})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	dead, err := c.MoveToDLQ(ctx, taskq.QueuePayments, j.ID.String(), "gateway outage")
	if err != nil {
		t.Fatalf("MoveToDLQ: %v", err)
	}
	if dead.Queue != taskq.QueueDLQ {
		t.Errorf("dead.Queue = %q, want dlq", dead.Queue)
	}

	entries, err := c.ListDLQ(ctx, 10)
	if err != nil {
		t.Fatalf("ListDLQ: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("DLQ holds %d entries, want 1", len(entries))
	}

	retried, err := c.RetryDLQ(ctx, 10)
	if err != nil {
		t.Fatalf("RetryDLQ: %v", err)
	}
	if retried != 1 {
		t.Errorf("retried = %d, want 1", retried)
	}

	entries, err = c.ListDLQ(ctx, 10)
	if err != nil {
		t.Fatalf("ListDLQ: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("DLQ holds %d entries after replay, want 0", len(entries))
	}
}

func TestClient_Health(t *testing.T) {
	eng, c := newServer(t)
	eng.Collector().Collect(context.Background())

	report, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != metrics.VerdictHealthy {
		t.Errorf("Status = %q, want healthy", report.Status)
	}
	if len(report.Queues) != len(taskq.DefaultQueues()) {
		t.Errorf("health covers %d queues, want %d", len(report.Queues), len(taskq.DefaultQueues()))
	}
}
