package dlq_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/dlq"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/store/memory"
)

// fakeEnqueuer records re-enqueued jobs and can reject queues.
type fakeEnqueuer struct {
	store  *memory.Store
	reject map[string]bool
	calls  []string
}

func (f *fakeEnqueuer) EnqueueRaw(ctx context.Context, queue, name string, payload []byte) (*job.Job, error) {
	if f.reject[queue] {
		return nil, taskq.ErrUnknownQueue
	}
	f.calls = append(f.calls, queue+"/"+name)
	now := time.Now().UTC()
	j := &job.Job{
		ID:          id.NewJobID(),
		Queue:       queue,
		Name:        name,
		Payload:     payload,
		State:       job.StateWaiting,
		MaxAttempts: 3,
		RunAt:       now,
		EnqueuedAt:  now,
	}
	if err := f.store.EnqueueJob(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func newFailedJob(queue, name string, payload []byte) *job.Job {
	now := time.Now().UTC()
	return &job.Job{
		ID:           id.NewJobID(),
		Queue:        queue,
		Name:         name,
		Payload:      payload,
		State:        job.StateFailed,
		AttemptsMade: 3,
		MaxAttempts:  3,
		LastError:    "smtp timeout",
		RunAt:        now,
		EnqueuedAt:   now,
	}
}

func TestPush_WrapsJobInEnvelope(t *testing.T) {
	s := memory.New()
	svc := dlq.NewService(s)
	ctx := context.Background()

	failed := newFailedJob("email", "sendEmail", []byte(`{"to":"alice@example.com"}`))
	dead, err := svc.Push(ctx, failed, errors.New("smtp timeout"))
	if err != nil {
		t.Fatalf("Push: %v", err)
	}

	if dead.Queue != taskq.QueueDLQ {
		t.Errorf("Queue = %q, want %q", dead.Queue, taskq.QueueDLQ)
	}
	if dead.Name != dlq.JobName {
		t.Errorf("Name = %q, want %q", dead.Name, dlq.JobName)
	}
	if dead.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", dead.MaxAttempts)
	}

	var entry dlq.Entry
	if err := json.Unmarshal(dead.Payload, &entry); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if entry.OriginalQueue != "email" {
		t.Errorf("OriginalQueue = %q, want %q", entry.OriginalQueue, "email")
	}
	if entry.JobName != "sendEmail" {
		t.Errorf("JobName = %q, want %q", entry.JobName, "sendEmail")
	}
	if string(entry.Data) != `{"to":"alice@example.com"}` {
		t.Errorf("Data = %s, want original payload", entry.Data)
	}
	if entry.AttemptsMade != 3 {
		t.Errorf("AttemptsMade = %d, want 3", entry.AttemptsMade)
	}
	if entry.FailedReason != "smtp timeout" {
		t.Errorf("FailedReason = %q, want %q", entry.FailedReason, "smtp timeout")
	}

	// The dead letter job is persisted on the dlq queue.
	listed, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != dead.ID {
		t.Fatalf("List returned %d jobs, want the pushed entry", len(listed))
	}
}

func TestRetryBatch_ReplaysInArrivalOrder(t *testing.T) {
	s := memory.New()
	enq := &fakeEnqueuer{store: s}
	svc := dlq.NewService(s)
	svc.SetEnqueuer(enq)
	ctx := context.Background()

	if _, err := svc.Push(ctx, newFailedJob("email", "sendEmail", nil), errors.New("x")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := svc.Push(ctx, newFailedJob("sms", "sendSms", nil), errors.New("y")); err != nil {
		t.Fatalf("Push: %v", err)
	}

	retried, err := svc.RetryBatch(ctx, 50)
	if err != nil {
		t.Fatalf("RetryBatch: %v", err)
	}
	if retried != 2 {
		t.Errorf("retried = %d, want 2", retried)
	}
	if len(enq.calls) != 2 || enq.calls[0] != "email/sendEmail" || enq.calls[1] != "sms/sendSms" {
		t.Errorf("re-enqueue order = %v, want [email/sendEmail sms/sendSms]", enq.calls)
	}

	// Replayed entries are removed from the DLQ.
	left, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("DLQ still holds %d entries, want 0", len(left))
	}
}

func TestRetryBatch_HonorsLimit(t *testing.T) {
	s := memory.New()
	enq := &fakeEnqueuer{store: s}
	svc := dlq.NewService(s)
	svc.SetEnqueuer(enq)
	ctx := context.Background()

	for range 5 {
		if _, err := svc.Push(ctx, newFailedJob("email", "sendEmail", nil), errors.New("x")); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	retried, err := svc.RetryBatch(ctx, 3)
	if err != nil {
		t.Fatalf("RetryBatch: %v", err)
	}
	if retried != 3 {
		t.Errorf("retried = %d, want 3", retried)
	}

	left, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 2 {
		t.Errorf("DLQ holds %d entries after partial replay, want 2", len(left))
	}
}

func TestRetryBatch_ZeroLimitNoOp(t *testing.T) {
	s := memory.New()
	svc := dlq.NewService(s)
	svc.SetEnqueuer(&fakeEnqueuer{store: s})
	ctx := context.Background()

	if _, err := svc.Push(ctx, newFailedJob("email", "sendEmail", nil), errors.New("x")); err != nil {
		t.Fatalf("Push: %v", err)
	}

	retried, err := svc.RetryBatch(ctx, 0)
	if err != nil {
		t.Fatalf("RetryBatch: %v", err)
	}
	if retried != 0 {
		t.Errorf("retried = %d, want 0", retried)
	}

	left, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("DLQ holds %d entries, want 1 (untouched)", len(left))
	}
}

func TestRetryBatch_SkipsUnreplayableEntries(t *testing.T) {
	s := memory.New()
	enq := &fakeEnqueuer{store: s, reject: map[string]bool{"fax": true}}
	svc := dlq.NewService(s)
	svc.SetEnqueuer(enq)
	ctx := context.Background()

	// Queue no longer configured: re-enqueue rejected.
	if _, err := svc.Push(ctx, newFailedJob("fax", "sendFax", nil), errors.New("x")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	// Healthy entry behind it.
	if _, err := svc.Push(ctx, newFailedJob("email", "sendEmail", nil), errors.New("y")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	// Corrupt envelope.
	now := time.Now().UTC()
	corrupt := &job.Job{
		ID:          id.NewJobID(),
		Queue:       taskq.QueueDLQ,
		Name:        dlq.JobName,
		Payload:     []byte(`not json`),
		State:       job.StateWaiting,
		MaxAttempts: 1,
		RunAt:       now,
		EnqueuedAt:  now,
	}
	if err := s.EnqueueJob(ctx, corrupt); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	retried, err := svc.RetryBatch(ctx, 50)
	if err != nil {
		t.Fatalf("RetryBatch: %v", err)
	}
	if retried != 1 {
		t.Errorf("retried = %d, want 1 (only the healthy entry)", retried)
	}

	// Skipped entries stay in the DLQ.
	left, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 2 {
		t.Errorf("DLQ holds %d entries, want 2 (skipped stay put)", len(left))
	}
}
