package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/store/memory"
)

func newWaitingJob(queue, name string, payload []byte) *job.Job {
	now := time.Now().UTC()
	return &job.Job{
		ID:          id.NewJobID(),
		Queue:       queue,
		Name:        name,
		Payload:     payload,
		State:       job.StateWaiting,
		MaxAttempts: 3,
		RunAt:       now,
		EnqueuedAt:  now,
	}
}

func TestEnqueueGet_RoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	j := newWaitingJob("email", "sendEmail", []byte(`{"to":"a@b.com"}`))
	if err := s.EnqueueJob(ctx, j); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	got, err := s.GetJob(ctx, "email", j.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if string(got.Payload) != `{"to":"a@b.com"}` {
		t.Errorf("Payload = %s, want original", got.Payload)
	}
	if got.State != job.StateWaiting {
		t.Errorf("State = %q, want waiting", got.State)
	}
}

func TestEnqueue_DuplicateID(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	j := newWaitingJob("email", "sendEmail", nil)
	if err := s.EnqueueJob(ctx, j); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}
	if err := s.EnqueueJob(ctx, j); !errors.Is(err, taskq.ErrJobAlreadyExists) {
		t.Errorf("second EnqueueJob error = %v, want ErrJobAlreadyExists", err)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	s := memory.New()
	_, err := s.GetJob(context.Background(), "email", id.NewJobID())
	if !errors.Is(err, taskq.ErrJobNotFound) {
		t.Errorf("GetJob error = %v, want ErrJobNotFound", err)
	}
}

func TestRemoveJob_IdempotentWhenAbsent(t *testing.T) {
	s := memory.New()
	if err := s.RemoveJob(context.Background(), "email", id.NewJobID()); err != nil {
		t.Errorf("RemoveJob on absent job = %v, want nil", err)
	}
}

func TestDequeue_FIFOAndClaim(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first := newWaitingJob("email", "sendEmail", []byte(`1`))
	second := newWaitingJob("email", "sendEmail", []byte(`2`))
	third := newWaitingJob("email", "sendEmail", []byte(`3`))
	for _, j := range []*job.Job{first, second, third} {
		if err := s.EnqueueJob(ctx, j); err != nil {
			t.Fatalf("EnqueueJob: %v", err)
		}
	}

	claimed, err := s.DequeueJobs(ctx, "email", 2)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d jobs, want 2", len(claimed))
	}
	if claimed[0].ID != first.ID || claimed[1].ID != second.ID {
		t.Error("claimed jobs out of FIFO order")
	}
	for _, j := range claimed {
		if j.State != job.StateActive {
			t.Errorf("claimed job state = %q, want active", j.State)
		}
		if j.ProcessedAt == nil {
			t.Error("claimed job has nil ProcessedAt")
		}
	}

	// Third remains waiting and is claimed next.
	rest, err := s.DequeueJobs(ctx, "email", 10)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != third.ID {
		t.Errorf("second dequeue = %d jobs, want the third job only", len(rest))
	}
}

func TestDequeue_DelayedNotEligibleUntilDue(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	j := newWaitingJob("email", "sendEmail", nil)
	j.State = job.StateDelayed
	j.RunAt = time.Now().UTC().Add(time.Hour)
	if err := s.EnqueueJob(ctx, j); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	claimed, err := s.DequeueJobs(ctx, "email", 10)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("claimed %d jobs, want 0 (delayed job not due)", len(claimed))
	}

	// Make the job due and dequeue again.
	j.RunAt = time.Now().UTC().Add(-time.Second)
	if err := s.UpdateJob(ctx, j); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	claimed, err = s.DequeueJobs(ctx, "email", 10)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != j.ID {
		t.Fatalf("claimed %d jobs after due, want the delayed job", len(claimed))
	}
}

func TestUpdateJob_RetryRejoinsTail(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first := newWaitingJob("email", "sendEmail", nil)
	if err := s.EnqueueJob(ctx, first); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	claimed, err := s.DequeueJobs(ctx, "email", 1)
	if err != nil || len(claimed) != 1 {
		t.Fatalf("DequeueJobs: %v (%d claimed)", err, len(claimed))
	}

	// Another job arrives while the first is active.
	second := newWaitingJob("email", "sendEmail", nil)
	if err := s.EnqueueJob(ctx, second); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	// Retry the first: back to waiting, should now sit behind the second.
	retried := claimed[0]
	retried.State = job.StateWaiting
	if err := s.UpdateJob(ctx, retried); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	order, err := s.DequeueJobs(ctx, "email", 2)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(order) != 2 || order[0].ID != second.ID || order[1].ID != retried.ID {
		t.Error("retried job did not rejoin the FIFO tail")
	}
}

func TestCountJobsByState(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	for range 3 {
		if err := s.EnqueueJob(ctx, newWaitingJob("sms", "sendSms", nil)); err != nil {
			t.Fatalf("EnqueueJob: %v", err)
		}
	}
	failed := newWaitingJob("sms", "sendSms", nil)
	failed.State = job.StateFailed
	if err := s.EnqueueJob(ctx, failed); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	counts, err := s.CountJobsByState(ctx, "sms")
	if err != nil {
		t.Fatalf("CountJobsByState: %v", err)
	}
	if counts[job.StateWaiting] != 3 {
		t.Errorf("waiting = %d, want 3", counts[job.StateWaiting])
	}
	if counts[job.StateFailed] != 1 {
		t.Errorf("failed = %d, want 1", counts[job.StateFailed])
	}
	if counts[job.StateActive] != 0 {
		t.Errorf("active = %d, want 0", counts[job.StateActive])
	}

	// Every state is present even for an empty queue.
	empty, err := s.CountJobsByState(ctx, "webhook")
	if err != nil {
		t.Fatalf("CountJobsByState(empty): %v", err)
	}
	if len(empty) != len(job.States()) {
		t.Errorf("empty queue counts has %d states, want %d", len(empty), len(job.States()))
	}
}

func TestListJobsByState_FIFOWithLimit(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	var ids []id.JobID
	for range 5 {
		j := newWaitingJob("dlq", "deadLetter", nil)
		if err := s.EnqueueJob(ctx, j); err != nil {
			t.Fatalf("EnqueueJob: %v", err)
		}
		ids = append(ids, j.ID)
	}

	got, err := s.ListJobsByState(ctx, "dlq", job.StateWaiting, 3)
	if err != nil {
		t.Fatalf("ListJobsByState: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("listed %d jobs, want 3", len(got))
	}
	for i := range got {
		if got[i].ID != ids[i] {
			t.Errorf("list[%d] = %s, want %s (FIFO)", i, got[i].ID, ids[i])
		}
	}
}

func TestQueuesAreIsolated(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	j := newWaitingJob("email", "sendEmail", nil)
	if err := s.EnqueueJob(ctx, j); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	if _, err := s.GetJob(ctx, "sms", j.ID); !errors.Is(err, taskq.ErrJobNotFound) {
		t.Errorf("GetJob on wrong queue = %v, want ErrJobNotFound", err)
	}
	claimed, err := s.DequeueJobs(ctx, "sms", 10)
	if err != nil {
		t.Fatalf("DequeueJobs: %v", err)
	}
	if len(claimed) != 0 {
		t.Errorf("dequeued %d jobs from the wrong queue, want 0", len(claimed))
	}
}

func TestClosedStore_RejectsOperations(t *testing.T) {
	s := memory.New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, taskq.ErrStoreClosed) {
		t.Errorf("Ping after Close = %v, want ErrStoreClosed", err)
	}
	if err := s.EnqueueJob(context.Background(), newWaitingJob("email", "sendEmail", nil)); !errors.Is(err, taskq.ErrStoreClosed) {
		t.Errorf("EnqueueJob after Close = %v, want ErrStoreClosed", err)
	}
}
