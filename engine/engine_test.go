package engine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/backoff"
	"github.com/kocayazbey/AyazTrade-sub002/engine"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/metrics"
	"github.com/kocayazbey/AyazTrade-sub002/store/memory"
)

type emailPayload struct {
	To string `json:"to"`
}

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	cfg := taskq.DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.CollectInterval = 20 * time.Millisecond

	d, err := taskq.New(
		taskq.WithStore(memory.New()),
		taskq.WithConfig(cfg),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng, err := engine.Build(d, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return eng
}

func startEngine(t *testing.T, eng *engine.Engine) {
	t.Helper()
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = eng.Stop(ctx)
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestEngine_EnqueueAndProcess(t *testing.T) {
	eng := newEngine(t)

	var got atomic.Value
	err := engine.Register(eng, job.NewDefinition(taskq.QueueEmail, "sendEmail",
		func(_ context.Context, p emailPayload) error {
			got.Store(p.To)
			return nil
		}))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	startEngine(t, eng)

	j, err := engine.Enqueue(context.Background(), eng, taskq.QueueEmail, "sendEmail",
		emailPayload{To: "ops@example.com"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j.Queue != taskq.QueueEmail || j.State != job.StateWaiting {
		t.Errorf("job = %s/%s, want email/waiting", j.Queue, j.State)
	}
	if j.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want registry default 3", j.MaxAttempts)
	}

	waitFor(t, 2*time.Second, func() bool {
		v, _ := got.Load().(string)
		return v == "ops@example.com"
	})

	waitFor(t, 2*time.Second, func() bool {
		stored, err := eng.GetJob(context.Background(), taskq.QueueEmail, j.ID)
		return err == nil && stored.State == job.StateCompleted
	})
}

// replayHook records bulk replay notifications.
type replayHook struct {
	replayed atomic.Int64
}

func (h *replayHook) Name() string { return "replay-recorder" }

func (h *replayHook) OnDLQReplayed(_ context.Context, retried int) error {
	h.replayed.Add(int64(retried))
	return nil
}

func TestEngine_ExhaustedJobLandsInDLQAndReplays(t *testing.T) {
	rh := &replayHook{}
	eng := newEngine(t, engine.WithHook(rh))

	var fail atomic.Bool
	fail.Store(true)
	err := engine.Register(eng, job.NewDefinition(taskq.QueueEmail, "sendEmail",
		func(_ context.Context, _ emailPayload) error {
			if fail.Load() {
				return errors.New("smtp unavailable")
			}
			return nil
		},
		job.WithAttempts(2),
		job.WithBackoff(backoff.Fixed(time.Millisecond)),
	))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	startEngine(t, eng)

	j, err := engine.Enqueue(context.Background(), eng, taskq.QueueEmail, "sendEmail",
		emailPayload{To: "ops@example.com"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j.MaxAttempts != 2 {
		t.Fatalf("MaxAttempts = %d, want 2", j.MaxAttempts)
	}

	// Two failed attempts exhaust the budget and produce one dead letter.
	waitFor(t, 3*time.Second, func() bool {
		entries, err := eng.ListDLQ(context.Background(), 10)
		return err == nil && len(entries) == 1
	})
	stored, err := eng.GetJob(context.Background(), taskq.QueueEmail, j.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if stored.State != job.StateFailed {
		t.Errorf("State = %q, want failed", stored.State)
	}

	// The outage is over; replay the batch.
	fail.Store(false)
	retried, err := eng.RetryFromDLQ(context.Background(), 50)
	if err != nil {
		t.Fatalf("RetryFromDLQ: %v", err)
	}
	if retried != 1 {
		t.Errorf("RetryFromDLQ = %d, want 1", retried)
	}
	if rh.replayed.Load() != 1 {
		t.Errorf("replay hook saw %d jobs, want 1", rh.replayed.Load())
	}

	entries, err := eng.ListDLQ(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListDLQ: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("DLQ holds %d entries after replay, want 0", len(entries))
	}

	// The replayed copy runs on the original queue and completes.
	waitFor(t, 3*time.Second, func() bool {
		counts, err := eng.QueueCounts(context.Background(), taskq.QueueEmail)
		return err == nil && counts[job.StateCompleted] == 1 && counts[job.StateFailed] == 1
	})
}

func TestEngine_RetryFromDLQZeroLimitIsNoOp(t *testing.T) {
	eng := newEngine(t)

	retried, err := eng.RetryFromDLQ(context.Background(), 0)
	if err != nil {
		t.Fatalf("RetryFromDLQ: %v", err)
	}
	if retried != 0 {
		t.Errorf("RetryFromDLQ = %d, want 0", retried)
	}
}

func TestEngine_EnqueueUnknownQueue(t *testing.T) {
	eng := newEngine(t)

	_, err := engine.Enqueue(context.Background(), eng, "bulk-export", "export",
		emailPayload{})
	if !errors.Is(err, taskq.ErrUnknownQueue) {
		t.Fatalf("Enqueue error = %v, want ErrUnknownQueue", err)
	}
}

func TestRegister_UnknownQueue(t *testing.T) {
	eng := newEngine(t)

	err := engine.Register(eng, job.NewDefinition("bulk-export", "export",
		func(_ context.Context, _ emailPayload) error { return nil }))
	if !errors.Is(err, taskq.ErrUnknownQueue) {
		t.Fatalf("Register error = %v, want ErrUnknownQueue", err)
	}
}

func TestEngine_DelayedEnqueue(t *testing.T) {
	eng := newEngine(t)

	before := time.Now().UTC()
	j, err := engine.Enqueue(context.Background(), eng, taskq.QueueEmail, "sendEmail",
		emailPayload{To: "later@example.com"}, job.WithDelay(time.Hour))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j.State != job.StateDelayed {
		t.Errorf("State = %q, want delayed", j.State)
	}
	if j.RunAt.Before(before.Add(59 * time.Minute)) {
		t.Errorf("RunAt = %v, want about an hour out", j.RunAt)
	}
}

func TestEngine_MoveToDLQ(t *testing.T) {
	eng := newEngine(t)

	j, err := engine.Enqueue(context.Background(), eng, taskq.QueuePayments, "processPayment",
		emailPayload{})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	dead, err := eng.MoveToDLQ(context.Background(), taskq.QueuePayments, j.ID, "manual quarantine")
	if err != nil {
		t.Fatalf("MoveToDLQ: %v", err)
	}
	if dead.Queue != taskq.QueueDLQ {
		t.Errorf("dead letter queue = %q, want dlq", dead.Queue)
	}

	if _, err := eng.GetJob(context.Background(), taskq.QueuePayments, j.ID); !errors.Is(err, taskq.ErrJobNotFound) {
		t.Errorf("GetJob after move = %v, want ErrJobNotFound", err)
	}
	entries, err := eng.ListDLQ(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListDLQ: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("DLQ holds %d entries, want 1", len(entries))
	}
}

func TestEngine_ConcurrentEnqueueDistinctIDs(t *testing.T) {
	eng := newEngine(t)

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := engine.Enqueue(context.Background(), eng, taskq.QueueWebhook, "deliverWebhook",
				emailPayload{})
			if err != nil {
				t.Errorf("Enqueue: %v", err)
				return
			}
			ids <- j.ID.String()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for jid := range ids {
		if seen[jid] {
			t.Errorf("duplicate job ID %s", jid)
		}
		seen[jid] = true
	}
	if len(seen) != n {
		t.Errorf("enqueued %d distinct jobs, want %d", len(seen), n)
	}
}

func TestEngine_HealthAfterStart(t *testing.T) {
	eng := newEngine(t)
	startEngine(t, eng)

	waitFor(t, 2*time.Second, func() bool {
		h, ok := eng.QueueHealth(taskq.QueueEmail)
		return ok && h.Verdict == metrics.VerdictHealthy
	})

	snapshot := eng.Health()
	for _, q := range eng.Queues() {
		if _, ok := snapshot[q]; !ok {
			t.Errorf("health snapshot missing queue %q", q)
		}
	}
}
