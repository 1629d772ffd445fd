package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/backoff"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// stateScore computes the Sorted Set score for a job entering a state.
// Waiting jobs are scored by enqueue time so dequeue order is FIFO;
// delayed jobs by their run-at time so due jobs can be promoted with a
// range scan. Everything else is scored by transition time.
func stateScore(j *job.Job, now time.Time) float64 {
	switch j.State {
	case job.StateWaiting:
		return float64(now.UnixMilli())
	case job.StateDelayed:
		return float64(j.RunAt.UnixMilli())
	default:
		return float64(now.UnixMilli())
	}
}

// EnqueueJob stores the job as a Hash and adds it to the state set of
// its queue.
func (s *Store) EnqueueJob(ctx context.Context, j *job.Job) error {
	jID := j.ID.String()
	key := jobKey(j.Queue, jID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("taskq/redis: enqueue check exists: %w", err)
	}
	if exists > 0 {
		return taskq.ErrJobAlreadyExists
	}

	now := time.Now().UTC()
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, jobToMap(j))
	pipe.ZAdd(ctx, stateKey(j.Queue, string(j.State)), goredis.Z{
		Score:  stateScore(j, now),
		Member: jID,
	})
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("taskq/redis: enqueue job: %w", err)
	}
	return nil
}

// DequeueJobs promotes due delayed jobs into the waiting set, then
// atomically claims up to limit waiting jobs in FIFO order and marks
// them active.
func (s *Store) DequeueJobs(ctx context.Context, queue string, limit int) ([]*job.Job, error) {
	if limit <= 0 {
		return nil, nil
	}
	now := time.Now().UTC()

	if err := s.promoteDelayed(ctx, queue, now); err != nil {
		return nil, err
	}

	waiting := stateKey(queue, string(job.StateWaiting))
	members, err := s.client.ZPopMin(ctx, waiting, int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("taskq/redis: dequeue zpopmin: %w", err)
	}

	claimed := make([]*job.Job, 0, len(members))
	for _, z := range members {
		jID, ok := z.Member.(string)
		if !ok {
			continue
		}

		key := jobKey(queue, jID)
		pipe := s.client.TxPipeline()
		pipe.HSet(ctx, key,
			"state", string(job.StateActive),
			"processed_at", now.Format(time.RFC3339Nano),
		)
		pipe.ZAdd(ctx, stateKey(queue, string(job.StateActive)), goredis.Z{
			Score:  float64(now.UnixMilli()),
			Member: jID,
		})
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			return nil, fmt.Errorf("taskq/redis: dequeue claim: %w", pErr)
		}

		j, getErr := s.getJobByKey(ctx, key)
		if getErr != nil {
			if errors.Is(getErr, taskq.ErrJobNotFound) {
				continue // removed between pop and load
			}
			return nil, getErr
		}
		claimed = append(claimed, j)
	}
	return claimed, nil
}

// promoteDelayed moves delayed jobs whose run-at time has passed into
// the waiting set. Promoted jobs join the FIFO tail.
func (s *Store) promoteDelayed(ctx context.Context, queue string, now time.Time) error {
	delayed := stateKey(queue, string(job.StateDelayed))
	due, err := s.client.ZRangeByScore(ctx, delayed, &goredis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return fmt.Errorf("taskq/redis: promote delayed range: %w", err)
	}

	for _, jID := range due {
		pipe := s.client.TxPipeline()
		pipe.ZRem(ctx, delayed, jID)
		pipe.ZAdd(ctx, stateKey(queue, string(job.StateWaiting)), goredis.Z{
			Score:  float64(now.UnixMilli()),
			Member: jID,
		})
		pipe.HSet(ctx, jobKey(queue, jID), "state", string(job.StateWaiting))
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			return fmt.Errorf("taskq/redis: promote delayed: %w", pErr)
		}
	}
	return nil
}

// GetJob retrieves a job by queue and ID.
func (s *Store) GetJob(ctx context.Context, queue string, jobID id.JobID) (*job.Job, error) {
	return s.getJobByKey(ctx, jobKey(queue, jobID.String()))
}

// UpdateJob persists changes to an existing job, moving it between state
// sets when its state changed.
func (s *Store) UpdateJob(ctx context.Context, j *job.Job) error {
	jID := j.ID.String()
	key := jobKey(j.Queue, jID)

	prev, err := s.client.HGet(ctx, key, "state").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return taskq.ErrJobNotFound
		}
		return fmt.Errorf("taskq/redis: update job get state: %w", err)
	}

	now := time.Now().UTC()
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, jobToMap(j))
	if prev != string(j.State) {
		pipe.ZRem(ctx, stateKey(j.Queue, prev), jID)
		pipe.ZAdd(ctx, stateKey(j.Queue, string(j.State)), goredis.Z{
			Score:  stateScore(j, now),
			Member: jID,
		})
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("taskq/redis: update job: %w", err)
	}
	return nil
}

// RemoveJob deletes a job; no-op when absent.
func (s *Store) RemoveJob(ctx context.Context, queue string, jobID id.JobID) error {
	jID := jobID.String()
	key := jobKey(queue, jID)

	state, err := s.client.HGet(ctx, key, "state").Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("taskq/redis: remove job get state: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, stateKey(queue, state), jID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("taskq/redis: remove job: %w", err)
	}
	return nil
}

// ListJobsByState returns up to limit jobs in the given state, ordered
// by their state-set score (FIFO for waiting jobs).
func (s *Store) ListJobsByState(ctx context.Context, queue string, state job.State, limit int) ([]*job.Job, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := s.client.ZRange(ctx, stateKey(queue, string(state)), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("taskq/redis: list jobs zrange: %w", err)
	}

	jobs := make([]*job.Job, 0, len(ids))
	for _, jID := range ids {
		j, getErr := s.getJobByKey(ctx, jobKey(queue, jID))
		if getErr != nil {
			continue // skip entries removed mid-scan
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// CountJobsByState returns per-state job counts for a queue. Every state
// appears in the result.
func (s *Store) CountJobsByState(ctx context.Context, queue string) (map[job.State]int64, error) {
	states := job.States()
	pipe := s.client.Pipeline()
	cards := make([]*goredis.IntCmd, len(states))
	for i, st := range states {
		cards[i] = pipe.ZCard(ctx, stateKey(queue, string(st)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("taskq/redis: count jobs: %w", err)
	}

	counts := make(map[job.State]int64, len(states))
	for i, st := range states {
		counts[st] = cards[i].Val()
	}
	return counts, nil
}

// ── helpers ──

func jobToMap(j *job.Job) map[string]interface{} {
	m := map[string]interface{}{
		"id":            j.ID.String(),
		"queue":         j.Queue,
		"name":          j.Name,
		"payload":       string(j.Payload),
		"state":         string(j.State),
		"attempts_made": strconv.Itoa(j.AttemptsMade),
		"max_attempts":  strconv.Itoa(j.MaxAttempts),
		"backoff":       marshalJSON(j.Backoff),
		"last_error":    j.LastError,
		"run_at":        j.RunAt.Format(time.RFC3339Nano),
		"enqueued_at":   j.EnqueuedAt.Format(time.RFC3339Nano),
		"timeout":       strconv.FormatInt(int64(j.Timeout), 10),
	}
	if j.ProcessedAt != nil {
		m["processed_at"] = j.ProcessedAt.Format(time.RFC3339Nano)
	}
	if j.FinishedAt != nil {
		m["finished_at"] = j.FinishedAt.Format(time.RFC3339Nano)
	}
	return m
}

func (s *Store) getJobByKey(ctx context.Context, key string) (*job.Job, error) {
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("taskq/redis: get job: %w", err)
	}
	if len(vals) == 0 {
		return nil, taskq.ErrJobNotFound
	}
	return mapToJob(vals)
}

func mapToJob(m map[string]string) (*job.Job, error) {
	jID, err := id.ParseJobID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("taskq/redis: parse job id: %w", err)
	}

	attemptsMade, _ := strconv.Atoi(m["attempts_made"])  //nolint:errcheck // best-effort parse from trusted Redis data
	maxAttempts, _ := strconv.Atoi(m["max_attempts"])    //nolint:errcheck // best-effort parse from trusted Redis data
	timeout, _ := strconv.ParseInt(m["timeout"], 10, 64) //nolint:errcheck // best-effort parse from trusted Redis data

	runAt, _ := time.Parse(time.RFC3339Nano, m["run_at"])           //nolint:errcheck // best-effort parse from trusted Redis data
	enqueuedAt, _ := time.Parse(time.RFC3339Nano, m["enqueued_at"]) //nolint:errcheck // best-effort parse from trusted Redis data

	var policy backoff.Policy
	_ = json.Unmarshal([]byte(m["backoff"]), &policy) //nolint:errcheck // best-effort parse from trusted Redis data

	j := &job.Job{
		ID:           jID,
		Queue:        m["queue"],
		Name:         m["name"],
		Payload:      []byte(m["payload"]),
		State:        job.State(m["state"]),
		AttemptsMade: attemptsMade,
		MaxAttempts:  maxAttempts,
		Backoff:      policy,
		LastError:    m["last_error"],
		RunAt:        runAt,
		EnqueuedAt:   enqueuedAt,
		Timeout:      time.Duration(timeout),
	}

	if v := m["processed_at"]; v != "" {
		t, _ := time.Parse(time.RFC3339Nano, v) //nolint:errcheck // best-effort parse from trusted Redis data
		j.ProcessedAt = &t
	}
	if v := m["finished_at"]; v != "" {
		t, _ := time.Parse(time.RFC3339Nano, v) //nolint:errcheck // best-effort parse from trusted Redis data
		j.FinishedAt = &t
	}
	return j, nil
}

// marshalJSON is a helper to marshal to a JSON string.
func marshalJSON(v interface{}) string {
	b, _ := json.Marshal(v) //nolint:errcheck // marshal should not fail for basic types
	return string(b)
}
