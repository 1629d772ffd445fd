// Package memory provides a fully in-memory store.Store implementation.
// Safe for concurrent access. Intended for unit testing and development;
// production deployments use the Redis backend.
package memory

import (
	"context"
	"sort"
	"time"

	"sync"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/id"
	"github.com/kocayazbey/AyazTrade-sub002/job"
	"github.com/kocayazbey/AyazTrade-sub002/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// jobRecord pairs a job with its enqueue sequence number, which defines
// FIFO order within the waiting set.
type jobRecord struct {
	job *job.Job
	seq uint64
}

// Store is an in-memory implementation of store.Store. A single mutex
// serializes all state transitions, mirroring the per-job locking the
// production broker provides.
type Store struct {
	mu      sync.RWMutex
	queues  map[string]map[string]*jobRecord // queue -> jobID -> record
	nextSeq uint64
	closed  bool
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		queues: make(map[string]map[string]*jobRecord),
	}
}

// Ping always succeeds for an open memory store.
func (m *Store) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return taskq.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Jobs are discarded.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queues = nil
	return nil
}

// EnqueueJob persists a new job.
func (m *Store) EnqueueJob(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return taskq.ErrStoreClosed
	}

	q := m.queues[j.Queue]
	if q == nil {
		q = make(map[string]*jobRecord)
		m.queues[j.Queue] = q
	}

	key := j.ID.String()
	if _, exists := q[key]; exists {
		return taskq.ErrJobAlreadyExists
	}

	cp := *j
	m.nextSeq++
	q[key] = &jobRecord{job: &cp, seq: m.nextSeq}
	return nil
}

// DequeueJobs promotes due delayed jobs, then claims up to limit waiting
// jobs in FIFO order, marking them active.
func (m *Store) DequeueJobs(_ context.Context, queue string, limit int) ([]*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, taskq.ErrStoreClosed
	}

	q := m.queues[queue]
	if q == nil || limit <= 0 {
		return nil, nil
	}

	now := time.Now().UTC()

	// Promote delayed jobs whose RunAt is due.
	for _, rec := range q {
		if rec.job.State == job.StateDelayed && !rec.job.RunAt.After(now) {
			rec.job.State = job.StateWaiting
		}
	}

	waiting := make([]*jobRecord, 0, limit)
	for _, rec := range q {
		if rec.job.State == job.StateWaiting {
			waiting = append(waiting, rec)
		}
	}
	sort.Slice(waiting, func(i, k int) bool {
		return waiting[i].seq < waiting[k].seq
	})
	if len(waiting) > limit {
		waiting = waiting[:limit]
	}

	claimed := make([]*job.Job, 0, len(waiting))
	for _, rec := range waiting {
		rec.job.State = job.StateActive
		started := now
		rec.job.ProcessedAt = &started
		cp := *rec.job
		claimed = append(claimed, &cp)
	}
	return claimed, nil
}

// GetJob retrieves a copy of a job.
func (m *Store) GetJob(_ context.Context, queue string, jobID id.JobID) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, taskq.ErrStoreClosed
	}

	rec := m.lookup(queue, jobID)
	if rec == nil {
		return nil, taskq.ErrJobNotFound
	}
	cp := *rec.job
	return &cp, nil
}

// UpdateJob persists changes to an existing job. The enqueue sequence is
// refreshed when the job re-enters the waiting or delayed state, so a
// retried job joins the FIFO tail rather than jumping the line.
func (m *Store) UpdateJob(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return taskq.ErrStoreClosed
	}

	rec := m.lookup(j.Queue, j.ID)
	if rec == nil {
		return taskq.ErrJobNotFound
	}

	reentered := (j.State == job.StateWaiting || j.State == job.StateDelayed) &&
		rec.job.State == job.StateActive
	cp := *j
	rec.job = &cp
	if reentered {
		m.nextSeq++
		rec.seq = m.nextSeq
	}
	return nil
}

// RemoveJob deletes a job; no-op when absent.
func (m *Store) RemoveJob(_ context.Context, queue string, jobID id.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return taskq.ErrStoreClosed
	}

	if q := m.queues[queue]; q != nil {
		delete(q, jobID.String())
	}
	return nil
}

// ListJobsByState returns up to limit jobs in the given state, in
// enqueue order.
func (m *Store) ListJobsByState(_ context.Context, queue string, state job.State, limit int) ([]*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, taskq.ErrStoreClosed
	}

	q := m.queues[queue]
	if q == nil {
		return nil, nil
	}

	matched := make([]*jobRecord, 0, len(q))
	for _, rec := range q {
		if rec.job.State == state {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, k int) bool {
		return matched[i].seq < matched[k].seq
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	jobs := make([]*job.Job, 0, len(matched))
	for _, rec := range matched {
		cp := *rec.job
		jobs = append(jobs, &cp)
	}
	return jobs, nil
}

// CountJobsByState returns per-state job counts for a queue. Every state
// appears in the result.
func (m *Store) CountJobsByState(_ context.Context, queue string) (map[job.State]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, taskq.ErrStoreClosed
	}

	counts := make(map[job.State]int64, len(job.States()))
	for _, st := range job.States() {
		counts[st] = 0
	}
	for _, rec := range m.queues[queue] {
		counts[rec.job.State]++
	}
	return counts, nil
}

// lookup must be called with the mutex held.
func (m *Store) lookup(queue string, jobID id.JobID) *jobRecord {
	q := m.queues[queue]
	if q == nil {
		return nil
	}
	return q[jobID.String()]
}
