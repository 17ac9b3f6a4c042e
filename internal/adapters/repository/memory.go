package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/pkg/metrics"
)

const (
	defaultRetention             = 10_000
	defaultMetricsUpdateInterval = 5 * time.Second
)

// node is one record in submission order.
type node struct {
	rec        Record
	prev, next *node
}

func (n *node) reset() {
	*n = node{}
}

// MemoryStore is an in-memory Store. Records are kept in a doubly linked
// list in submission order so eviction can walk from the oldest.
type MemoryStore struct {
	mu        sync.RWMutex
	byID      map[string]*node
	head      *node // oldest
	tail      *node // newest
	retention int
	nodePool  sync.Pool
	now       func() time.Time

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
}

// NewMemoryStore creates a store and starts its metrics updater, which
// stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*node),
		retention:             defaultRetention,
		now:                   time.Now,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	s.nodePool = sync.Pool{New: func() any { return &node{} }}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateJobsStored(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Create records a queued job.
func (s *MemoryStore) Create(ctx context.Context, job analysis.Job, fingerprint string) (Record, error) { //nolint:gocritic // hugeParam: Job is a value type
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[job.ID]; exists {
		return Record{}, fmt.Errorf("%w: %s", ErrDuplicate, job.ID)
	}
	submitted := job.SubmittedAt
	if submitted.IsZero() {
		submitted = s.now()
	}

	n := s.nodePool.Get().(*node)
	n.rec = Record{
		ID:          job.ID,
		PracticeID:  job.PracticeID,
		Status:      StatusQueued,
		Fingerprint: fingerprint,
		SubmittedAt: submitted.UTC(),
	}
	s.pushBack(n)
	s.byID[job.ID] = n
	s.evict()
	return n.rec, nil
}

// MarkRunning moves a queued job to running.
func (s *MemoryStore) MarkRunning(ctx context.Context, id string) error {
	return s.update(id, func(r *Record) {
		t := s.now().UTC()
		r.Status = StatusRunning
		r.StartedAt = &t
	})
}

// Complete stores the report of a job.
func (s *MemoryStore) Complete(ctx context.Context, id string, rep analysis.Report) error { //nolint:gocritic // hugeParam: report is stored by value
	return s.update(id, func(r *Record) {
		t := s.now().UTC()
		r.Status = StatusCompleted
		r.CompletedAt = &t
		r.Report = &rep
		if r.Fingerprint == "" {
			r.Fingerprint = rep.Fingerprint
		}
	})
}

// Fail records why a job could not finish.
func (s *MemoryStore) Fail(ctx context.Context, id string, cause error) error {
	return s.update(id, func(r *Record) {
		t := s.now().UTC()
		r.Status = StatusFailed
		r.CompletedAt = &t
		if cause != nil {
			r.Error = cause.Error()
		}
	})
}

func (s *MemoryStore) update(id string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if n.rec.Status.Finished() {
		return fmt.Errorf("%w: %s", ErrFinished, id)
	}
	fn(&n.rec)
	return nil
}

// Remove deletes a job record.
func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.unlink(n)
	return nil
}

// Get returns a copy of a job record.
func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.rec, nil
}

// List returns up to limit jobs, newest first.
func (s *MemoryStore) List(ctx context.Context, practiceID string, limit int) ([]Record, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, min(limit, len(s.byID)))
	for n := s.tail; n != nil && len(out) < limit; n = n.prev {
		if practiceID == "" || n.rec.PracticeID == practiceID {
			out = append(out, n.rec)
		}
	}
	return out, nil
}

// Count returns the number of stored jobs.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Counts returns the number of stored jobs per status.
func (s *MemoryStore) Counts(ctx context.Context) map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[Status]int{StatusQueued: 0, StatusRunning: 0, StatusCompleted: 0, StatusFailed: 0}
	for _, n := range s.byID {
		out[n.rec.Status]++
	}
	return out
}

func (s *MemoryStore) pushBack(n *node) {
	n.prev, n.next = s.tail, nil
	if s.tail != nil {
		s.tail.next = n
	} else {
		s.head = n
	}
	s.tail = n
}

// unlink removes n from the list and index and returns it to the pool.
func (s *MemoryStore) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	delete(s.byID, n.rec.ID)
	n.reset()
	s.nodePool.Put(n)
}

// evict drops the oldest finished jobs while over retention. Jobs still
// queued or running are never evicted.
func (s *MemoryStore) evict() {
	for n := s.head; n != nil && len(s.byID) > s.retention; {
		next := n.next
		if n.rec.Status.Finished() {
			s.unlink(n)
		}
		n = next
	}
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateJobsStored(s.Count(ctx))
			}
		}
	}()
}
