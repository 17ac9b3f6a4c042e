// Package service wires the analysis engine, result cache, job store, queue
// and worker pool into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/teamiq/internal/adapters/cache"
	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/adapters/mq/queue"
	"github.com/okian/teamiq/internal/adapters/mq/worker"
	"github.com/okian/teamiq/internal/adapters/repository"
	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/scenario"
	"github.com/okian/teamiq/pkg/logger"
	"github.com/okian/teamiq/pkg/metrics"
	"github.com/okian/teamiq/pkg/tracing"
)

const (
	defaultQueueSize    = 1024
	defaultJobRetention = 10_000
	defaultJobTimeout   = 30 * time.Second
)

// Service implements the API dependencies for the analytics engine.
type Service struct {
	mu      sync.Mutex
	started atomic.Bool

	// Core components
	catalog *catalog.Catalog
	cache   cache.Cache
	engine  *analysis.Engine
	store   *repository.MemoryStore
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// Configuration
	workerCount      int
	queueSize        int
	jobRetention     int
	jobTimeout       time.Duration
	cacheConfig      cache.Config
	builtCache       bool
	readinessOpts    []readiness.Option
	developmentLimit int
	assumptions      *scenario.Assumptions

	cancel context.CancelFunc
	logger logger.Logger
}

// New constructs a Service. Nothing runs until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        defaultQueueSize,
		jobRetention:     defaultJobRetention,
		jobTimeout:       defaultJobTimeout,
		cacheConfig:      cache.Config{Backend: cache.BackendMemory},
		developmentLimit: readiness.DefaultDevelopmentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the worker pool. Calling it on a
// running service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.catalog = c
	}
	if s.cache == nil || s.builtCache {
		c, err := cache.New(s.cacheConfig)
		if err != nil {
			return fmt.Errorf("build cache: %w", err)
		}
		s.cache, s.builtCache = c, true
	}

	s.logger.Info(ctx, "starting analytics service...")

	projectorOpts := []scenario.Option{}
	if s.assumptions != nil {
		projectorOpts = append(projectorOpts, scenario.WithAssumptions(*s.assumptions))
	}
	s.engine = analysis.NewEngine(
		analysis.WithScorer(readiness.New(s.readinessOpts...)),
		analysis.WithProjector(scenario.New(projectorOpts...)),
		analysis.WithDevelopmentLimit(s.developmentLimit),
		analysis.WithCatalog(s.catalog.Skills, s.catalog.Services),
		analysis.WithObserver(observer{}),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.store = repository.NewMemoryStore(runCtx, repository.WithRetention(s.jobRetention))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, analyzerFunc(s.analyze), s.store,
		worker.WithJobTimeout(s.jobTimeout),
	)
	s.pool.Start(runCtx)

	s.started.Store(true)
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("jobRetention", s.jobRetention),
		logger.String("cache", s.cache.Backend()),
		logger.Int("services", len(s.catalog.Services)),
	)
	return nil
}

// Stop rejects new jobs, drains the queue and releases the cache.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}
	s.logger.Info(ctx, "stopping analytics service...")
	s.started.Store(false)

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if err := s.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}

	s.logger.Info(ctx, "analytics service stopped")
	return errors.Join(errs...)
}

// Analyze returns the report for in, from cache when the same input was
// analyzed before.
func (s *Service) Analyze(ctx context.Context, in analysis.Input) (analysis.Report, error) { //nolint:gocritic // hugeParam: interface signature
	if !s.started.Load() {
		return analysis.Report{}, ErrNotStarted
	}
	return s.analyze(ctx, in)
}

func (s *Service) analyze(ctx context.Context, in analysis.Input) (analysis.Report, error) { //nolint:gocritic // hugeParam: interface signature
	ctx, span := tracing.Start(ctx, "service.Analyze", attribute.String("practice_id", in.PracticeID))
	defer span.End()

	key, err := s.engine.Fingerprint(in)
	if err != nil {
		tracing.Fail(span, err)
		return analysis.Report{}, fmt.Errorf("fingerprint input: %w", err)
	}
	span.SetAttributes(attribute.String("fingerprint", key))

	if rep, err := s.cache.Get(ctx, key); err == nil {
		metrics.RecordAnalysis(analysis.Component, "cached")
		span.SetAttributes(attribute.Bool("cached", true))
		return rep, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn(ctx, "cache lookup failed", logger.String("key", key), logger.Error(err))
	}

	if err := ctx.Err(); err != nil {
		tracing.Fail(span, err)
		return analysis.Report{}, err
	}
	rep := s.engine.Analyze(ctx, in)
	record(&rep)

	if err := s.cache.Set(ctx, key, rep); err != nil {
		s.logger.Warn(ctx, "cache store failed", logger.String("key", key), logger.Error(err))
	}
	return rep, nil
}

// record publishes the business metrics of a fresh report.
func record(rep *analysis.Report) {
	outcome := "ok"
	if rep.Incomplete {
		outcome = "incomplete"
	}
	metrics.RecordAnalysis(analysis.Component, outcome)

	if rep.Readiness != nil {
		for _, r := range rep.Readiness.Results {
			metrics.ObserveReadiness(r.ReadinessPercent)
		}
		for _, u := range rep.Readiness.Unavailable {
			metrics.RecordUnavailable(unavailableReason(u))
		}
		if rep.Readiness.Err != nil {
			metrics.RecordUnavailable(unavailableReason(rep.Readiness.Err))
		}
	}
	if rep.FounderRisk != nil {
		metrics.RecordRiskLevel(rep.FounderRisk.Level)
	}
}

func unavailableReason(err error) string {
	switch {
	case errors.Is(err, readiness.ErrNoMembers):
		return "no_members"
	case errors.Is(err, readiness.ErrServiceNotDefined):
		return "service_not_defined"
	default:
		return "other"
	}
}

// Submit records a queued job and hands it to the worker pool. When the
// queue rejects it the record is removed and the queue error returned.
func (s *Service) Submit(ctx context.Context, in analysis.Input) (repository.Record, error) { //nolint:gocritic // hugeParam: interface signature
	if !s.started.Load() {
		return repository.Record{}, ErrNotStarted
	}

	key, err := s.engine.Fingerprint(in)
	if err != nil {
		return repository.Record{}, fmt.Errorf("fingerprint input: %w", err)
	}
	job := analysis.Job{
		ID:          uuid.NewString(),
		PracticeID:  in.PracticeID,
		Input:       in,
		SubmittedAt: time.Now().UTC(),
	}
	rec, err := s.store.Create(ctx, job, key)
	if err != nil {
		return repository.Record{}, fmt.Errorf("record job: %w", err)
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		if rerr := s.store.Remove(ctx, job.ID); rerr != nil {
			s.logger.Error(ctx, "removing rejected job failed", logger.String("jobID", job.ID), logger.Error(rerr))
		}
		s.logger.Warn(ctx, "job rejected", logger.String("jobID", job.ID), logger.Error(err))
		return repository.Record{}, fmt.Errorf("submit job: %w", err)
	}
	metrics.RecordJob(string(repository.StatusQueued))
	s.logger.Debug(ctx, "job queued",
		logger.String("jobID", job.ID),
		logger.String("practiceID", job.PracticeID),
		logger.String("fingerprint", key),
	)
	return rec, nil
}

// Job returns the current record of a submitted job.
func (s *Service) Job(ctx context.Context, id string) (repository.Record, error) {
	if !s.started.Load() {
		return repository.Record{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Catalog returns the catalog used when requests carry none. Before Start
// it is the configured catalog or the embedded default.
func (s *Service) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil {
		return s.catalog
	}
	c, err := catalog.Default()
	if err != nil {
		return &catalog.Catalog{}
	}
	return c
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":      s.started.Load(),
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"jobRetention": s.jobRetention,
	}
	if !s.started.Load() {
		return stats
	}

	queueLen := s.queue.Len()
	stats["workers"] = s.pool.Size()
	stats["queueLength"] = queueLen
	stats["queueCapacity"] = s.queue.Capacity()
	stats["jobsStored"] = s.store.Count(ctx)
	jobs := make(map[string]int)
	for status, n := range s.store.Counts(ctx) {
		jobs[string(status)] = n
	}
	stats["jobs"] = jobs
	stats["cacheBackend"] = s.cache.Backend()
	stats["cacheEntries"] = s.cache.Len(ctx)

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateJobsStored(s.store.Count(ctx))
	return stats
}

// analyzerFunc adapts a function to worker.Analyzer.
type analyzerFunc func(ctx context.Context, in analysis.Input) (analysis.Report, error)

func (f analyzerFunc) Analyze(ctx context.Context, in analysis.Input) (analysis.Report, error) { //nolint:gocritic // hugeParam: interface signature
	return f(ctx, in)
}
