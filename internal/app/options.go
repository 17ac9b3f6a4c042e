package service

import (
	"time"

	"github.com/okian/teamiq/internal/adapters/cache"
	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/scenario"
	"github.com/okian/teamiq/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJobRetention caps how many job records are kept.
func WithJobRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jobRetention = n
		}
	}
}

// WithJobTimeout bounds a single background analysis.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheConfig selects the result cache backend built at Start.
func WithCacheConfig(cfg cache.Config) Option {
	return func(s *Service) {
		s.cacheConfig = cfg
	}
}

// WithCache uses c instead of building one from the cache config.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithCatalog sets the skills and services used when requests carry none.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithReadinessOptions tunes the readiness scorer.
func WithReadinessOptions(opts ...readiness.Option) Option {
	return func(s *Service) {
		s.readinessOpts = append(s.readinessOpts, opts...)
	}
}

// WithDevelopmentLimit caps the development priorities in a report.
func WithDevelopmentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.developmentLimit = n
		}
	}
}

// WithAssumptions sets the financial assumptions of scenario projections.
func WithAssumptions(a scenario.Assumptions) Option {
	return func(s *Service) {
		s.assumptions = &a
	}
}
