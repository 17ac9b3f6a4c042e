// Package cache stores analysis reports by input fingerprint.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/pkg/metrics"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache maps a fingerprint to a report.
type Cache interface {
	// Get returns ErrMiss when key is not cached.
	Get(ctx context.Context, key string) (analysis.Report, error)
	Set(ctx context.Context, key string, rep analysis.Report) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) int
	Backend() string
	Close() error
}

// Config selects and sizes a backend.
type Config struct {
	Backend       string
	Size          int
	TTL           time.Duration
	KeyPrefix     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New builds the configured backend with request metrics.
func New(cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		c = NewMemory(cfg.Size, cfg.TTL)
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		c = NewRedis(client, cfg.KeyPrefix, cfg.TTL)
	case BackendNone:
		c = Noop{}
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c), nil
}

// Instrument records hit, miss and error counts for every Get.
func Instrument(c Cache) Cache {
	return instrumented{c}
}

type instrumented struct {
	Cache
}

func (i instrumented) Get(ctx context.Context, key string) (analysis.Report, error) {
	rep, err := i.Cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordCacheRequest(i.Backend(), "hit")
	case errors.Is(err, ErrMiss):
		metrics.RecordCacheRequest(i.Backend(), "miss")
	default:
		metrics.RecordCacheRequest(i.Backend(), "error")
		metrics.RecordErrorByComponent("cache", "get")
	}
	return rep, err
}

func (i instrumented) Set(ctx context.Context, key string, rep analysis.Report) error { //nolint:gocritic // hugeParam: report is stored by value
	err := i.Cache.Set(ctx, key, rep)
	if err != nil {
		metrics.RecordCacheRequest(i.Backend(), "error")
		metrics.RecordErrorByComponent("cache", "set")
	}
	return err
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (analysis.Report, error) {
	return analysis.Report{}, ErrMiss
}
func (Noop) Set(context.Context, string, analysis.Report) error { return nil } //nolint:gocritic // hugeParam: interface signature
func (Noop) Delete(context.Context, string) error               { return nil }
func (Noop) Len(context.Context) int                            { return 0 }
func (Noop) Backend() string                                    { return BackendNone }
func (Noop) Close() error                                       { return nil }
