// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) builds a Config holding every default.
//   - Load(ctx) layers a YAML file, a dotenv file and TEAMIQ_ env vars on top.
//   - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
	"time"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// JobRetention caps how many job records are kept before the oldest
	// finished ones are evicted.
	JobRetention int `koanf:"job_retention"`

	// JobTimeout bounds a single background analysis.
	JobTimeout time.Duration `koanf:"job_timeout"`

	// MaxBodyBytes caps request bodies accepted by the API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CatalogPath optionally points at a YAML service catalog that
	// replaces the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// TracingEndpoint enables OTLP/HTTP tracing when set.
	TracingEndpoint string `koanf:"tracing_endpoint"`

	// TracingSampleRatio is the fraction of root spans sampled.
	TracingSampleRatio float64 `koanf:"tracing_sample_ratio"`

	Cache     CacheConfig     `koanf:"cache"`
	Readiness ReadinessConfig `koanf:"readiness"`
	Scenario  ScenarioConfig  `koanf:"scenario"`
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	Size          int           `koanf:"size"`
	TTL           time.Duration `koanf:"ttl"`
	KeyPrefix     string        `koanf:"key_prefix"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
}

// ReadinessConfig tunes the service readiness scorer.
type ReadinessConfig struct {
	InterestBonus    float64 `koanf:"interest_bonus"`
	InterestBonusCap float64 `koanf:"interest_bonus_cap"`
	MinInvolvement   float64 `koanf:"min_involvement"`
	ReadyCoverage    float64 `koanf:"ready_coverage"`
	DevelopmentLimit int     `koanf:"development_limit"`
}

// ScenarioConfig holds the financial assumptions used by scenario projections.
type ScenarioConfig struct {
	FlowThrough   float64 `koanf:"flow_through"`
	ValueMultiple float64 `koanf:"value_multiple"`
	BorrowingRate float64 `koanf:"borrowing_rate"`
	CostPerHead   float64 `koanf:"cost_per_head"`
	EBITDARatio   float64 `koanf:"ebitda_ratio"`
}

// New creates a Config holding the defaults. The context is reserved for
// sources that need one.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		JobRetention:       10_000,
		JobTimeout:         30 * time.Second,
		MaxBodyBytes:       4 << 20,
		TracingSampleRatio: 1,
		Cache: CacheConfig{
			Backend:   CacheMemory,
			Size:      1_000,
			TTL:       15 * time.Minute,
			KeyPrefix: "teamiq:analysis:",
			RedisAddr: "localhost:6379",
		},
		Readiness: ReadinessConfig{
			InterestBonus:    2.5,
			InterestBonusCap: 10,
			MinInvolvement:   50,
			ReadyCoverage:    70,
			DevelopmentLimit: 8,
		},
		Scenario: ScenarioConfig{
			FlowThrough:   0.45,
			ValueMultiple: 5,
			BorrowingRate: 0.08,
			CostPerHead:   55_000,
			EBITDARatio:   0.8,
		},
	}
}
