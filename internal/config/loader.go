package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "TEAMIQ_"
	envConfigPath = "TEAMIQ_CONFIG"
	envDotenvPath = "TEAMIQ_ENV_FILE"
	defaultDotenv = ".env"
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file if TEAMIQ_CONFIG is set
//  3. env (prefix TEAMIQ_), after loading TEAMIQ_ENV_FILE or ./.env
//
// Nested keys use a double underscore: TEAMIQ_CACHE__BACKEND=redis.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps TEAMIQ_READINESS__INTEREST_BONUS to readiness.interest_bonus.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// loadDotenv loads TEAMIQ_ENV_FILE when set, else ./.env when present.
// Variables already in the environment are never overwritten.
func loadDotenv() error {
	if path := os.Getenv(envDotenvPath); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
		}
		return nil
	}
	if _, err := os.Stat(defaultDotenv); err == nil {
		if err := godotenv.Load(defaultDotenv); err != nil {
			return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, defaultDotenv, err)
		}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("queue_size must be positive, got %d", c.QueueSize))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("worker_count must be positive, got %d", c.WorkerCount))
	}
	if c.JobRetention <= 0 {
		errs = append(errs, fmt.Errorf("job_retention must be positive, got %d", c.JobRetention))
	}
	if c.JobTimeout <= 0 {
		errs = append(errs, fmt.Errorf("job_timeout must be positive, got %s", c.JobTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.Size <= 0 {
			errs = append(errs, fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size))
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr must not be empty"))
		}
	case CacheNone:
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be memory, redis or none, got %q", c.Cache.Backend))
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing_sample_ratio must be in [0,1], got %g", c.TracingSampleRatio))
	}
	r := c.Readiness
	if r.InterestBonus < 0 || r.InterestBonusCap < 0 {
		errs = append(errs, errors.New("readiness interest bonus and cap must not be negative"))
	}
	if r.MinInvolvement < 0 || r.MinInvolvement > 100 {
		errs = append(errs, fmt.Errorf("readiness.min_involvement must be in [0,100], got %g", r.MinInvolvement))
	}
	if r.ReadyCoverage < 0 || r.ReadyCoverage > 100 {
		errs = append(errs, fmt.Errorf("readiness.ready_coverage must be in [0,100], got %g", r.ReadyCoverage))
	}
	s := c.Scenario
	if s.ValueMultiple <= 0 || s.CostPerHead <= 0 || s.EBITDARatio <= 0 {
		errs = append(errs, errors.New("scenario value_multiple, cost_per_head and ebitda_ratio must be positive"))
	}
	if s.FlowThrough < 0 || s.FlowThrough > 1 {
		errs = append(errs, fmt.Errorf("scenario.flow_through must be in [0,1], got %g", s.FlowThrough))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
