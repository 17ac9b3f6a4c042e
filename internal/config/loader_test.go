package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/teamiq/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TEAMIQ_CONFIG", "")
	t.Setenv("TEAMIQ_ENV_FILE", "")

	convey.Convey("Given no file and no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then the defaults should be returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Readiness.ReadyCoverage, convey.ShouldEqual, 70)
		})
	})
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TEAMIQ_CONFIG", "")
	t.Setenv("TEAMIQ_ENV_FILE", "")
	t.Setenv("TEAMIQ_ADDR", ":8080")
	t.Setenv("TEAMIQ_WORKER_COUNT", "16")
	t.Setenv("TEAMIQ_CACHE__BACKEND", "redis")
	t.Setenv("TEAMIQ_CACHE__REDIS_ADDR", "cache:6379")
	t.Setenv("TEAMIQ_CACHE__TTL", "30s")
	t.Setenv("TEAMIQ_READINESS__INTEREST_BONUS_CAP", "5")

	convey.Convey("Given TEAMIQ_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then flat and nested keys should override defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
			convey.So(cfg.Cache.Backend, convey.ShouldEqual, config.CacheRedis)
			convey.So(cfg.Cache.RedisAddr, convey.ShouldEqual, "cache:6379")
			convey.So(cfg.Cache.TTL, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Readiness.InterestBonusCap, convey.ShouldEqual, 5)
		})

		convey.Convey("Then untouched nested defaults should survive", func() {
			convey.So(cfg.Readiness.InterestBonus, convey.ShouldEqual, 2.5)
			convey.So(cfg.Cache.KeyPrefix, convey.ShouldEqual, "teamiq:analysis:")
		})
	})
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "teamiq.yaml", `
addr: ":9090"
queue_size: 500
log_format: json
scenario:
  value_multiple: 6
  borrowing_rate: 0.1
`)
	t.Setenv("TEAMIQ_CONFIG", path)
	t.Setenv("TEAMIQ_ENV_FILE", "")
	t.Setenv("TEAMIQ_QUEUE_SIZE", "750")

	convey.Convey("Given a YAML config file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then file values should apply and env should win", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 750)
			convey.So(cfg.Scenario.ValueMultiple, convey.ShouldEqual, 6)
			convey.So(cfg.Scenario.BorrowingRate, convey.ShouldEqual, 0.1)
			convey.So(cfg.Scenario.FlowThrough, convey.ShouldEqual, 0.45)
		})
	})
}

func TestLoad_Dotenv(t *testing.T) {
	path := writeFile(t, "teamiq.env", "TEAMIQ_DOTENV_PROBE_ADDR=:7070\n")
	t.Setenv("TEAMIQ_CONFIG", "")
	t.Setenv("TEAMIQ_ENV_FILE", path)
	t.Cleanup(func() { _ = os.Unsetenv("TEAMIQ_DOTENV_PROBE_ADDR") })

	convey.Convey("Given a dotenv file", t, func() {
		_, err := config.Load(context.Background())

		convey.Convey("Then its variables should be exported before env is read", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(os.Getenv("TEAMIQ_DOTENV_PROBE_ADDR"), convey.ShouldEqual, ":7070")
		})
	})
}

func TestLoad_Errors(t *testing.T) {
	convey.Convey("Given broken sources", t, func() {
		convey.Convey("When the config file does not exist", func() {
			t.Setenv("TEAMIQ_ENV_FILE", "")
			t.Setenv("TEAMIQ_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(context.Background())

			convey.Convey("Then ErrLoadConfig should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the dotenv file does not exist", func() {
			t.Setenv("TEAMIQ_CONFIG", "")
			t.Setenv("TEAMIQ_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
			_, err := config.Load(context.Background())

			convey.Convey("Then ErrLoadConfig should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the cache backend is unknown", func() {
			cfg.Cache.Backend = "memcached"

			convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "cache.backend")
			})
		})

		convey.Convey("When several fields are invalid", func() {
			cfg.Addr = ""
			cfg.QueueSize = 0
			cfg.Readiness.ReadyCoverage = 150

			convey.Convey("Then every problem should be reported", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr")
				convey.So(err.Error(), convey.ShouldContainSubstring, "queue_size")
				convey.So(err.Error(), convey.ShouldContainSubstring, "ready_coverage")
			})
		})

		convey.Convey("When redis is selected without an address", func() {
			cfg.Cache.Backend = config.CacheRedis
			cfg.Cache.RedisAddr = ""

			convey.Convey("Then validation should fail", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}
