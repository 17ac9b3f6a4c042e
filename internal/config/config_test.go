package config_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/okian/teamiq/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.Cache.Backend, convey.ShouldEqual, config.CacheMemory)
			convey.So(cfg.Cache.TTL, convey.ShouldEqual, 15*time.Minute)
			convey.So(cfg.Readiness.InterestBonus, convey.ShouldEqual, 2.5)
			convey.So(cfg.Readiness.InterestBonusCap, convey.ShouldEqual, 10)
			convey.So(cfg.Scenario.FlowThrough, convey.ShouldEqual, 0.45)
			convey.So(cfg.Scenario.CostPerHead, convey.ShouldEqual, 55_000)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
