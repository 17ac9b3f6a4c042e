package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/adapters/cache"
	"github.com/okian/teamiq/internal/domain/analysis"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory cache of two entries", t, func() {
		c := cache.NewMemory(2, time.Minute)

		Convey("When a key is missing", func() {
			_, err := c.Get(ctx, "nope")

			Convey("Then ErrMiss should be returned", func() {
				So(errors.Is(err, cache.ErrMiss), ShouldBeTrue)
			})
		})

		Convey("When three reports are stored", func() {
			So(c.Set(ctx, "a", analysis.Report{PracticeID: "a"}), ShouldBeNil)
			So(c.Set(ctx, "b", analysis.Report{PracticeID: "b"}), ShouldBeNil)
			_, _ = c.Get(ctx, "a")
			So(c.Set(ctx, "c", analysis.Report{PracticeID: "c"}), ShouldBeNil)

			Convey("Then the least recently used should be evicted", func() {
				So(c.Len(ctx), ShouldEqual, 2)
				_, err := c.Get(ctx, "b")
				So(errors.Is(err, cache.ErrMiss), ShouldBeTrue)
				rep, err := c.Get(ctx, "a")
				So(err, ShouldBeNil)
				So(rep.PracticeID, ShouldEqual, "a")
			})
		})

		Convey("When a key is deleted", func() {
			_ = c.Set(ctx, "a", analysis.Report{})
			_ = c.Delete(ctx, "a")

			Convey("Then it should miss", func() {
				_, err := c.Get(ctx, "a")
				So(errors.Is(err, cache.ErrMiss), ShouldBeTrue)
			})
		})
	})

	Convey("Given a memory cache with a short TTL", t, func() {
		c := cache.NewMemory(10, 20*time.Millisecond)
		_ = c.Set(ctx, "a", analysis.Report{})
		time.Sleep(60 * time.Millisecond)

		Convey("Then expired entries should miss", func() {
			_, err := c.Get(ctx, "a")
			So(errors.Is(err, cache.ErrMiss), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given backend names", t, func() {
		Convey("When the backend is memory", func() {
			c, err := cache.New(cache.Config{Backend: cache.BackendMemory, Size: 5, TTL: time.Minute})

			Convey("Then an instrumented memory cache should be built", func() {
				So(err, ShouldBeNil)
				So(c.Backend(), ShouldEqual, cache.BackendMemory)
			})
		})

		Convey("When the backend is none", func() {
			c, err := cache.New(cache.Config{Backend: cache.BackendNone})

			Convey("Then every lookup should miss", func() {
				So(err, ShouldBeNil)
				So(c.Set(context.Background(), "k", analysis.Report{}), ShouldBeNil)
				_, err := c.Get(context.Background(), "k")
				So(errors.Is(err, cache.ErrMiss), ShouldBeTrue)
				So(c.Len(context.Background()), ShouldEqual, 0)
			})
		})

		Convey("When the backend is unknown", func() {
			_, err := cache.New(cache.Config{Backend: "memcached"})

			Convey("Then ErrUnsupportedBackend should be returned", func() {
				So(errors.Is(err, cache.ErrUnsupportedBackend), ShouldBeTrue)
			})
		})
	})
}
