package samplegen_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/adapters/http/api"
	service "github.com/okian/teamiq/internal/app"
	"github.com/okian/teamiq/internal/samplegen"
	"github.com/okian/teamiq/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(cat *catalog.Catalog) (*httptest.Server, *service.Service) {
	svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(256), service.WithCatalog(cat))
	So(svc.Start(context.Background()), ShouldBeNil)

	server, err := api.NewServer(svc, svc)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		cat, err := catalog.Default()
		So(err, ShouldBeNil)
		ts, svc := newServer(cat)
		defer ts.Close()
		defer func() { _ = svc.Stop(context.Background()) }()

		cfg := &samplegen.Config{
			BaseURL:      ts.URL,
			Practices:    12,
			Members:      3,
			Workers:      4,
			Timeout:      5 * time.Second,
			PollInterval: 10 * time.Millisecond,
			Wait:         10 * time.Second,
			Seed:         9,
		}

		Convey("When running a sample batch", func() {
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "practices.json")
			stats, err := samplegen.Run(context.Background(), cfg, cat)

			Convey("Then every practice should be analyzed and verified", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 12)
				So(stats.Accepted, ShouldEqual, 12)
				So(stats.Completed, ShouldEqual, 12)
				So(stats.Verified, ShouldEqual, 12)
				So(stats.Failed, ShouldEqual, 0)
				_, statErr := os.Stat(cfg.OutputFile)
				So(statErr, ShouldBeNil)
			})
		})
	})

	Convey("Given no service at the target URL", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		cat, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("Then the health check should fail", func() {
			_, err := samplegen.Run(context.Background(), &samplegen.Config{
				BaseURL: url, Practices: 1, Members: 1, Workers: 1,
				Timeout: time.Second, PollInterval: time.Millisecond, Wait: time.Second,
			}, cat)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, samplegen.ErrVerification), ShouldBeFalse)
		})
	})
}
