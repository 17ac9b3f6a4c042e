package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/adapters/mq/queue"
	"github.com/okian/teamiq/internal/adapters/repository"
	service "github.com/okian/teamiq/internal/app"
)

func waitFinished(ctx context.Context, svc *service.Service, id string) repository.Record {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := svc.Job(ctx, id)
		if err == nil && rec.Status.Finished() {
			return rec
		}
		time.Sleep(10 * time.Millisecond)
	}
	rec, _ := svc.Job(ctx, id)
	return rec
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with background workers", t, func() {
		ctx := context.Background()
		svc := started(service.WithQueueSize(64))
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When submitting a job", func() {
			rec, err := svc.Submit(ctx, practice("acme"))

			Convey("Then it should be queued with the input fingerprint", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldNotBeEmpty)
				So(rec.PracticeID, ShouldEqual, "acme")
				So(rec.Status, ShouldEqual, repository.StatusQueued)
				So(rec.Fingerprint, ShouldStartWith, "v1:")
			})

			Convey("Then a worker should complete it", func() {
				done := waitFinished(ctx, svc, rec.ID)
				So(done.Status, ShouldEqual, repository.StatusCompleted)
				So(done.Report, ShouldNotBeNil)
				So(done.Report.Fingerprint, ShouldEqual, rec.Fingerprint)
			})
		})

		Convey("When submitting several jobs", func() {
			ids := make([]string, 0, 10)
			for i := 0; i < 10; i++ {
				rec, err := svc.Submit(ctx, practice(fmt.Sprintf("practice-%d", i%3)))
				So(err, ShouldBeNil)
				ids = append(ids, rec.ID)
			}

			Convey("Then all should complete", func() {
				for _, id := range ids {
					So(waitFinished(ctx, svc, id).Status, ShouldEqual, repository.StatusCompleted)
				}
				jobs := svc.GetStats()["jobs"].(map[string]int)
				So(jobs[string(repository.StatusCompleted)], ShouldEqual, 10)
			})
		})

		Convey("When fetching an unknown job", func() {
			_, err := svc.Job(ctx, "missing")

			Convey("Then it should not be found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service stopped with a job submitted", t, func() {
		ctx := context.Background()
		svc := started()
		_, err := svc.Submit(ctx, practice("acme"))
		So(err, ShouldBeNil)

		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		Convey("Then Stop should drain the queue without error", func() {
			So(svc.Stop(stopCtx), ShouldBeNil)
		})

		Convey("Then new submissions should be refused", func() {
			So(svc.Stop(stopCtx), ShouldBeNil)
			_, err := svc.Submit(ctx, practice("late"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a full queue", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When submitting faster than it drains", func() {
			var rejected error
			for i := 0; i < 200 && rejected == nil; i++ {
				_, rejected = svc.Submit(ctx, practice(fmt.Sprintf("burst-%d", i)))
			}

			Convey("Then the queue error should be returned", func() {
				So(errors.Is(rejected, queue.ErrFull), ShouldBeTrue)
			})
		})
	})
}
