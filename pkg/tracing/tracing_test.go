package tracing_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/pkg/tracing"
)

func TestSetup(t *testing.T) {
	Convey("Given tracing setup", t, func() {
		ctx := context.Background()

		Convey("When no endpoint is configured", func() {
			shutdown, err := tracing.Setup(ctx, "teamiq-test")

			Convey("Then a no-op shutdown should be returned", func() {
				So(err, ShouldBeNil)
				So(shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When tracing is explicitly disabled", func() {
			shutdown, err := tracing.Setup(ctx, "teamiq-test",
				tracing.WithEndpoint("http://localhost:4318"),
				tracing.WithEnabled(false))

			Convey("Then a no-op shutdown should be returned", func() {
				So(err, ShouldBeNil)
				So(shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When the no-op shutdown gets a cancelled context", func() {
			shutdown, err := tracing.Setup(ctx, "teamiq-test")
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then it should still succeed", func() {
				So(err, ShouldBeNil)
				So(shutdown(cancelled), ShouldBeNil)
			})
		})
	})
}

func TestSpans(t *testing.T) {
	Convey("Given an in-memory span recorder", t, func() {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		previous := otel.GetTracerProvider()
		otel.SetTracerProvider(tp)
		Reset(func() { otel.SetTracerProvider(previous) })

		Convey("When a span is started and failed", func() {
			_, span := tracing.Start(context.Background(), "readiness.score", attribute.Int("services", 7))
			tracing.Fail(span, errors.New("boom"))
			tracing.Fail(span, nil)
			span.End()

			ended := recorder.Ended()

			Convey("Then the span should carry the name, attributes and error status", func() {
				So(len(ended), ShouldEqual, 1)
				So(ended[0].Name(), ShouldEqual, "readiness.score")
				So(ended[0].Attributes(), ShouldContain, attribute.Int("services", 7))
				So(ended[0].Status().Code, ShouldEqual, codes.Error)
				So(ended[0].Status().Description, ShouldEqual, "boom")
				So(len(ended[0].Events()), ShouldEqual, 1)
			})
		})
	})
}
