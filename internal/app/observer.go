package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/teamiq/pkg/metrics"
	"github.com/okian/teamiq/pkg/tracing"
)

// observer turns engine component events into spans and metrics.
type observer struct{}

func (observer) StartComponent(ctx context.Context, component string) (context.Context, func(int)) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "analysis."+component, attribute.String("component", component))
	return ctx, func(diagnostics int) {
		metrics.RecordComponentLatency(component, float64(time.Since(start).Microseconds())/1000)
		metrics.RecordDiagnostics(component, diagnostics)
		span.SetAttributes(attribute.Int("diagnostics", diagnostics))
		span.End()
	}
}
