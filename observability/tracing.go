package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xraph/hookcache"

// Tracer provides OpenTelemetry tracing for hookcache.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new hookcache tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartExecuteSpan starts a new span for a webhook execution.
func (t *Tracer) StartExecuteSpan(ctx context.Context, webhookID string, hasTokenHint bool) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "hookcache.execute",
		trace.WithAttributes(
			attribute.String("hookcache.webhook_id", webhookID),
			attribute.Bool("hookcache.token_hint", hasTokenHint),
		),
	)
}

// StartFetchSpan starts a new span for a cache-fill fetch.
func (t *Tracer) StartFetchSpan(ctx context.Context, webhookID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "hookcache.fetch",
		trace.WithAttributes(
			attribute.String("hookcache.webhook_id", webhookID),
		),
	)
}

// EndSpan ends a span with result attributes.
func (t *Tracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("hookcache.error", err.Error()))
	}
	span.End()
}
