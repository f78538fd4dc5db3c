package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("nba-stats-viewer/internal/usecase")

// startUsecaseSpan only opens child spans; an action that arrived untraced stays untraced.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name)
}

func startSlotSpan(ctx context.Context, slot Slot, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Controller.fetch."+string(slot))
	span.SetAttributes(append(attrs, attribute.String("viewer.slot", string(slot)))...)
	return ctx, span
}

func recordOutcome(span trace.Span, outcome Outcome, err error) {
	span.SetAttributes(attribute.String("viewer.outcome", string(outcome)))
	if outcome == OutcomeFailed && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
