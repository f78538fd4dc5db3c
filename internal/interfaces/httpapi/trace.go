package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("nba-stats-viewer/internal/interfaces/httpapi")

// startSpan opens a child of the request span and tags it with the viewer session.
// Untraced routes such as /healthz never get standalone root spans.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	ctx, span := apiTracer.Start(ctx, name)
	if sess, ok := sessionFromContext(ctx); ok {
		span.SetAttributes(attribute.String("viewer.session_id", sess.ID))
	}
	return ctx, span
}
