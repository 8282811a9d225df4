package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var controllerTracer = otel.Tracer("fantasy-manager-hub/internal/usecase")
var controllerNoopSpan = trace.SpanFromContext(context.Background())

// startControllerSpan opens "usecase.<controller>.<op>" as a child of the span already in ctx.
// Without a recording parent it returns a no-op span.
func startControllerSpan(ctx context.Context, controller, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if controller == "" || op == "" {
		return ctx, controllerNoopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, controllerNoopSpan
	}

	attrs = append(attrs, attribute.String("fmh.controller", controller))
	return controllerTracer.Start(ctx, "usecase."+controller+"."+op, trace.WithAttributes(attrs...))
}
