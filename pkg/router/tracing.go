package router

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for routers.
const defaultTracerName = "routetree"

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// startNavigationSpan starts the span covering one navigation pipeline.
// Guards and resolvers receive a context carrying it, so
// trace.SpanFromContext works inside them.
func (r *Router) startNavigationSpan(ctx context.Context, id uint64, url string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "routetree.navigate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("routetree.navigation_id", int64(id)),
			attribute.String("routetree.url", url),
		),
	)
}

// startStage starts a child span for one pipeline stage.
func (r *Router) startStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "routetree."+stage)
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
