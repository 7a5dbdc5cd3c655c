package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FlushSpanName is the name of the span recorded for every flush attempt.
const FlushSpanName = "webvitals.flush"

// StartFlushSpan starts the span for a flush triggered by trigger.
func StartFlushSpan(ctx context.Context, tracer trace.Tracer, trigger, reportURI string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, FlushSpanName,
		trace.WithSpanKind(trace.SpanKindProducer),
	)
	span.SetAttributes(attribute.String("webvitals.trigger", trigger))
	if reportURI != "" {
		span.SetAttributes(attribute.String("webvitals.report_uri", reportURI))
	}
	return ctx, span
}

// EndFlushSpan records the flush outcome and ends the span.
func EndFlushSpan(span trace.Span, metrics int, dispatched bool, err error) {
	span.SetAttributes(
		attribute.Int("webvitals.metrics", metrics),
		attribute.Bool("webvitals.dispatched", dispatched),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
