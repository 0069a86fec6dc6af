package service

import (
	"context"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/redact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kanbanboard/kanban-api/internal/service"

// Option configures a service constructor.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
}

// WithTracerProvider sets the provider used for service spans.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func newTracer(opts []Option) trace.Tracer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		return otel.Tracer(instrumentationName)
	}
	return o.tracerProvider.Tracer(instrumentationName)
}

// finish ends span, marking it failed when err is unexpected, and logs the
// failure. Expected errors stay at debug level and leave the span status unset.
func finish(span trace.Span, log *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	defer span.End()
	if err == nil {
		return
	}

	args := make([]any, 0, len(attrs)+1)
	for _, a := range attrs {
		args = append(args, a)
	}

	if isExpected(err) {
		span.SetAttributes(attribute.String("error.kind", "expected"))
		log.Debug(msg, append(args, slog.String("error", err.Error()))...)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	log.Error(msg, append(args, slog.String("error", redact.Error(err)))...)
}

func startSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
