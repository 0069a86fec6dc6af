package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kanbanboard/kanban-api/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span exporters selectable through tracing.exporter.
const (
	exporterStdout = "stdout"
	exporterOTLP   = "otlp"
)

// setupTracing returns the tracer provider for the process and a function
// that flushes it on shutdown. When tracing is disabled the provider is a
// noop and the shutdown function is nil.
func setupTracing(
	ctx context.Context,
	cfg config.TracingConfig,
	logger *slog.Logger,
) (trace.TracerProvider, func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if !cfg.Enabled {
		return noop.NewTracerProvider(), nil, nil
	}

	exporter, err := newSpanExporter(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, nil, err
	}

	tp := newTracerProvider(cfg, sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	logger.Info("Tracing enabled",
		"service_name", cfg.ServiceName,
		"sample_ratio", cfg.SampleRatio,
		"exporter", exporterName(cfg))
	return tp, tp.Shutdown, nil
}

// newSpanExporter builds the exporter named by cfg.Exporter. The stdout
// exporter writes one JSON document per span to w.
func newSpanExporter(ctx context.Context, cfg config.TracingConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch exporterName(cfg) {
	case exporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout span exporter: %w", err)
		}
		return exporter, nil
	case exporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP span exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown span exporter %q", cfg.Exporter)
	}
}

func newTracerProvider(cfg config.TracingConfig, processor sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
}

func exporterName(cfg config.TracingConfig) string {
	if cfg.Exporter == "" {
		return exporterStdout
	}
	return cfg.Exporter
}
