package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kanbanboard/kanban-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestSetupTracing_Disabled(t *testing.T) {
	tp, shutdown, err := setupTracing(context.Background(), config.TracingConfig{Enabled: false}, slog.Default())

	require.NoError(t, err)
	assert.IsType(t, noop.TracerProvider{}, tp)
	assert.Nil(t, shutdown)
}

func TestNewSpanExporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.TracingConfig
		wantErr bool
	}{
		{name: "default is stdout", cfg: config.TracingConfig{}},
		{name: "stdout", cfg: config.TracingConfig{Exporter: "stdout"}},
		{name: "otlp with endpoint", cfg: config.TracingConfig{Exporter: "otlp", OTLPEndpoint: "http://localhost:4318"}},
		{name: "otlp from environment", cfg: config.TracingConfig{Exporter: "otlp"}},
		{name: "unknown", cfg: config.TracingConfig{Exporter: "zipkin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, err := newSpanExporter(context.Background(), tt.cfg, io.Discard)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown span exporter")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, exporter)
			assert.NoError(t, exporter.Shutdown(context.Background()))
		})
	}
}

func TestStdoutExporter_WritesSpans(t *testing.T) {
	t.Parallel()

	cfg := config.TracingConfig{Enabled: true, ServiceName: "kanban-api-test", SampleRatio: 1, Exporter: "stdout"}
	var buf bytes.Buffer
	exporter, err := newSpanExporter(context.Background(), cfg, &buf)
	require.NoError(t, err)

	tp := newTracerProvider(cfg, sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := tp.Tracer("test").Start(context.Background(), "GET /api/boards")
	_, child := tp.Tracer("test").Start(ctx, "BoardService.ListBoards")
	child.SetStatus(codes.Error, "store unavailable")
	child.End()
	parent.End()

	type exportedSpan struct {
		Name        string
		SpanContext struct{ TraceID string }
		Parent      struct{ SpanID string }
		Status      struct{ Description string }
	}
	raw := buf.String()
	var spans []exportedSpan
	dec := json.NewDecoder(strings.NewReader(raw))
	for dec.More() {
		var s exportedSpan
		require.NoError(t, dec.Decode(&s))
		spans = append(spans, s)
	}

	require.Len(t, spans, 2)
	assert.Equal(t, "BoardService.ListBoards", spans[0].Name)
	assert.Equal(t, "store unavailable", spans[0].Status.Description)
	assert.Equal(t, parent.SpanContext().SpanID().String(), spans[0].Parent.SpanID)
	assert.Equal(t, "GET /api/boards", spans[1].Name)
	assert.Equal(t, parent.SpanContext().TraceID().String(), spans[1].SpanContext.TraceID)
	assert.Contains(t, raw, "kanban-api-test")
}
