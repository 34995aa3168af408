package telemetry

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// ContextHandler decorates an slog.Handler so every record carries the
// trace_id and span_id of the active span. Logs and traces can then be
// joined in the backend: filter logs by trace_id, or jump from a span to
// its log lines.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: inner}
}

// Handle attaches the span identifiers, when present, and delegates.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		record.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		record.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	return h.Handler.Handle(ctx, record)
}

// InitLogger installs the process-wide slog logger: JSON to stderr,
// trace-aware, level taken from LOG_LEVEL (debug, info, warn, error;
// default info).
func InitLogger() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		// Unknown values fall back to info rather than failing startup.
		_ = level.UnmarshalText([]byte(raw))
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(NewContextHandler(handler)))
}
