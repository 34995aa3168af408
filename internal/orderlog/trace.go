package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cafedev/brewline/internal/core/domain"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars).
	// Empty string if no active span is found in the context.
	TraceID string

	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings.
//
// The otelhttp middleware registered on the router extracts the W3C
// traceparent header and creates a server-side span in the request context;
// trace.SpanFromContext retrieves it here. If the context carries no active
// span (e.g. in unit tests) both fields come back empty and the caller
// should handle that gracefully.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()

	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry with the trace info automatically extracted
// from ctx.
//
// Usage in the workflow:
//
//	entry := orderlog.NewEntry(ctx, order.ID, order.Status, orderlog.EventPaymentCaptured, ref)
//	_ = recorder.Record(ctx, entry)
func NewEntry(ctx context.Context, orderID string, status domain.OrderStatus, event, detail string) *Entry {
	ti := ExtractTraceInfo(ctx)

	return &Entry{
		OrderID: orderID,
		Status:  status,
		Event:   event,
		Detail:  detail,
		TraceID: ti.TraceID,
		SpanID:  ti.SpanID,
		At:      time.Now().UTC(),
	}
}
