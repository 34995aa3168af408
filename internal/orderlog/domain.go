// Package orderlog defines the order event log: a durable audit trail of
// every lifecycle transition an order goes through.
//
// It serves two purposes:
//
//  1. Observability: query the log to see exactly what happened to an order
//     (placed, charged, declined, readied, cancelled) and correlate each row
//     with a distributed trace via the trace_id field.
//
//  2. Dispute handling: payment events keep the confirmation token or the
//     decline reason, so "was this order charged?" has a durable answer even
//     when the order row itself was overwritten since.
package orderlog

import (
	"time"

	"github.com/cafedev/brewline/internal/core/domain"
)

// Event names recorded by the order workflow.
const (
	EventOrderPlaced     = "order_placed"
	EventPaymentCaptured = "payment_captured"
	EventPaymentFailed   = "payment_failed"
	EventOrderReady      = "order_ready"
	EventOrderCancelled  = "order_cancelled"
)

// Entry is a single row in the order event log. It captures a point-in-time
// snapshot of an order's lifecycle.
type Entry struct {
	// OrderID joins the event with the business order.
	OrderID string

	// Status is the order status after the transition this row records.
	Status domain.OrderStatus

	// Event names the transition, one of the Event* constants.
	Event string

	// Detail carries event-specific context: the payment confirmation
	// token on capture, the error text on failure. Empty otherwise.
	Detail string

	// TraceID is the W3C trace ID extracted from the OpenTelemetry span
	// active when this entry was written. Lets you jump from a log row
	// straight to the full distributed trace.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// At is the wall-clock time of the transition.
	At time.Time
}
