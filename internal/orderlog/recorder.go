package orderlog

import "context"

// Recorder is the port for persisting order event entries. The workflow
// depends on this abstraction, not on SQLite directly, so the backend can
// be swapped without touching the service layer.
type Recorder interface {
	// Record appends an entry. The log is append-only, never an upsert.
	Record(ctx context.Context, entry *Entry) error
}

// History reads entries back for a single order, oldest first.
type History interface {
	ListByOrder(ctx context.Context, orderID string) ([]Entry, error)
}
