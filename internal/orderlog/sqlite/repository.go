// Package sqlite provides a SQLite-backed implementation of the order event
// log.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — important because the workflow appends while the HTTP handler may
// be reading the event history for the same order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cafedev/brewline/internal/orderlog"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on Open.
// The table is append-only: each row is an immutable event in the order's
// lifecycle. The latest row per order_id gives the current state.
const schema = `
CREATE TABLE IF NOT EXISTS order_events (
    -- Surrogate primary key — auto-incremented by SQLite.
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier. Not UNIQUE: one row per transition.
    order_id    TEXT        NOT NULL,

    -- Order status after the transition.
    status      TEXT        NOT NULL,

    -- Transition name ("order_placed", "payment_captured", ...).
    event       TEXT        NOT NULL,

    -- Event context: payment token on capture, error text on failure.
    detail      TEXT,

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id    TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars) — pinpoints the span within the trace.
    span_id     TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT        NOT NULL
);

-- The common query: "all events for order X, in order". Chronology rides
-- on the autoincrement id: the table is append-only, so insertion order
-- is event order.
CREATE INDEX IF NOT EXISTS idx_order_events_order_id ON order_events(order_id);

-- The observability query: "which order belongs to trace Y".
CREATE INDEX IF NOT EXISTS idx_order_events_trace_id ON order_events(trace_id);
`

// timeFormat is RFC3339 with a fixed-width fraction so the stored strings
// compare chronologically as plain text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Repository is the SQLite implementation of orderlog.Recorder and
// orderlog.History.
type Repository struct {
	db *sql.DB
}

var (
	_ orderlog.Recorder = (*Repository)(nil)
	_ orderlog.History  = (*Repository)(nil)
)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	log, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes _pragma query parameters for connection
	// state. WAL enables concurrent readers; busy_timeout waits for locks
	// instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Record appends an order event row. Safe to call concurrently.
func (r *Repository) Record(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_events
			(order_id, status, event, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Status),
		entry.Event,
		nullableString(entry.Detail),
		entry.TraceID,
		entry.SpanID,
		entry.At.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("sqlite: record event for %q: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns every event for the order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]orderlog.Entry, error) {
	const q = `
		SELECT order_id, status, event, COALESCE(detail,''), trace_id, span_id, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list events for %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []orderlog.Entry
	for rows.Next() {
		var entry orderlog.Entry
		var createdAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.Status,
			&entry.Event,
			&entry.Detail,
			&entry.TraceID,
			&entry.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan event for %q: %w", orderID, err)
		}
		entry.At, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest returns the most recent event for the order, or nil when the order
// has no events yet.
func (r *Repository) Latest(ctx context.Context, orderID string) (*orderlog.Entry, error) {
	const q = `
		SELECT order_id, status, event, COALESCE(detail,''), trace_id, span_id, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, orderID)

	var entry orderlog.Entry
	var createdAt string
	err := row.Scan(
		&entry.OrderID,
		&entry.Status,
		&entry.Event,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest event for %q: %w", orderID, err)
	}

	entry.At, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// parseTime decodes the fixed-width timestamps written by Record. Rows
// written by older builds may carry trimmed fractions; RFC3339Nano accepts
// both.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT — keeps the detail column clean on plain transitions.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
