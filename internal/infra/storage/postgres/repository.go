// Package postgres persists orders in PostgreSQL through database/sql over
// the pgx stdlib driver. The item list is stored as a JSONB snapshot: items
// are immutable once the order is placed, so there is nothing to join on.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"

	// Register the pgx driver under the "pgx" database/sql name.
	_ "github.com/jackc/pgx/v5/stdlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    customer_id    TEXT NOT NULL,
    customer_name  TEXT NOT NULL,
    customer_email TEXT NOT NULL DEFAULT '',
    customer_phone TEXT NOT NULL DEFAULT '',
    items          JSONB NOT NULL,
    status         TEXT NOT NULL,
    total          DOUBLE PRECISION NOT NULL,
    payment_ref    TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id, created_at);
`

const orderColumns = `id, customer_id, customer_name, customer_email, customer_phone,
       items, status, total, payment_ref, created_at, updated_at`

// Repository is the PostgreSQL implementation of ports.OrderRepository.
type Repository struct {
	db *sql.DB
}

var _ ports.OrderRepository = (*Repository)(nil)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// New creates a repository over an existing connection pool.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the orders table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Save inserts a new order. Duplicate IDs fail with ErrOrderExists.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("postgres: encode items for %q: %w", order.ID, err)
	}

	const q = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q,
		order.ID,
		order.Customer.ID,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		items,
		string(order.Status),
		order.Total,
		order.PaymentRef,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save order %q: %w", order.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ports.ErrOrderExists
	}
	return nil
}

// FindByID retrieves an order by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ports.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find order %q: %w", id, err)
	}
	return order, nil
}

// FindByCustomer returns the customer's orders, oldest first.
func (r *Repository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at, id`

	return r.queryOrders(ctx, q, customerID)
}

// ListAll returns every order, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at, id`

	return r.queryOrders(ctx, q)
}

// Update replaces a stored order. Unknown IDs fail with ErrOrderNotFound.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("postgres: encode items for %q: %w", order.ID, err)
	}

	const q = `
		UPDATE orders
		SET    customer_id = $2, customer_name = $3, customer_email = $4,
		       customer_phone = $5, items = $6, status = $7, total = $8,
		       payment_ref = $9, updated_at = $10
		WHERE  id = $1`

	res, err := r.db.ExecContext(ctx, q,
		order.ID,
		order.Customer.ID,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		items,
		string(order.Status),
		order.Total,
		order.PaymentRef,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update order %q: %w", order.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) queryOrders(ctx context.Context, q string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var order domain.Order
	var items []byte
	var status string

	err := row.Scan(
		&order.ID,
		&order.Customer.ID,
		&order.Customer.Name,
		&order.Customer.Email,
		&order.Customer.Phone,
		&items,
		&status,
		&order.Total,
		&order.PaymentRef,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode items for %q: %w", order.ID, err)
	}
	return &order, nil
}
