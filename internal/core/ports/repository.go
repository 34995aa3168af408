// Package ports defines the contracts the order workflow depends on. The
// service layer only ever sees these interfaces; concrete storage, payment
// and notification implementations live under internal/infra.
package ports

import (
	"context"
	"errors"

	"github.com/cafedev/brewline/internal/core/domain"
)

var (
	// ErrOrderNotFound is returned by lookups and updates for unknown IDs.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists is returned when saving an ID that is already stored.
	ErrOrderExists = errors.New("order already exists")
)

// OrderRepository persists orders. Each call is atomic for a single order;
// there are no cross-call transactions. Implementations return the sentinel
// errors above so callers can branch with errors.Is regardless of backend.
type OrderRepository interface {
	// Save stores a new order. A duplicate ID fails with ErrOrderExists.
	Save(ctx context.Context, order *domain.Order) error
	// FindByID returns the stored order or ErrOrderNotFound.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindByCustomer returns every order placed by the given customer ID.
	// No orders is an empty slice, not an error.
	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	// ListAll returns every stored order.
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// Update replaces a stored order. Unknown IDs fail with ErrOrderNotFound.
	Update(ctx context.Context, order *domain.Order) error
}
