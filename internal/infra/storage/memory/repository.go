// Package memory implements an in-memory order repository. It is the
// reference implementation for tests and the default backend for local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// Repository provides an in-memory implementation of ports.OrderRepository.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

var _ ports.OrderRepository = (*Repository)(nil)

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[string]*domain.Order)}
}

// Save stores a clone of the order. Duplicate IDs fail with ErrOrderExists.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return ports.ErrOrderExists
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

// FindByID retrieves an order by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// FindByCustomer returns the customer's orders, oldest first.
func (r *Repository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.Customer.ID == customerID {
			out = append(out, o.Clone())
		}
	}
	sortByCreation(out)
	return out, nil
}

// ListAll returns all orders, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sortByCreation(out)
	return out, nil
}

// Update replaces an existing order.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return ports.ErrOrderNotFound
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

// sortByCreation keeps list output deterministic; map iteration is not.
func sortByCreation(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
