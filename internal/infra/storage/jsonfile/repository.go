// Package jsonfile implements a flat-file order repository: one JSON array
// holding every order, rewritten after each mutation. No database server,
// human-readable data, survives restarts — good for demos and local use.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// Repository stores orders in a single JSON file. All state is kept in
// memory and flushed to disk on every Save/Update, so reads never touch
// the filesystem.
type Repository struct {
	mu     sync.RWMutex
	path   string
	orders map[string]*domain.Order
}

var _ ports.OrderRepository = (*Repository)(nil)

// Open loads the repository from path, or starts empty when the file does
// not exist yet.
func Open(path string) (*Repository, error) {
	r := &Repository{path: path, orders: make(map[string]*domain.Order)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %q: %w", path, err)
	}

	var orders []*domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("jsonfile: parse %q: %w", path, err)
	}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r, nil
}

// Save stores a new order and flushes the file.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return ports.ErrOrderExists
	}
	r.orders[order.ID] = order.Clone()
	return r.flush()
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

// Update replaces an existing order and flushes the file.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return ports.ErrOrderNotFound
	}
	r.orders[order.ID] = order.Clone()
	return r.flush()
}

// flush rewrites the whole file. Caller holds the write lock. Orders are
// sorted before encoding so the file diffs cleanly between runs. The data
// goes to a temp file first and is renamed over the target, so a crash
// mid-write leaves the previous store intact.
func (r *Repository) flush() error {
	orders := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sortByCreation(orders)

	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode orders: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".orders-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: close %q: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: chmod %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: replace %q: %w", r.path, err)
	}
	return nil
}

func sortByCreation(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
