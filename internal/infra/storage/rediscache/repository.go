// Package rediscache decorates any order repository with a Redis cache for
// single-order lookups. Status polling ("is my coffee ready?") hits
// FindByID far more often than anything else, so that is the only call
// cached; list queries always pass through to the inner repository.
//
// The cache is best effort: a Redis outage degrades reads to the inner
// repository, it never fails them.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// DefaultTTL bounds how stale a cached order can get if an update from
// another process bypasses this decorator.
const DefaultTTL = 15 * time.Minute

// Repository wraps an inner ports.OrderRepository with read-through and
// write-through caching of FindByID.
type Repository struct {
	inner  ports.OrderRepository
	client *redis.Client
	ttl    time.Duration
}

var _ ports.OrderRepository = (*Repository)(nil)

// New connects to Redis at addr and wraps inner. A non-positive ttl falls
// back to DefaultTTL.
func New(inner ports.OrderRepository, addr string, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{
		inner:  inner,
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Close releases the Redis connection.
func (r *Repository) Close() error {
	return r.client.Close()
}

// Save writes through: the inner repository first, then the cache.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Save(ctx, order); err != nil {
		return err
	}
	r.cache(ctx, order)
	return nil
}

// FindByID serves from Redis when possible and falls back to the inner
// repository, caching the result on the way out.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Result()
	if err == nil {
		var order domain.Order
		if err := json.Unmarshal([]byte(payload), &order); err == nil {
			return &order, nil
		}
		// Unreadable payload: treat as a miss and repair below.
	} else if err != redis.Nil {
		slog.DebugContext(ctx, "order cache read failed", "order_id", id, "error", err)
	}

	order, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache(ctx, order)
	return order, nil
}

// FindByCustomer passes through to the inner repository.
func (r *Repository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return r.inner.FindByCustomer(ctx, customerID)
}

// ListAll passes through to the inner repository.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.inner.ListAll(ctx)
}

// Update writes through: the inner repository first, then the cache.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Update(ctx, order); err != nil {
		return err
	}
	r.cache(ctx, order)
	return nil
}

// cache stores the order under its key, best effort.
func (r *Repository) cache(ctx context.Context, order *domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		slog.DebugContext(ctx, "order cache encode failed", "order_id", order.ID, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.key(order.ID), payload, r.ttl).Err(); err != nil {
		slog.DebugContext(ctx, "order cache write failed", "order_id", order.ID, "error", err)
	}
}

func (r *Repository) key(id string) string {
	return fmt.Sprintf("brewline:order:%s", id)
}
