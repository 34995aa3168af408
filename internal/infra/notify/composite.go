package notify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// Composite fans an event out to several notifiers concurrently. Every
// notifier is attempted with the caller's context — one failing channel
// never cancels its siblings — and the first error is returned.
type Composite struct {
	notifiers []ports.Notifier
}

var _ ports.Notifier = (*Composite)(nil)

func NewComposite(notifiers ...ports.Notifier) *Composite {
	return &Composite{notifiers: notifiers}
}

func (c *Composite) NotifyOrderPlaced(ctx context.Context, order *domain.Order) error {
	return c.fanOut(ctx, order, ports.Notifier.NotifyOrderPlaced)
}

func (c *Composite) NotifyOrderReady(ctx context.Context, order *domain.Order) error {
	return c.fanOut(ctx, order, ports.Notifier.NotifyOrderReady)
}

func (c *Composite) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	return c.fanOut(ctx, order, ports.Notifier.NotifyOrderCancelled)
}

func (c *Composite) fanOut(ctx context.Context, order *domain.Order, send func(ports.Notifier, context.Context, *domain.Order) error) error {
	var g errgroup.Group
	for _, n := range c.notifiers {
		g.Go(func() error {
			return send(n, ctx, order)
		})
	}
	return g.Wait()
}
