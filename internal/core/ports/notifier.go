package ports

import (
	"context"

	"github.com/cafedev/brewline/internal/core/domain"
)

// Notifier tells the customer about order lifecycle events. Notifications
// are side effects only: the workflow logs failures and carries on, so no
// implementation can fail an order.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, order *domain.Order) error
	NotifyOrderReady(ctx context.Context, order *domain.Order) error
	NotifyOrderCancelled(ctx context.Context, order *domain.Order) error
}
