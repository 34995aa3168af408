package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
	"github.com/cafedev/brewline/internal/orderlog"
)

// OrderService orchestrates the order lifecycle. It coordinates the three
// ports without doing their work: pricing is the calculator's job, storage
// the repository's, charging the processor's, messaging the notifier's.
// Swapping any of those implementations never touches this file.
type OrderService struct {
	repo     ports.OrderRepository
	payments ports.PaymentProcessor
	notifier ports.Notifier
	pricing  *PricingCalculator
	events   orderlog.Recorder // nil-safe: event logging skipped if nil
}

// NewOrderService wires the workflow to its collaborators. events may be
// nil — in that case lifecycle transitions are not journaled.
func NewOrderService(
	repo ports.OrderRepository,
	payments ports.PaymentProcessor,
	notifier ports.Notifier,
	pricing *PricingCalculator,
	events orderlog.Recorder,
) *OrderService {
	return &OrderService{
		repo:     repo,
		payments: payments,
		notifier: notifier,
		pricing:  pricing,
		events:   events,
	}
}

// PlaceOrder runs the full placement workflow:
//
//  1. validate the input,
//  2. total the beverages,
//  3. persist the order as PLACED,
//  4. charge the payment processor,
//  5. flip to PAID and persist the update,
//  6. notify the customer (best effort).
//
// The order is persisted before payment on purpose: if the charge fails the
// order survives as PLACED — never PAID — and the customer can retry or
// cancel. There is no automatic rollback of either step.
func (s *OrderService) PlaceOrder(ctx context.Context, customer domain.Customer, beverages []domain.Beverage) (*domain.Order, error) {
	if err := customer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	total, err := s.pricing.CalculateTotal(beverages)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(beverages))
	for _, b := range beverages {
		items = append(items, domain.ItemFromBeverage(b))
	}

	order, err := domain.NewOrder(customer, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	slog.InfoContext(ctx, "placing order",
		"order_id", order.ID,
		"customer_id", customer.ID,
		"items", len(order.Items),
		"total", total,
	)

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: save order %s: %v", ErrPersistenceFailed, order.ID, err)
	}
	s.record(ctx, order, orderlog.EventOrderPlaced, "")

	ref, err := s.payments.ProcessPayment(ctx, total)
	if err != nil {
		// The order stays PLACED in the repository; nothing to roll back.
		s.record(ctx, order, orderlog.EventPaymentFailed, err.Error())
		slog.WarnContext(ctx, "payment declined",
			"order_id", order.ID,
			"method", s.payments.Name(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := order.MarkPaid(ref); err != nil {
		return nil, err
	}
	s.record(ctx, order, orderlog.EventPaymentCaptured, ref)

	if err := s.repo.Update(ctx, order); err != nil {
		// The charge went through but the PAID flip did not stick. Surface
		// the persistence failure loudly instead of hiding the charge.
		slog.ErrorContext(ctx, "payment captured but order update failed",
			"order_id", order.ID,
			"payment_ref", ref,
			"error", err,
		)
		return nil, fmt.Errorf("%w: update order %s after payment: %v", ErrPersistenceFailed, order.ID, err)
	}

	s.notify(ctx, order, s.notifier.NotifyOrderPlaced)

	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"payment_ref", ref,
		"total", order.Total,
	)
	return order, nil
}

// GetOrder looks up a single order. Unknown IDs return ports.ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find order %s: %v", ErrPersistenceFailed, id, err)
	}
	return order, nil
}

// ListCustomerOrders returns every order the customer has placed.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string) ([]*domain.Order, error) {
	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders for customer %s: %v", ErrPersistenceFailed, customerID, err)
	}
	return orders, nil
}

// ListOrders returns every stored order.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrPersistenceFailed, err)
	}
	return orders, nil
}

// MarkOrderReady flips a PAID order to READY, persists it and notifies the
// customer (best effort). Readying an unpaid order is a transition error.
func (s *OrderService) MarkOrderReady(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.MarkReady(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: update order %s: %v", ErrPersistenceFailed, id, err)
	}
	s.record(ctx, order, orderlog.EventOrderReady, "")

	s.notify(ctx, order, s.notifier.NotifyOrderReady)

	slog.InfoContext(ctx, "order ready", "order_id", order.ID)
	return order, nil
}

// CancelOrder cancels an order from any state, persists it and notifies the
// customer (best effort). Cancelling an already cancelled order is a no-op.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Cancel()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: update order %s: %v", ErrPersistenceFailed, id, err)
	}
	s.record(ctx, order, orderlog.EventOrderCancelled, "")

	s.notify(ctx, order, s.notifier.NotifyOrderCancelled)

	slog.InfoContext(ctx, "order cancelled", "order_id", order.ID)
	return order, nil
}

// notify runs one notification call and logs on failure. Notifications are
// side effects: they never fail the workflow.
func (s *OrderService) notify(ctx context.Context, order *domain.Order, fn func(context.Context, *domain.Order) error) {
	if err := fn(ctx, order); err != nil {
		slog.WarnContext(ctx, "notification failed",
			"order_id", order.ID,
			"error", fmt.Errorf("%w: %v", ErrNotificationFailed, err),
		)
	}
}

// record journals a lifecycle transition. Best effort: a broken event log
// must not take the order workflow down with it.
func (s *OrderService) record(ctx context.Context, order *domain.Order, event, detail string) {
	if s.events == nil {
		return
	}
	entry := orderlog.NewEntry(ctx, order.ID, order.Status, event, detail)
	if err := s.events.Record(ctx, entry); err != nil {
		slog.WarnContext(ctx, "order log write failed",
			"order_id", order.ID,
			"event", event,
			"error", err,
		)
	}
}
