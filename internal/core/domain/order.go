package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// StatusPlaced means the order is persisted but not yet paid.
	StatusPlaced OrderStatus = "PLACED"
	// StatusPaid means payment was captured; PaymentRef holds the token.
	StatusPaid OrderStatus = "PAID"
	// StatusReady means the order is prepared and waiting for pickup.
	StatusReady OrderStatus = "READY"
	// StatusCancelled is terminal and reachable from any other state.
	StatusCancelled OrderStatus = "CANCELLED"
)

var (
	// ErrNoItems rejects orders created without a single beverage.
	ErrNoItems = errors.New("domain: order must contain at least one beverage")
	// ErrInvalidTransition guards the PLACED→PAID→READY progression.
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)

// OrderItem is a point-in-time snapshot of a beverage on an order. The name,
// description and price are captured when the order is placed so later menu
// changes never rewrite history.
type OrderItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Subtotal is the line total for this item.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ItemFromBeverage snapshots a beverage into an order line with quantity 1.
func ItemFromBeverage(b Beverage) OrderItem {
	return OrderItem{
		Name:        b.Name(),
		Description: b.Description(),
		Price:       b.Price(),
		Quantity:    1,
	}
}

// Order is the aggregate the whole workflow revolves around. Items keep
// their insertion order so receipts read the way the customer ordered.
type Order struct {
	ID         string      `json:"id"`
	Customer   Customer    `json:"customer"`
	Items      []OrderItem `json:"items"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total"`
	PaymentRef string      `json:"payment_ref,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewOrder creates a PLACED order for the customer. The total is the sum of
// the item subtotals; an empty item list or an invalid customer is rejected.
func NewOrder(customer Customer, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}

	now := time.Now().UTC()
	return &Order{
		ID:        uuid.NewString(),
		Customer:  customer,
		Items:     append([]OrderItem(nil), items...),
		Status:    StatusPlaced,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkPaid transitions PLACED→PAID and records the payment confirmation.
func (o *Order) MarkPaid(paymentRef string) error {
	if o.Status != StatusPlaced {
		return fmt.Errorf("%w: cannot pay order in status %s", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusPaid
	o.PaymentRef = paymentRef
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkReady transitions PAID→READY.
func (o *Order) MarkReady() error {
	if o.Status != StatusPaid {
		return fmt.Errorf("%w: cannot ready order in status %s", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusReady
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel moves the order to CANCELLED. Allowed from every state; cancelling
// twice is a no-op.
func (o *Order) Cancel() {
	if o.Status == StatusCancelled {
		return
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy. Storage adapters hand out clones so callers
// can never mutate persisted state through a shared slice.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return &cp
}
