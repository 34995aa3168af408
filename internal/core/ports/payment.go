package ports

import (
	"context"
	"errors"
)

var (
	// ErrPaymentDeclined means the processor refused the charge.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrInvalidAmount means the charge amount itself was unusable.
	ErrInvalidAmount = errors.New("invalid payment amount")
)

// PaymentProcessor charges a customer. One call is one charge attempt — the
// workflow never retries on its own, so implementations that talk to real
// gateways should make repeat calls safe on their side.
type PaymentProcessor interface {
	// ProcessPayment charges the amount and returns a confirmation token
	// on success. Declines wrap ErrPaymentDeclined or ErrInvalidAmount.
	ProcessPayment(ctx context.Context, amount float64) (string, error)
	// Name identifies the payment method on receipts, e.g. "Cash".
	Name() string
}
