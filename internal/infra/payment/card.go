package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cafedev/brewline/internal/core/ports"
)

// DefaultCardLimit is the per-charge ceiling used when no limit is
// configured.
const DefaultCardLimit = 1000.00

// Card simulates a credit card gateway: it validates the amount, enforces a
// per-charge limit and returns a CARD-prefixed confirmation token. A real
// gateway client would slot in behind the same interface.
type Card struct {
	limit float64
}

var _ ports.PaymentProcessor = Card{}

// NewCard returns a card processor with the given per-charge limit.
// Non-positive limits fall back to DefaultCardLimit.
func NewCard(limit float64) Card {
	if limit <= 0 {
		limit = DefaultCardLimit
	}
	return Card{limit: limit}
}

// ProcessPayment charges the card. Non-positive amounts are invalid and
// amounts above the limit are declined.
func (c Card) ProcessPayment(ctx context.Context, amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: %.2f", ports.ErrInvalidAmount, amount)
	}
	if amount > c.limit {
		return "", fmt.Errorf("%w: amount %.2f exceeds card limit %.2f", ports.ErrPaymentDeclined, amount, c.limit)
	}

	ref := "CARD-" + uuid.NewString()
	slog.InfoContext(ctx, "card payment captured", "amount", amount, "payment_ref", ref)
	return ref, nil
}

// Name identifies the method on receipts.
func (Card) Name() string { return "Credit Card" }
