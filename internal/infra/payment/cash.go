// Package payment provides the payment processor adapters. Each one
// implements ports.PaymentProcessor; the workflow never knows which is
// wired in.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cafedev/brewline/internal/core/ports"
)

// Cash approves every positive charge at the counter.
type Cash struct{}

var _ ports.PaymentProcessor = Cash{}

// NewCash returns the cash processor.
func NewCash() Cash {
	return Cash{}
}

// ProcessPayment accepts the amount and returns a CASH-prefixed token.
func (Cash) ProcessPayment(ctx context.Context, amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: %.2f", ports.ErrInvalidAmount, amount)
	}

	ref := "CASH-" + uuid.NewString()
	slog.InfoContext(ctx, "cash payment accepted", "amount", amount, "payment_ref", ref)
	return ref, nil
}

// Name identifies the method on receipts.
func (Cash) Name() string { return "Cash" }
