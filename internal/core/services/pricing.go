// Package services holds the application layer: the pricing calculator and
// the order workflow that orchestrates the repository, payment and notifier
// ports. Nothing in here knows which concrete adapters are wired in.
package services

import (
	"errors"
	"fmt"

	"github.com/cafedev/brewline/internal/core/domain"
)

// Workflow error kinds. Callers branch with errors.Is; the original cause
// stays readable in the message.
var (
	// ErrInvalidOrder covers bad input: no beverages, broken customer data.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrPersistenceFailed covers repository failures.
	ErrPersistenceFailed = errors.New("order persistence failed")
	// ErrPaymentFailed covers charge failures; the order stays PLACED.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrNotificationFailed marks notification errors in logs. It never
	// fails the workflow.
	ErrNotificationFailed = errors.New("notification failed")
)

// PricingCalculator totals a list of beverages. It only sums: every pricing
// rule (size multipliers, extra shots, extra fruits) lives inside the
// beverage implementations themselves, so new variants never touch this.
type PricingCalculator struct{}

// NewPricingCalculator returns a calculator.
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// CalculateTotal returns the exact sum of each beverage's own price.
// An empty list is an ErrInvalidOrder; there is nothing to total.
func (c *PricingCalculator) CalculateTotal(beverages []domain.Beverage) (float64, error) {
	if len(beverages) == 0 {
		return 0, fmt.Errorf("%w: order must contain at least one beverage", ErrInvalidOrder)
	}

	var total float64
	for _, b := range beverages {
		total += b.Price()
	}
	return total, nil
}
