package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafedev/brewline/internal/core/domain"
)

// stubBeverage prices itself at a fixed value so totals are exact.
type stubBeverage struct {
	name  string
	price float64
}

func (b stubBeverage) Name() string        { return b.name }
func (b stubBeverage) Description() string { return "Medium " + b.name }
func (b stubBeverage) Size() domain.Size   { return domain.SizeMedium }
func (b stubBeverage) Price() float64      { return b.price }

func TestCalculateTotalSumsEachPrice(t *testing.T) {
	calc := NewPricingCalculator()

	total, err := calc.CalculateTotal([]domain.Beverage{
		stubBeverage{name: "Coffee", price: 3.00},
		stubBeverage{name: "Tea", price: 2.50},
	})
	require.NoError(t, err)

	assert.InDelta(t, 5.50, total, 0.0001)
}

func TestCalculateTotalEmptyFails(t *testing.T) {
	calc := NewPricingCalculator()

	_, err := calc.CalculateTotal(nil)
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = calc.CalculateTotal([]domain.Beverage{})
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCalculateTotalSingleBeverage(t *testing.T) {
	calc := NewPricingCalculator()

	total, err := calc.CalculateTotal([]domain.Beverage{stubBeverage{name: "Coffee", price: 3.50}})
	require.NoError(t, err)

	assert.InDelta(t, 3.50, total, 0.0001)
}

func TestCalculateTotalWithMenuBeverages(t *testing.T) {
	calc := NewPricingCalculator()

	// Medium coffee 3.50 + large green tea 2.50*1.2 + two-fruit smoothie 5.50.
	total, err := calc.CalculateTotal([]domain.Beverage{
		domain.NewCoffee(domain.SizeMedium, 0),
		domain.NewTea(domain.SizeLarge, "Green"),
		domain.NewSmoothie(domain.SizeMedium, []string{"Strawberry", "Banana"}),
	})
	require.NoError(t, err)

	assert.InDelta(t, 12.00, total, 0.0001)
}
