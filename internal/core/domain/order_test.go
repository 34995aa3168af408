package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomer() Customer {
	return NewCustomer("Test User", "test@example.com", "")
}

func testItem() OrderItem {
	return OrderItem{Name: "Coffee", Description: "Medium Coffee", Price: 3.50, Quantity: 1}
}

func TestNewOrder(t *testing.T) {
	order, err := NewOrder(testCustomer(), []OrderItem{testItem()})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, StatusPlaced, order.Status)
	assert.InDelta(t, 3.50, order.Total, 0.001)
	assert.Empty(t, order.PaymentRef)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrderRejectsEmptyItems(t *testing.T) {
	_, err := NewOrder(testCustomer(), nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestNewOrderRejectsInvalidCustomer(t *testing.T) {
	_, err := NewOrder(Customer{}, []OrderItem{testItem()})
	require.ErrorIs(t, err, ErrInvalidCustomer)
}

func TestNewOrderTotalSumsSubtotals(t *testing.T) {
	items := []OrderItem{
		{Name: "Coffee", Price: 3.50, Quantity: 2},
		{Name: "Green Tea", Price: 3.00, Quantity: 1},
	}

	order, err := NewOrder(testCustomer(), items)
	require.NoError(t, err)

	assert.InDelta(t, 10.00, order.Total, 0.001)
}

func TestNewOrderPreservesItemOrder(t *testing.T) {
	items := []OrderItem{
		{Name: "Coffee", Price: 3.00, Quantity: 1},
		{Name: "Green Tea", Price: 2.50, Quantity: 1},
	}

	order, err := NewOrder(testCustomer(), items)
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Coffee", order.Items[0].Name)
	assert.Equal(t, "Green Tea", order.Items[1].Name)
}

func TestOrderLifecycle(t *testing.T) {
	order, err := NewOrder(testCustomer(), []OrderItem{testItem()})
	require.NoError(t, err)

	require.NoError(t, order.MarkPaid("CASH-123"))
	assert.Equal(t, StatusPaid, order.Status)
	assert.Equal(t, "CASH-123", order.PaymentRef)

	require.NoError(t, order.MarkReady())
	assert.Equal(t, StatusReady, order.Status)

	order.Cancel()
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestOrderTransitionGuards(t *testing.T) {
	order, err := NewOrder(testCustomer(), []OrderItem{testItem()})
	require.NoError(t, err)

	// Cannot ready an unpaid order.
	require.ErrorIs(t, order.MarkReady(), ErrInvalidTransition)

	require.NoError(t, order.MarkPaid("CASH-123"))

	// Cannot pay twice.
	require.ErrorIs(t, order.MarkPaid("CASH-456"), ErrInvalidTransition)
	assert.Equal(t, "CASH-123", order.PaymentRef)
}

func TestOrderCancelFromAnyStatus(t *testing.T) {
	for _, status := range []OrderStatus{StatusPlaced, StatusPaid, StatusReady} {
		t.Run(string(status), func(t *testing.T) {
			order, err := NewOrder(testCustomer(), []OrderItem{testItem()})
			require.NoError(t, err)

			order.Status = status
			order.Cancel()
			assert.Equal(t, StatusCancelled, order.Status)
		})
	}
}

func TestOrderClone(t *testing.T) {
	order, err := NewOrder(testCustomer(), []OrderItem{testItem()})
	require.NoError(t, err)

	cp := order.Clone()
	cp.Items[0].Price = 99.0
	cp.Status = StatusCancelled

	assert.InDelta(t, 3.50, order.Items[0].Price, 0.001)
	assert.Equal(t, StatusPlaced, order.Status)
}

func TestItemFromBeverage(t *testing.T) {
	item := ItemFromBeverage(NewCoffee(SizeLarge, 1))

	assert.Equal(t, "Coffee (+1 shot)", item.Name)
	assert.Equal(t, "Large Coffee (+1 shot)", item.Description)
	assert.InDelta(t, 5.10, item.Price, 0.001)
	assert.Equal(t, 1, item.Quantity)
}
