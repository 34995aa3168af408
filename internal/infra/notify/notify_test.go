package notify

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafedev/brewline/internal/core/domain"
)

func testOrder(t *testing.T) *domain.Order {
	t.Helper()
	customer := domain.Customer{ID: "cust-1", Name: "Alice", Email: "alice@example.com"}
	order, err := domain.NewOrder(customer, []domain.OrderItem{
		domain.ItemFromBeverage(domain.NewCoffee(domain.SizeMedium, 0)),
		domain.ItemFromBeverage(domain.NewTea(domain.SizeLarge, "Green")),
	})
	require.NoError(t, err)
	return order
}

func TestConsolePrintsReceipt(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	order := testOrder(t)

	require.NoError(t, console.NotifyOrderPlaced(context.Background(), order))

	out := buf.String()
	assert.Contains(t, out, "Order placed!")
	assert.Contains(t, out, order.ID)
	assert.Contains(t, out, "Alice (alice@example.com)")
	assert.Contains(t, out, "Medium Coffee")
	assert.Contains(t, out, "Large Green Tea")
	assert.Contains(t, out, "$3.00")
	assert.Contains(t, out, "Total: $6.50")
	assert.Contains(t, out, "PLACED")
}

func TestConsoleReadyAndCancelled(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	order := testOrder(t)

	require.NoError(t, console.NotifyOrderReady(context.Background(), order))
	assert.Contains(t, buf.String(), "Order ready for pickup!")

	buf.Reset()
	require.NoError(t, console.NotifyOrderCancelled(context.Background(), order))
	assert.Contains(t, buf.String(), "Order cancelled")
}

func TestConsoleOmitsMissingEmail(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	order := testOrder(t)
	order.Customer.Email = ""

	require.NoError(t, console.NotifyOrderPlaced(context.Background(), order))

	out := buf.String()
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "()")
}

type countingNotifier struct {
	placed    atomic.Int64
	ready     atomic.Int64
	cancelled atomic.Int64
	err       error
}

func (n *countingNotifier) NotifyOrderPlaced(ctx context.Context, order *domain.Order) error {
	n.placed.Add(1)
	return n.err
}

func (n *countingNotifier) NotifyOrderReady(ctx context.Context, order *domain.Order) error {
	n.ready.Add(1)
	return n.err
}

func (n *countingNotifier) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	n.cancelled.Add(1)
	return n.err
}

func TestCompositeFansOutToAll(t *testing.T) {
	first := &countingNotifier{}
	second := &countingNotifier{}
	composite := NewComposite(first, second)
	order := testOrder(t)

	require.NoError(t, composite.NotifyOrderPlaced(context.Background(), order))
	require.NoError(t, composite.NotifyOrderReady(context.Background(), order))
	require.NoError(t, composite.NotifyOrderCancelled(context.Background(), order))

	assert.Equal(t, int64(1), first.placed.Load())
	assert.Equal(t, int64(1), second.placed.Load())
	assert.Equal(t, int64(1), first.ready.Load())
	assert.Equal(t, int64(1), second.ready.Load())
	assert.Equal(t, int64(1), first.cancelled.Load())
	assert.Equal(t, int64(1), second.cancelled.Load())
}

func TestCompositeReportsFailureButTriesEveryone(t *testing.T) {
	sendErr := errors.New("smtp down")
	failing := &countingNotifier{err: sendErr}
	healthy := &countingNotifier{}
	composite := NewComposite(failing, healthy)

	err := composite.NotifyOrderPlaced(context.Background(), testOrder(t))

	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, int64(1), failing.placed.Load())
	assert.Equal(t, int64(1), healthy.placed.Load())
}

// slowNotifier honours context cancellation the way the AMQP publisher
// does: it only delivers if the context is still alive when its work is
// done.
type slowNotifier struct {
	delay     time.Duration
	delivered atomic.Int64
}

func (n *slowNotifier) send(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(n.delay):
		n.delivered.Add(1)
		return nil
	}
}

func (n *slowNotifier) NotifyOrderPlaced(ctx context.Context, _ *domain.Order) error {
	return n.send(ctx)
}

func (n *slowNotifier) NotifyOrderReady(ctx context.Context, _ *domain.Order) error {
	return n.send(ctx)
}

func (n *slowNotifier) NotifyOrderCancelled(ctx context.Context, _ *domain.Order) error {
	return n.send(ctx)
}

func TestCompositeFailureDoesNotCancelSiblings(t *testing.T) {
	failing := &countingNotifier{err: errors.New("smtp down")}
	slow := &slowNotifier{delay: 50 * time.Millisecond}
	composite := NewComposite(failing, slow)

	err := composite.NotifyOrderPlaced(context.Background(), testOrder(t))

	// The fast failure is reported, but the slow channel still delivers:
	// the fan-out must not cancel the caller's context out from under it.
	require.Error(t, err)
	assert.Equal(t, int64(1), slow.delivered.Load())
}

func TestCompositeWithNoChildrenIsNoop(t *testing.T) {
	composite := NewComposite()
	assert.NoError(t, composite.NotifyOrderPlaced(context.Background(), testOrder(t)))
}
