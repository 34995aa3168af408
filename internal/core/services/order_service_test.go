package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
	"github.com/cafedev/brewline/internal/orderlog"
)

// fakeRepo stores clones like a real backend, so mutations on the order the
// workflow holds never leak into "persisted" state.
type fakeRepo struct {
	orders    map[string]*domain.Order
	saveErr   error
	updateErr error
	findErr   error
	saves     int
	updates   int
}

var _ ports.OrderRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeRepo) Save(ctx context.Context, order *domain.Order) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.orders[order.ID]; ok {
		return ports.ErrOrderExists
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (r *fakeRepo) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.Customer.ID == customerID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, order *domain.Order) error {
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.orders[order.ID]; !ok {
		return ports.ErrOrderNotFound
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

// single returns the only stored order; fails the test otherwise.
func (r *fakeRepo) single(t *testing.T) *domain.Order {
	t.Helper()
	require.Len(t, r.orders, 1)
	for _, o := range r.orders {
		return o
	}
	return nil
}

type fakePayment struct {
	ref     string
	err     error
	calls   int
	amounts []float64
}

var _ ports.PaymentProcessor = (*fakePayment)(nil)

func (p *fakePayment) ProcessPayment(ctx context.Context, amount float64) (string, error) {
	p.calls++
	p.amounts = append(p.amounts, amount)
	if p.err != nil {
		return "", p.err
	}
	return p.ref, nil
}

func (p *fakePayment) Name() string { return "Fake" }

type fakeNotifier struct {
	placed    int
	ready     int
	cancelled int
	err       error
}

var _ ports.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) NotifyOrderPlaced(ctx context.Context, order *domain.Order) error {
	n.placed++
	return n.err
}

func (n *fakeNotifier) NotifyOrderReady(ctx context.Context, order *domain.Order) error {
	n.ready++
	return n.err
}

func (n *fakeNotifier) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	n.cancelled++
	return n.err
}

type fakeRecorder struct {
	entries []*orderlog.Entry
	err     error
}

var _ orderlog.Recorder = (*fakeRecorder)(nil)

func (r *fakeRecorder) Record(ctx context.Context, entry *orderlog.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRecorder) eventNames() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Event)
	}
	return names
}

type workflowFixture struct {
	service  *OrderService
	repo     *fakeRepo
	payment  *fakePayment
	notifier *fakeNotifier
	events   *fakeRecorder
}

func newFixture() *workflowFixture {
	f := &workflowFixture{
		repo:     newFakeRepo(),
		payment:  &fakePayment{ref: "PAY-1"},
		notifier: &fakeNotifier{},
		events:   &fakeRecorder{},
	}
	f.service = NewOrderService(f.repo, f.payment, f.notifier, NewPricingCalculator(), f.events)
	return f
}

func alice() domain.Customer {
	return domain.NewCustomer("Alice", "alice@example.com", "")
}

func twoBeverages() []domain.Beverage {
	return []domain.Beverage{
		stubBeverage{name: "Coffee", price: 3.00},
		stubBeverage{name: "Tea", price: 2.50},
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	f := newFixture()

	order, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.Equal(t, "PAY-1", order.PaymentRef)
	assert.InDelta(t, 5.50, order.Total, 0.0001)

	// The charge amount is exactly the calculator total.
	require.Equal(t, 1, f.payment.calls)
	assert.InDelta(t, 5.50, f.payment.amounts[0], 0.0001)

	// Persisted state matches what was returned.
	stored := f.repo.single(t)
	assert.Equal(t, domain.StatusPaid, stored.Status)
	assert.Equal(t, "PAY-1", stored.PaymentRef)

	assert.Equal(t, 1, f.notifier.placed)
	assert.Equal(t, []string{orderlog.EventOrderPlaced, orderlog.EventPaymentCaptured}, f.events.eventNames())
}

func TestPlaceOrderKeepsItemSequence(t *testing.T) {
	f := newFixture()

	order, err := f.service.PlaceOrder(context.Background(), alice(), []domain.Beverage{
		domain.NewCoffee(domain.SizeMedium, 0),
		domain.NewTea(domain.SizeLarge, "Green"),
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Coffee", order.Items[0].Name)
	assert.Equal(t, "Green Tea", order.Items[1].Name)
	assert.InDelta(t, 6.50, order.Total, 0.0001)
}

func TestPlaceOrderEmptyBeverages(t *testing.T) {
	f := newFixture()

	_, err := f.service.PlaceOrder(context.Background(), alice(), nil)
	require.ErrorIs(t, err, ErrInvalidOrder)

	// No collaborator was touched.
	assert.Equal(t, 0, f.repo.saves)
	assert.Equal(t, 0, f.payment.calls)
	assert.Equal(t, 0, f.notifier.placed)
	assert.Empty(t, f.events.entries)
}

func TestPlaceOrderInvalidCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.service.PlaceOrder(context.Background(), domain.Customer{}, twoBeverages())
	require.ErrorIs(t, err, ErrInvalidOrder)

	assert.Equal(t, 0, f.repo.saves)
	assert.Equal(t, 0, f.payment.calls)
}

func TestPlaceOrderSaveFailureSkipsPayment(t *testing.T) {
	f := newFixture()
	f.repo.saveErr = errors.New("disk full")

	_, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.ErrorIs(t, err, ErrPersistenceFailed)

	// Payment is never attempted when the initial save fails.
	assert.Equal(t, 0, f.payment.calls)
	assert.Equal(t, 0, f.notifier.placed)
}

func TestPlaceOrderPaymentFailureLeavesOrderPlaced(t *testing.T) {
	f := newFixture()
	f.payment.err = ports.ErrPaymentDeclined

	_, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.ErrorIs(t, err, ErrPaymentFailed)

	// The order survives in the repository, still PLACED and unpaid.
	stored := f.repo.single(t)
	assert.Equal(t, domain.StatusPlaced, stored.Status)
	assert.Empty(t, stored.PaymentRef)

	assert.Equal(t, 0, f.repo.updates)
	assert.Equal(t, 0, f.notifier.placed)
	assert.Equal(t, []string{orderlog.EventOrderPlaced, orderlog.EventPaymentFailed}, f.events.eventNames())
}

func TestPlaceOrderUpdateFailureAfterPayment(t *testing.T) {
	f := newFixture()
	f.repo.updateErr = errors.New("connection reset")

	_, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.ErrorIs(t, err, ErrPersistenceFailed)

	// The charge happened; the stored order still reads PLACED.
	assert.Equal(t, 1, f.payment.calls)
	stored := f.repo.single(t)
	assert.Equal(t, domain.StatusPlaced, stored.Status)
}

func TestPlaceOrderNotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")

	order, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestPlaceOrderRecorderFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("disk full")

	order, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestPlaceOrderWithoutRecorder(t *testing.T) {
	f := newFixture()
	f.service = NewOrderService(f.repo, f.payment, f.notifier, NewPricingCalculator(), nil)

	order, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestGetOrder(t *testing.T) {
	f := newFixture()

	placed, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)

	got, err := f.service.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	assert.Equal(t, domain.StatusPaid, got.Status)

	_, err = f.service.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestListCustomerOrders(t *testing.T) {
	f := newFixture()
	customer := alice()

	_, err := f.service.PlaceOrder(context.Background(), customer, twoBeverages())
	require.NoError(t, err)
	_, err = f.service.PlaceOrder(context.Background(), domain.NewCustomer("Bob", "", ""), twoBeverages())
	require.NoError(t, err)

	orders, err := f.service.ListCustomerOrders(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, customer.ID, orders[0].Customer.ID)

	all, err := f.service.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkOrderReady(t *testing.T) {
	f := newFixture()

	placed, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)

	ready, err := f.service.MarkOrderReady(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, ready.Status)

	stored := f.repo.single(t)
	assert.Equal(t, domain.StatusReady, stored.Status)
	assert.Equal(t, 1, f.notifier.ready)
}

func TestMarkOrderReadyRequiresPaid(t *testing.T) {
	f := newFixture()
	f.payment.err = ports.ErrPaymentDeclined

	_, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.ErrorIs(t, err, ErrPaymentFailed)

	stored := f.repo.single(t)
	_, err = f.service.MarkOrderReady(context.Background(), stored.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 0, f.notifier.ready)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture()

	placed, err := f.service.PlaceOrder(context.Background(), alice(), twoBeverages())
	require.NoError(t, err)

	cancelled, err := f.service.CancelOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	stored := f.repo.single(t)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 1, f.notifier.cancelled)
}

func TestCancelOrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.CancelOrder(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}
