package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// Exchange is the fan-out exchange order events are published to. Fan-out
// because every consumer (kitchen display, SMS sender, analytics) gets
// every event; consumers bind their own queues.
const Exchange = "order_notifications"

// AMQP publishes order lifecycle events to RabbitMQ as JSON messages.
type AMQP struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ ports.Notifier = (*AMQP)(nil)

// orderEvent is the published message body.
type orderEvent struct {
	Event        string    `json:"event"`
	OrderID      string    `json:"order_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	PaymentRef   string    `json:"payment_ref,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewAMQP connects to RabbitMQ at url and declares the durable fan-out
// exchange.
func NewAMQP(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		Exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify: declare exchange: %w", err)
	}

	return &AMQP{conn: conn, channel: channel}, nil
}

// Close releases the channel and connection.
func (n *AMQP) Close() {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

func (n *AMQP) NotifyOrderPlaced(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, "order.placed", order)
}

func (n *AMQP) NotifyOrderReady(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, "order.ready", order)
}

func (n *AMQP) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, "order.cancelled", order)
}

func (n *AMQP) publish(ctx context.Context, event string, order *domain.Order) error {
	body, err := json.Marshal(orderEvent{
		Event:        event,
		OrderID:      order.ID,
		CustomerID:   order.Customer.ID,
		CustomerName: order.Customer.Name,
		Status:       string(order.Status),
		Total:        order.Total,
		PaymentRef:   order.PaymentRef,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("notify: encode %s event: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(ctx,
		Exchange, // exchange
		"",       // routing key (ignored by fanout)
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("notify: publish %s for order %s: %w", event, order.ID, err)
	}
	return nil
}
