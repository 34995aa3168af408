// Package notify provides the notifier adapters: a console printer for
// local runs, an AMQP publisher for downstream consumers, and a composite
// that fans out to several notifiers at once.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cafedev/brewline/internal/core/domain"
	"github.com/cafedev/brewline/internal/core/ports"
)

// Console prints human-readable order notifications. Useful for local
// development and demos where the terminal is the customer.
type Console struct {
	out io.Writer
}

var _ ports.Notifier = (*Console)(nil)

// NewConsole writes notifications to w; nil defaults to stdout.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

// NotifyOrderPlaced prints the receipt for a freshly placed order.
func (c *Console) NotifyOrderPlaced(ctx context.Context, order *domain.Order) error {
	var lines []string
	lines = append(lines,
		"Order placed!",
		fmt.Sprintf("  Order ID: %s", order.ID),
		fmt.Sprintf("  Customer: %s", customerLine(order.Customer)),
	)
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("  - %s  $%.2f", item.Description, item.Subtotal()))
	}
	lines = append(lines,
		fmt.Sprintf("  Total: $%.2f", order.Total),
		fmt.Sprintf("  Status: %s", order.Status),
	)
	return c.write(lines)
}

// NotifyOrderReady prints the pickup call.
func (c *Console) NotifyOrderReady(ctx context.Context, order *domain.Order) error {
	return c.write([]string{
		"Order ready for pickup!",
		fmt.Sprintf("  Order ID: %s", order.ID),
		fmt.Sprintf("  Customer: %s", order.Customer.Name),
		"  Please come to the counter.",
	})
}

// NotifyOrderCancelled prints the cancellation notice.
func (c *Console) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	return c.write([]string{
		"Order cancelled",
		fmt.Sprintf("  Order ID: %s", order.ID),
		fmt.Sprintf("  Customer: %s", order.Customer.Name),
	})
}

func (c *Console) write(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return fmt.Errorf("notify: console write: %w", err)
		}
	}
	return nil
}

func customerLine(c domain.Customer) string {
	if c.Email != "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.Email)
	}
	return c.Name
}
