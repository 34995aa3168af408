package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidCustomer is returned when a customer is missing its identity.
var ErrInvalidCustomer = errors.New("domain: customer needs an id and a name")

// Customer identifies who placed an order. Email and phone are optional
// contact channels used only for notification delivery.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NewCustomer creates a customer with a generated ID.
func NewCustomer(name, email, phone string) Customer {
	return Customer{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
}

// Validate checks the customer can be attached to an order.
func (c Customer) Validate() error {
	if c.ID == "" || strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCustomer
	}
	return nil
}
