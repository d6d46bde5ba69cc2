// Package ports declares the external collaborators of order creation.
// Payment capture and push delivery are managed services; only their
// interfaces live here.
package ports

import (
	"context"
	"errors"
)

// ErrPaymentDeclined is returned by providers when the charge is refused for
// a customer-side reason (insufficient funds, blocked card). Anything else is
// an infrastructure failure.
var ErrPaymentDeclined = errors.New("payment declined")

// PaymentProvider authorizes the charge for an order before it is persisted.
//
//go:generate mockgen -source=ports.go -destination=../mocks/ports_mock.go -package=mocks
type PaymentProvider interface {
	// Authorize places a hold for the amount and returns the provider's
	// payment reference.
	Authorize(ctx context.Context, userID string, amountCents int64) (string, error)
}

// Notifier delivers order lifecycle pushes. Best-effort; order creation never
// fails on a notification error.
type Notifier interface {
	OrderCreated(ctx context.Context, userID, orderID string) error
}
