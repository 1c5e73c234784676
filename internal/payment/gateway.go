// Package payment drives the booking payment flow against an external
// payment gateway.  The gateway itself is opaque to the rest of the
// application: handlers depend on the Gateway interface and see any
// failure as ErrGateway regardless of its transport-level cause.
package payment

import (
	"context"
	"errors"
)

// ErrGateway wraps every downstream payment failure: transport errors,
// non-2xx responses and malformed bodies.  Handlers map it to HTTP 502.
var ErrGateway = errors.New("payment gateway error")

// ErrNotConfigured is returned when the gateway credentials are absent.
var ErrNotConfigured = errors.New("payment gateway not configured")

// Order is the result of creating a payment order at the gateway.
type Order struct {
	ID     string
	Status string
}

// Capture is the result of capturing a previously created order.
type Capture struct {
	CaptureID string
	Status    string
}

// Gateway abstracts the two-phase payment flow: create an order for an
// amount, then capture it once the payer approves.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (Order, error)
	CaptureOrder(ctx context.Context, orderID string) (Capture, error)
}
