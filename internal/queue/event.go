// Package queue defines the domain events exchanged over the message
// broker and the plumbing to publish and consume them.  Events are
// best-effort: a broker outage never fails the originating request.
package queue

// Event is implemented by every payload published to the broker.  Kind is
// the routing discriminator stored in the envelope's type field.
type Event interface {
	Kind() string
}

// BookingCreatedEvent is published when a booking is stored.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID    uint64  `json:"booking_id"`
	UserID       *uint64 `json:"user_id,omitempty"`
	ServiceID    uint64  `json:"service_id"`
	ServiceName  string  `json:"service_name,omitempty"`
	BookingDate  string  `json:"booking_date"`
	BookingTime  string  `json:"booking_time"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
	CreatedAt    string  `json:"created_at"`
}

func (BookingCreatedEvent) Kind() string { return "booking.created" }

// PaymentCapturedEvent is published when a booking's payment is captured.
type PaymentCapturedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	OrderID     string  `json:"order_id"`
	CaptureID   string  `json:"capture_id"`
	Amount      float64 `json:"amount"`
	CompletedAt string  `json:"completed_at"`
}

func (PaymentCapturedEvent) Kind() string { return "payment.captured" }

// envelope wraps an event on the wire so the consumer can dispatch on type.
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
