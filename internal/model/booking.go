package model

import "time"

// Booking mirrors a row of the `bookings` table.  It is the central
// aggregate of the system: user and service are weak references, while the
// customer_* columns snapshot contact and vehicle details at booking time
// so later profile edits do not rewrite history.  TotalAmount is copied
// from the service price when the booking is created and is never
// recomputed afterwards.
type Booking struct {
	ID                 uint64     `json:"id"`
	UserID             *uint64    `json:"user_id,omitempty"`
	ServiceID          uint64     `json:"service_id"`
	BookingDate        string     `json:"booking_date"` // YYYY-MM-DD
	BookingTime        string     `json:"booking_time"` // HH:MM
	CustomerName       string     `json:"customer_name"`
	CustomerPhone      string     `json:"customer_phone"`
	CustomerEmail      string     `json:"customer_email"`
	CarType            string     `json:"car_type"`
	LicensePlate       string     `json:"license_plate"`
	CarColor           string     `json:"car_color"`
	Notes              string     `json:"notes"`
	Status             string     `json:"status"`
	TotalAmount        float64    `json:"total_amount"`
	PaymentStatus      string     `json:"payment_status"`
	PayPalOrderID      *string    `json:"paypal_order_id,omitempty"`
	PayPalCaptureID    *string    `json:"paypal_capture_id,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
