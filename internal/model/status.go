package model

// Booking lifecycle statuses.  A booking starts as StatusPending and moves
// forward through the ordered flow below; StatusCancelled is reachable from
// any non-terminal state.  StatusCompleted and StatusCancelled are terminal.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment statuses stored in bookings.payment_status.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// StatusTransitions defines the allowed booking status transitions as data
// rather than scattered conditionals, so the policy can be adjusted in one
// place.  An empty slice marks a terminal state.
var StatusTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a booking may move from one status to
// another.  Unknown source statuses are never allowed to transition.
func CanTransition(from, to string) bool {
	for _, next := range StatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	_, ok := StatusTransitions[s]
	return ok
}
