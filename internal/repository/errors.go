// Package repository provides data access for the users, services and
// bookings tables.  This file defines sentinel errors shared across the
// repositories so handlers can map failure scenarios onto the HTTP error
// taxonomy without inspecting SQL error text themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested row does not exist.  Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// dependent or duplicate state, such as deleting a service that still has
// bookings.  Handlers translate this into an HTTP 400 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a booking status update is not
// permitted by the lifecycle policy.
var ErrInvalidTransition = errors.New("invalid status transition")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  Uniqueness of username/email is enforced by the schema;
// this translation closes the check-then-insert race window.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
