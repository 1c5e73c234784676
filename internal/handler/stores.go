package handler

import (
	"context"

	"github.com/iliyamo/car-wash-booking/internal/model"
)

// The store interfaces describe exactly what the handlers need from the
// persistence layer.  internal/repository provides the MySQL
// implementations; tests substitute in-memory fakes.

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User, password string, cost int) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (model.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, fullName, phone, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// ServiceStore persists the service catalog.
type ServiceStore interface {
	List(ctx context.Context) ([]model.Service, error)
	GetByID(ctx context.Context, id uint64) (model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uint64) error
}

// BookingStore persists bookings and their payment state.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListForUser(ctx context.Context, userID uint64, email string) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, newStatus string) (model.Booking, error)
	SetOrderID(ctx context.Context, id uint64, orderID string) error
	CompleteByOrderID(ctx context.Context, orderID, captureID string) (bool, error)
}
