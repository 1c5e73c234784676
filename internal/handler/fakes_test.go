package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/repository"
	"github.com/iliyamo/car-wash-booking/internal/utils"
)

// In-memory stores standing in for the MySQL repositories.  They
// reproduce the contract the handlers rely on: sentinel errors, price
// snapshotting on booking create, single-shot capture.

type fakeUserStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}, nextID: 1}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User, password string, cost int) error {
	for _, ex := range s.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return repository.ErrUserExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.ID = s.nextID
	s.nextID++
	u.PasswordHash = hash
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByIdentifier(_ context.Context, identifier string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id uint64, fullName, phone, email string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	for oid, other := range s.users {
		if oid != id && other.Email == email {
			return model.User{}, repository.ErrEmailInUse
		}
	}
	u.FullName, u.Phone, u.Email = fullName, phone, email
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) HasAdmin(_ context.Context) (bool, error) {
	for _, u := range s.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type fakeServiceStore struct {
	services map[uint64]model.Service
	booked   map[uint64]bool // service ids referenced by bookings
	nextID   uint64
}

func newFakeServiceStore(seed ...model.Service) *fakeServiceStore {
	s := &fakeServiceStore{services: map[uint64]model.Service{}, booked: map[uint64]bool{}, nextID: 1}
	for _, sv := range seed {
		if sv.ID == 0 {
			sv.ID = s.nextID
		}
		if sv.ID >= s.nextID {
			s.nextID = sv.ID + 1
		}
		s.services[sv.ID] = sv
	}
	return s
}

func (s *fakeServiceStore) List(_ context.Context) ([]model.Service, error) {
	out := make([]model.Service, 0, len(s.services))
	for id := uint64(1); id < s.nextID; id++ {
		if sv, ok := s.services[id]; ok {
			out = append(out, sv)
		}
	}
	return out, nil
}

func (s *fakeServiceStore) GetByID(_ context.Context, id uint64) (model.Service, error) {
	sv, ok := s.services[id]
	if !ok {
		return model.Service{}, repository.ErrNotFound
	}
	return sv, nil
}

func (s *fakeServiceStore) Create(_ context.Context, sv *model.Service) error {
	sv.ID = s.nextID
	s.nextID++
	s.services[sv.ID] = *sv
	return nil
}

func (s *fakeServiceStore) Update(_ context.Context, sv *model.Service) error {
	if _, ok := s.services[sv.ID]; !ok {
		return repository.ErrNotFound
	}
	s.services[sv.ID] = *sv
	return nil
}

func (s *fakeServiceStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.services[id]; !ok {
		return repository.ErrNotFound
	}
	if s.booked[id] {
		return repository.ErrConflict
	}
	delete(s.services, id)
	return nil
}

type fakeBookingStore struct {
	services *fakeServiceStore
	bookings map[uint64]model.Booking
	nextID   uint64
}

func newFakeBookingStore(services *fakeServiceStore) *fakeBookingStore {
	return &fakeBookingStore{services: services, bookings: map[uint64]model.Booking{}, nextID: 1}
}

func (s *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	sv, ok := s.services.services[b.ServiceID]
	if !ok {
		return repository.ErrNotFound
	}
	b.ID = s.nextID
	s.nextID++
	b.TotalAmount = sv.Price
	b.Status = model.StatusPending
	b.PaymentStatus = model.PaymentPending
	b.CreatedAt = time.Now()
	s.bookings[b.ID] = *b
	s.services.booked[b.ServiceID] = true
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *fakeBookingStore) GetByOrderID(_ context.Context, orderID string) (model.Booking, error) {
	for _, b := range s.bookings {
		if b.PayPalOrderID != nil && *b.PayPalOrderID == orderID {
			return b, nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

func (s *fakeBookingStore) ListAll(_ context.Context) ([]model.Booking, error) {
	out := make([]model.Booking, 0, len(s.bookings))
	for id := uint64(1); id < s.nextID; id++ {
		if b, ok := s.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListForUser(_ context.Context, userID uint64, email string) ([]model.Booking, error) {
	var out []model.Booking
	for id := uint64(1); id < s.nextID; id++ {
		b, ok := s.bookings[id]
		if !ok {
			continue
		}
		if (b.UserID != nil && *b.UserID == userID) || (email != "" && b.CustomerEmail == email) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, id uint64, newStatus string) (model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	if !model.CanTransition(b.Status, newStatus) {
		return model.Booking{}, repository.ErrInvalidTransition
	}
	b.Status = newStatus
	s.bookings[id] = b
	return b, nil
}

func (s *fakeBookingStore) SetOrderID(_ context.Context, id uint64, orderID string) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.PayPalOrderID = &orderID
	s.bookings[id] = b
	return nil
}

func (s *fakeBookingStore) CompleteByOrderID(_ context.Context, orderID, captureID string) (bool, error) {
	for id, b := range s.bookings {
		if b.PayPalOrderID == nil || *b.PayPalOrderID != orderID {
			continue
		}
		if b.PaymentStatus != model.PaymentPending {
			return false, nil
		}
		now := time.Now()
		b.PaymentStatus = model.PaymentCompleted
		b.PayPalCaptureID = &captureID
		b.PaymentCompletedAt = &now
		s.bookings[id] = b
		return true, nil
	}
	return false, repository.ErrNotFound
}

// ----- request helpers -----

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}
