package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/queue"
	"github.com/iliyamo/car-wash-booking/internal/repository"
)

// BookingHandler manages the booking lifecycle.  Creation is open to
// guests; listing and reading are scoped by role; status transitions are
// admin-only (enforced by route middleware).
type BookingHandler struct {
	Bookings BookingStore
	Users    UserStore
	Publish  queue.PublishFunc
}

func NewBookingHandler(bookings BookingStore, users UserStore, publish queue.PublishFunc) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Users: users, Publish: publish}
}

type createBookingReq struct {
	ServiceID     uint64 `json:"service_id" validate:"required"`
	BookingDate   string `json:"booking_date" validate:"required"`
	BookingTime   string `json:"booking_time" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CarType       string `json:"car_type"`
	LicensePlate  string `json:"license_plate"`
	CarColor      string `json:"car_color"`
	Notes         string `json:"notes"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// Create stores a new booking.  The total amount is snapshotted from the
// referenced service's current price inside the repository transaction.
// When a valid token accompanied the request (OptionalJWT), the booking is
// tied to that account; otherwise it is a guest booking.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service, date, time, customer name and phone are required"})
	}
	if _, err := time.Parse("2006-01-02", req.BookingDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		if _, err := time.Parse("15:04:05", req.BookingTime); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_time must be HH:MM"})
		}
	}

	b := model.Booking{
		ServiceID:     req.ServiceID,
		BookingDate:   req.BookingDate,
		BookingTime:   req.BookingTime,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CarType:       req.CarType,
		LicensePlate:  req.LicensePlate,
		CarColor:      req.CarColor,
		Notes:         req.Notes,
	}
	if uid, err := userIDFromContext(c); err == nil {
		b.UserID = &uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Create(ctx, &b); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	if h.Publish != nil {
		// Best-effort event; a broker outage must not fail the booking.
		_ = h.Publish(ctx, queue.BookingCreatedEvent{
			BookingID:    b.ID,
			UserID:       b.UserID,
			ServiceID:    b.ServiceID,
			BookingDate:  b.BookingDate,
			BookingTime:  b.BookingTime,
			CustomerName: b.CustomerName,
			TotalAmount:  b.TotalAmount,
			CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": b,
	})
}

// List returns bookings scoped by role: admins see everything, customers
// see their own rows plus guest bookings made with their email.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if roleFromContext(c) == model.RoleAdmin {
		bookings, err := h.Bookings.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
		return h.respondList(c, bookings)
	}

	uid, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	bookings, err := h.Bookings.ListForUser(ctx, uid, u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return h.respondList(c, bookings)
}

func (h *BookingHandler) respondList(c echo.Context, bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Get returns a single booking.  Customers only see their own; a booking
// owned by someone else is indistinguishable from a missing one.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	if roleFromContext(c) != model.RoleAdmin {
		uid, err := userIDFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		owned := b.UserID != nil && *b.UserID == uid
		if !owned {
			u, err := h.Users.GetByID(ctx, uid)
			if err != nil || b.CustomerEmail == "" || b.CustomerEmail != u.Email {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking": b})
}

// UpdateStatus transitions the booking lifecycle.  Admin only.  The
// transition table in internal/model decides what is allowed.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil || !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	switch err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case repository.ErrInvalidTransition:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Booking status updated",
		"booking": b,
	})
}
