package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/payment"
	"github.com/iliyamo/car-wash-booking/internal/queue"
	"github.com/iliyamo/car-wash-booking/internal/repository"
)

// PaymentHandler drives the booking payment flow: create a gateway order
// for a booking's total, then capture it.  Capture is idempotent at the
// database: the pending->completed transition applies at most once per
// order no matter how often the endpoint is called.
type PaymentHandler struct {
	Bookings BookingStore
	Gateway  payment.Gateway
	Currency string
	Publish  queue.PublishFunc
}

func NewPaymentHandler(bookings BookingStore, gw payment.Gateway, currency string, publish queue.PublishFunc) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings, Gateway: gw, Currency: currency, Publish: publish}
}

type createOrderReq struct {
	BookingID uint64 `json:"booking_id" validate:"required"`
}

type captureOrderReq struct {
	OrderID string `json:"order_id" validate:"required"`
}

func gatewayError(c echo.Context, err error) error {
	if errors.Is(err, payment.ErrNotConfigured) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment gateway not configured"})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
}

// CreateOrder creates a gateway order for the booking's total amount and
// stores the order id on the booking.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if b.PaymentStatus == model.PaymentCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already completed"})
	}

	// The gateway call carries its own timeout inside the client; give the
	// whole operation a wider bound than the DB calls.
	gctx, gcancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer gcancel()

	order, err := h.Gateway.CreateOrder(gctx, b.TotalAmount, h.Currency)
	if err != nil {
		return gatewayError(c, err)
	}
	if err := h.Bookings.SetOrderID(ctx, b.ID, order.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// CaptureOrder finalizes payment for a previously created order.  On
// gateway failure the booking's payment_status is left untouched.  A
// repeat capture reports success without re-applying the transition.
func (h *PaymentHandler) CaptureOrder(c echo.Context) error {
	var req captureOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}

	gctx, gcancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer gcancel()

	captured, err := h.Gateway.CaptureOrder(gctx, req.OrderID)
	if err != nil {
		return gatewayError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	applied, err := h.Bookings.CompleteByOrderID(ctx, req.OrderID, captured.CaptureID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no booking for order"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if !applied {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Payment already captured",
		})
	}

	b, err := h.Bookings.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if h.Publish != nil {
		completedAt := time.Now().UTC()
		if b.PaymentCompletedAt != nil {
			completedAt = b.PaymentCompletedAt.UTC()
		}
		_ = h.Publish(ctx, queue.PaymentCapturedEvent{
			BookingID:   b.ID,
			OrderID:     req.OrderID,
			CaptureID:   captured.CaptureID,
			Amount:      b.TotalAmount,
			CompletedAt: completedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment captured successfully",
		"booking": b,
	})
}
