package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler exposes liveness and database connectivity probes.
type HealthHandler struct{ DB *sql.DB }

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Root answers GET / with a static liveness message.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Car Wash Booking API is running!",
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health probes database connectivity with a round trip query.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var now time.Time
	if err := h.DB.QueryRowContext(ctx, "SELECT NOW()").Scan(&now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":   "unhealthy",
			"database": "disconnected",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}
