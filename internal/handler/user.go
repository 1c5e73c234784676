package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/model"
)

// UserHandler exposes admin-only user management.
type UserHandler struct{ Users UserStore }

func NewUserHandler(users UserStore) *UserHandler { return &UserHandler{Users: users} }

// List returns every registered user as public projections.  Admin only.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"users":   out,
		"count":   len(out),
	})
}
