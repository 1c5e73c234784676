package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface so
// handlers can call c.Validate on bound request structs.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (val *Validator) Validate(i interface{}) error { return val.v.Struct(i) }

// userIDFromContext extracts the user_id claim stored by the JWT middleware
// and converts it to uint64.  JWT numeric claims decode as float64.
func userIDFromContext(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// roleFromContext returns the role claim, or "" when unauthenticated.
func roleFromContext(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
