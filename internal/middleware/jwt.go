package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// parseBearer extracts and validates the Bearer token from the request.
// On success it returns the token claims; otherwise a nil map.
func parseBearer(c echo.Context, secret string) jwt.MapClaims {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject, username and role claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Handlers read the values via c.Get("user_id"), c.Get("username")
// and c.Get("role").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims := parseBearer(c, secret)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set("user_id", claims["sub"])
			c.Set("username", claims["username"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

// OptionalJWT behaves like JWTAuth but lets unauthenticated requests pass
// through.  Booking creation accepts guests; when a valid token is present
// the booking is tied to the account, otherwise the claims simply stay
// unset.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := parseBearer(c, secret); claims != nil {
				c.Set("user_id", claims["sub"])
				c.Set("username", claims["username"])
				c.Set("role", claims["role"])
			}
			return next(c)
		}
	}
}
