package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-wash-booking/internal/utils"
)

const secret = "middleware-test-secret"

func request(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestJWTAuth_MissingToken(t *testing.T) {
	c, rec := request(t, "")
	err := JWTAuth(secret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	c, rec := request(t, "not-a-jwt")
	err := JWTAuth(secret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ValidTokenInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(secret, 9, "alice", "admin", time.Hour)
	require.NoError(t, err)

	c, rec := request(t, at.Token)
	err = JWTAuth(secret)(func(c echo.Context) error {
		require.EqualValues(t, 9, c.Get("user_id").(float64))
		require.Equal(t, "alice", c.Get("username"))
		require.Equal(t, "admin", c.Get("role"))
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalJWT_AllowsAnonymous(t *testing.T) {
	c, rec := request(t, "")
	err := OptionalJWT(secret)(func(c echo.Context) error {
		require.Nil(t, c.Get("user_id"))
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	c, rec := request(t, "")
	c.Set("role", "customer")
	err := RequireRole("admin")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	c, rec := request(t, "")
	c.Set("role", "admin")
	err := RequireRole("admin")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}
