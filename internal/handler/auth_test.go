package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-wash-booking/internal/config"
	"github.com/iliyamo/car-wash-booking/internal/model"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "auth-test-secret",
		TokenTTLHours:   24,
		BcryptCost:      4, // keep the tests fast
		AdminPassword:   "admin-pass-123",
		BootstrapSecret: "bootstrap-secret",
	}
}

func registerUser(t *testing.T, users *fakeUserStore, username, email, password string) model.User {
	t.Helper()
	u := model.User{
		Username: username,
		Email:    email,
		FullName: "Test User",
		Phone:    "09170000000",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, users.Create(context.Background(), &u, password, 4))
	return u
}

func TestRegister_Success(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(testConfig(), newFakeUserStore())

	c, rec := doJSON(t, e, http.MethodPost, "/api/auth/register",
		`{"username":"juan","email":"juan@example.com","password":"secret1","full_name":"Juan Cruz","phone":"09171234567"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "User registered successfully", body["message"])
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	require.Equal(t, "juan", user["username"])
	require.Equal(t, "customer", user["role"])
	require.NotContains(t, user, "password_hash")
}

func TestRegister_DuplicateIsBadRequest(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	registerUser(t, users, "juan", "juan@example.com", "secret1")
	h := NewAuthHandler(testConfig(), users)

	c, rec := doJSON(t, e, http.MethodPost, "/api/auth/register",
		`{"username":"juan","email":"other@example.com","password":"secret1","full_name":"Juan Cruz","phone":"09171234567"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "username or email already exists", decodeBody(t, rec)["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(testConfig(), newFakeUserStore())

	c, rec := doJSON(t, e, http.MethodPost, "/api/auth/register",
		`{"username":"juan"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	registerUser(t, users, "maria", "maria@example.com", "hunter22")
	h := NewAuthHandler(testConfig(), users)

	for _, identifier := range []string{"maria", "maria@example.com"} {
		c, rec := doJSON(t, e, http.MethodPost, "/api/auth/login",
			`{"username":"`+identifier+`","password":"hunter22"}`)
		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusOK, rec.Code, "identifier %q", identifier)

		body := decodeBody(t, rec)
		require.Equal(t, "Login successful", body["message"])
		require.NotEmpty(t, body["token"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	registerUser(t, users, "maria", "maria@example.com", "hunter22")
	h := NewAuthHandler(testConfig(), users)

	c, rec := doJSON(t, e, http.MethodPost, "/api/auth/login",
		`{"username":"maria","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])
}

func TestLogin_UnknownUser(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(testConfig(), newFakeUserStore())

	c, rec := doJSON(t, e, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"whatever"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile_Success(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	u := registerUser(t, users, "maria", "maria@example.com", "hunter22")
	h := NewAuthHandler(testConfig(), users)

	c, rec := doJSON(t, e, http.MethodPut, "/api/auth/update-profile",
		`{"full_name":"Maria Santos","phone":"09998887777","email":"maria.s@example.com"}`)
	c.Set("user_id", float64(u.ID))
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Profile updated successfully", body["message"])
	updated := body["user"].(map[string]interface{})
	require.Equal(t, "Maria Santos", updated["full_name"])
	require.Equal(t, "maria.s@example.com", updated["email"])
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	registerUser(t, users, "maria", "maria@example.com", "hunter22")
	other := registerUser(t, users, "juan", "juan@example.com", "secret1")
	h := NewAuthHandler(testConfig(), users)

	c, rec := doJSON(t, e, http.MethodPut, "/api/auth/update-profile",
		`{"full_name":"Juan Cruz","phone":"09170000001","email":"maria@example.com"}`)
	c.Set("user_id", float64(other.ID))
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "email already in use by another account", decodeBody(t, rec)["error"])
}

func TestMe(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	u := registerUser(t, users, "maria", "maria@example.com", "hunter22")
	h := NewAuthHandler(testConfig(), users)

	c, rec := doJSON(t, e, http.MethodGet, "/api/auth/me", "")
	c.Set("user_id", float64(u.ID))
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "maria", decodeBody(t, rec)["user"].(map[string]interface{})["username"])
}

func TestCreateAdmin_RequiresBootstrapSecret(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(testConfig(), newFakeUserStore())

	c, rec := doJSON(t, e, http.MethodPost, "/api/create-admin", "")
	require.NoError(t, h.CreateAdmin(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = doJSON(t, e, http.MethodPost, "/api/create-admin", "")
	c.Request().Header.Set("X-Bootstrap-Secret", "wrong")
	require.NoError(t, h.CreateAdmin(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateAdmin_CreatesOnceThenReports(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	cfg := testConfig()
	h := NewAuthHandler(cfg, users)

	c, rec := doJSON(t, e, http.MethodPost, "/api/create-admin", "")
	c.Request().Header.Set("X-Bootstrap-Secret", cfg.BootstrapSecret)
	require.NoError(t, h.CreateAdmin(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.NotContains(t, body, "password")

	admin, err := users.GetByIdentifier(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, admin.Role)

	c, rec = doJSON(t, e, http.MethodPost, "/api/create-admin", "")
	c.Request().Header.Set("X-Bootstrap-Secret", cfg.BootstrapSecret)
	require.NoError(t, h.CreateAdmin(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Admin user already exists", decodeBody(t, rec)["message"])
}
