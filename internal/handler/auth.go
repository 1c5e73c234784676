package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/config"
	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/repository"
	"github.com/iliyamo/car-wash-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"` // username or email
	Password string `json:"password" validate:"required"`
}

type updateProfileReq struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) issueToken(u model.User) (utils.AccessToken, error) {
	ttl := time.Duration(h.Cfg.TokenTTLHours) * time.Hour
	return utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, ttl)
}

// Register creates a customer account and returns the public projection
// plus a signed token.  Uniqueness of username/email is ultimately
// enforced by the database; the Exists pre-check only yields a friendlier
// 400 before the insert is attempted.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if taken, err := h.Users.Exists(ctx, req.Username, req.Email); err == nil && taken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username or email already exists"})
	}

	u := model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     model.RoleCustomer,
	}
	if err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrUserExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	token, err := h.issueToken(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    u.Public(),
		"token":   token.Token,
	})
}

// Login authenticates by username or email and returns a token embedding
// the user's id, username and role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.issueToken(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    u.Public(),
		"token":   token.Token,
	})
}

// UpdateProfile changes full_name, phone and email for the authenticated
// user.  Protected by JWTAuth.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, req.FullName, req.Phone, req.Email)
	switch err {
	case nil:
	case repository.ErrEmailInUse:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use by another account"})
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    u.Public(),
	})
}

// Me returns the authenticated user's public projection.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}

// CreateAdmin bootstraps the admin account when none exists.  The endpoint
// is gated behind an operator secret supplied in the X-Bootstrap-Secret
// header; it never echoes credentials back.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	secret := c.Request().Header.Get("X-Bootstrap-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.Cfg.BootstrapSecret)) != 1 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.HasAdmin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if exists {
		return c.JSON(http.StatusOK, echo.Map{"message": "Admin user already exists"})
	}

	u := model.User{
		Username: "admin",
		Email:    "admin@gmail.com",
		FullName: "System Administrator",
		Phone:    "09123456789",
		Role:     model.RoleAdmin,
	}
	if err := h.Users.Create(ctx, &u, h.Cfg.AdminPassword, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrUserExists {
			return c.JSON(http.StatusOK, echo.Map{"message": "Admin user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Admin user created successfully",
	})
}
