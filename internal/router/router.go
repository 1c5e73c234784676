// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/car-wash-booking/internal/config"
	"github.com/iliyamo/car-wash-booking/internal/handler"
	"github.com/iliyamo/car-wash-booking/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Services *handler.ServiceHandler
	Bookings *handler.BookingHandler
	Users    *handler.UserHandler
	Payments *handler.PaymentHandler
}

// Register mounts all application routes on the provided Echo instance.
// Public reads carry the Redis response cache; booking creation accepts
// guests via OptionalJWT; admin routes stack JWTAuth + RequireRole.
func Register(e *echo.Echo, h Handlers, cfg config.Config, cacheCfg config.CacheConfig, rdb *redis.Client) {
	jwtSecret := cfg.JWTSecret
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole("admin")
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// Liveness and connectivity probes.
	e.GET("/", h.Health.Root)
	e.GET("/api/health", h.Health.Health)

	// Identity.
	a := e.Group("/api/auth")
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)
	a.PUT("/update-profile", h.Auth.UpdateProfile, auth)
	a.GET("/me", h.Auth.Me, auth)

	// Gated admin bootstrap.
	e.POST("/api/create-admin", h.Auth.CreateAdmin)

	// Service catalog: public reads (cached), admin writes.
	s := e.Group("/api/services")
	s.GET("", h.Services.List, cache)
	s.GET("/:id", h.Services.Get, cache)
	s.POST("", h.Services.Create, auth, admin)
	s.PUT("", h.Services.Update, auth, admin)
	s.DELETE("", h.Services.Delete, auth, admin)

	// Bookings: guests may create, reads require a token, transitions are
	// admin-only.
	b := e.Group("/api/bookings")
	b.POST("", h.Bookings.Create, middleware.OptionalJWT(jwtSecret))
	b.GET("", h.Bookings.List, auth)
	b.GET("/:id", h.Bookings.Get, auth)
	b.PUT("/:id/status", h.Bookings.UpdateStatus, auth, admin)

	// Users admin.
	e.GET("/api/users", h.Users.List, auth, admin)

	// Payment bridge.
	p := e.Group("/api/paypal")
	p.POST("/create-order", h.Payments.CreateOrder, middleware.OptionalJWT(jwtSecret))
	p.POST("/capture-order", h.Payments.CaptureOrder, middleware.OptionalJWT(jwtSecret))
}
