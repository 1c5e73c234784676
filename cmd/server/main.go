package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-booking/internal/config"
	"github.com/iliyamo/car-wash-booking/internal/database"
	"github.com/iliyamo/car-wash-booking/internal/handler"
	"github.com/iliyamo/car-wash-booking/internal/middleware"
	"github.com/iliyamo/car-wash-booking/internal/payment"
	"github.com/iliyamo/car-wash-booking/internal/queue"
	"github.com/iliyamo/car-wash-booking/internal/repository"
	"github.com/iliyamo/car-wash-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBTLS)
	if err != nil {
		log.Fatalf("database: open failed: %v", err)
	}
	defer db.Close()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Init(initCtx, db, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		cancel()
		log.Fatalf("database: init failed: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and caching disabled")
	}
	cacheCfg := config.LoadCacheConfig()

	users := repository.NewUserRepo(db)
	services := repository.NewServiceRepo(db)
	bookings := repository.NewBookingRepo(db)

	gateway := payment.NewPayPal(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret)
	if cfg.PayPalClientID == "" {
		log.Printf("paypal: credentials not set, payment endpoints disabled")
	}

	h := router.Handlers{
		Health:   handler.NewHealthHandler(db),
		Auth:     handler.NewAuthHandler(cfg, users),
		Services: handler.NewServiceHandler(services, rdb, cacheCfg),
		Bookings: handler.NewBookingHandler(bookings, users, queue.Publish),
		Users:    handler.NewUserHandler(users),
		Payments: handler.NewPaymentHandler(bookings, gateway, cfg.PayPalCurrency, queue.Publish),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.Register(e, h, cfg, cacheCfg, rdb)

	go queue.StartEventConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
