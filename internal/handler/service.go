package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/car-wash-booking/internal/config"
	"github.com/iliyamo/car-wash-booking/internal/middleware"
	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/repository"
)

// ServiceHandler exposes the service catalog.  Reads are public; writes
// are admin-only (enforced by route middleware) and purge the catalog
// response cache so edits show up immediately.
type ServiceHandler struct {
	Services ServiceStore
	Rdb      *redis.Client
	CacheCfg config.CacheConfig
}

func NewServiceHandler(services ServiceStore, rdb *redis.Client, cacheCfg config.CacheConfig) *ServiceHandler {
	return &ServiceHandler{Services: services, Rdb: rdb, CacheCfg: cacheCfg}
}

type serviceReq struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
}

func (h *ServiceHandler) purgeCache(c echo.Context) {
	middleware.PurgeCache(c.Request().Context(), h.Rdb, h.CacheCfg)
}

// List returns all services ordered by id ascending.
func (h *ServiceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	services, err := h.Services.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if services == nil {
		services = []model.Service{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"services": services,
		"count":    len(services),
	})
}

// Get returns a single service by path id.
func (h *ServiceHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Services.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "service": s})
}

// Create inserts a new catalog service.  Admin only.
func (h *ServiceHandler) Create(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		if req.Name == "" || req.Description == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, price, and description are required"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Service{Name: req.Name, Price: req.Price, Description: req.Description}
	if err := h.Services.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	h.purgeCache(c)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Service created successfully",
		"service": s,
	})
}

// Update rewrites an existing service.  The id travels in the body,
// mirroring the public contract.  Admin only.
func (h *ServiceHandler) Update(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id, name, price, and description are required"})
	}
	if err := c.Validate(&req); err != nil {
		if req.Name == "" || req.Description == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "id, name, price, and description are required"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Service{ID: req.ID, Name: req.Name, Price: req.Price, Description: req.Description}
	if err := h.Services.Update(ctx, &s); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	h.purgeCache(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Service updated successfully",
		"service": s,
	})
}

// Delete removes a service unless bookings reference it.  Admin only.
// The id arrives as a query parameter, matching the public contract.
func (h *ServiceHandler) Delete(c echo.Context) error {
	raw := c.QueryParam("id")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service id is required"})
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Services.Delete(ctx, id); err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete service that has existing bookings"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	h.purgeCache(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Service deleted successfully",
	})
}
