package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"zlecenia/internal/pkg/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    pinger
	cache pinger
}

func NewHealthHandler(db, cache pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth reports the database as required and Redis as best-effort,
// matching how the request path treats them.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	dbOK := true
	if h.db != nil {
		dbOK = h.db.Ping(c.Context()) == nil
	}
	cacheOK := true
	if h.cache != nil {
		cacheOK = h.cache.Ping(c.Context()) == nil
	}

	status := fiber.StatusOK
	if !dbOK {
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, "", fiber.Map{
		"database": dbOK,
		"cache":    cacheOK,
	})
}
