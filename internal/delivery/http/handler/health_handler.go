package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/database"
	"careerpilot/internal/pkg/response"
)

type HealthHandler struct {
	db database.DB
}

func NewHealthHandler(db database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	status := map[string]string{"database": "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status["database"] = "unreachable"
			return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", status)
		}
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}
