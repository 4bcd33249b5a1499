package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/models"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler takes an optional store probe.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.ping != nil {
		if err := h.ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{Status: "unhealthy"})
		}
	}
	return c.JSON(models.HealthResponse{Status: "healthy"})
}
