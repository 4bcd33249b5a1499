package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/service"
	"github.com/sefazor/cityevents-backend/pkg/metrics"
)

type AuthHandler struct {
	authService *service.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	if h.metrics != nil {
		h.metrics.Registrations.WithLabelValues(string(resp.User.Role)).Inc()
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := auth.IdentityFrom(c)
	if err := auth.Authorize(identity, auth.Authenticated); err != nil {
		return err
	}

	profile, err := h.authService.Me(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
