package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/service"
	"github.com/sefazor/cityevents-backend/pkg/metrics"
)

type RatingHandler struct {
	ratingService *service.RatingService
	metrics       *metrics.Metrics
}

func NewRatingHandler(ratingService *service.RatingService, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		metrics:       m,
	}
}

// Rate answers 201 for both the first submission and an overwrite.
func (h *RatingHandler) Rate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req models.RateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	rating, err := h.ratingService.Rate(c.UserContext(), auth.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}

	if h.metrics != nil {
		h.metrics.RatingsUpserted.Inc()
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}
