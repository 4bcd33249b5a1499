package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/pkg/utils"
)

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid event id")
	}
	return uint(id), nil
}

// parseEventFilter reads the listing query string. A date-only dateTo covers
// the whole day.
func parseEventFilter(c *fiber.Ctx) (models.EventFilter, error) {
	filter := models.EventFilter{
		Search:             strings.TrimSpace(c.Query("search")),
		IncludeUnpublished: utils.ParseBool(c.Query("includeUnpublished")),
		IncludeBlocked:     utils.ParseBool(c.Query("includeBlocked")),
	}

	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return filter, apperror.Validation("categoryId must be a positive integer")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	if raw := strings.TrimSpace(c.Query("dateFrom")); raw != "" {
		t, _, err := utils.ParseTime(raw)
		if err != nil {
			return filter, apperror.Validation("dateFrom must be a valid date")
		}
		filter.DateFrom = &t
	}

	if raw := strings.TrimSpace(c.Query("dateTo")); raw != "" {
		t, dateOnly, err := utils.ParseTime(raw)
		if err != nil {
			return filter, apperror.Validation("dateTo must be a valid date")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.DateTo = &t
	}

	return filter, nil
}
