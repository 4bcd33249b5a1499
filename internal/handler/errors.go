package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"go.uber.org/zap"
)

var errInvalidBody = apperror.Validation("Invalid request body")

// ErrorHandler renders every error as {"message": ...}. Internal failures are
// logged with their cause and reach the client only as a generic message.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(models.ErrorResponse(fe.Message))
		}

		kind := apperror.KindOf(err)
		if kind == apperror.KindInternal {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(apperror.StatusCode(kind)).JSON(models.ErrorResponse(apperror.PublicMessage(err)))
	}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}
