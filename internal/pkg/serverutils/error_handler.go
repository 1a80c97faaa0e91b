package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
)

// NewErrorHandler builds the Fiber error handler. Domain errors keep
// their status and code; anything unknown becomes an opaque 500 so
// internals never leak to clients.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			if appErr.Status >= 500 {
				log.Error("Http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"code":  string(appErr.Code),
					"error": appErr.Error(),
				})
			}
			return ctx.Status(appErr.Status).JSON(
				TypedErrorResponse(appErr.Status, string(appErr.Code), appErr.Message),
			)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Error("Http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
}
