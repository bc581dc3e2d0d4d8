package serverutils

import (
	"errors"

	"ai-videosearch-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts pipeline errors into HTTP responses.
// The taxonomy mapping:
//   - NotFound            -> 404
//   - ModelUnavailable    -> 503 (the dependency is down, retry later)
//   - GenerationFailure   -> 502
//   - FeedbackConflict    -> 409
//   - fiber.Error         -> its own status
//   - anything else       -> 500
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		case errors.Is(err, apperrors.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperrors.ErrModelUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperrors.ErrGenerationFailure):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperrors.ErrFeedbackConflict):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
		}
	}
}
