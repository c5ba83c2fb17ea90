package handlers

import (
	"errors"

	"healthtrack/internal/apperrors"
	"healthtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"message": notice} with the matching status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	status, notice := apperrors.Present(err)
	if status >= fiber.StatusInternalServerError && apperrors.KindOf(err) == apperrors.KindInternal {
		logger.New("handlers").
			Function("ErrorHandler").
			Er("request failed", err, "method", c.Method(), "path", c.Path())
	}

	return c.Status(status).JSON(fiber.Map{"message": notice})
}
