package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/pkg/logger"
)

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success":    true,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":    false,
		"statusCode": status,
		"message":    message,
	})
}

// Fail renders err through the application error taxonomy. Causes of
// internal failures are logged, never returned to the client.
func Fail(c *fiber.Ctx, err error) error {
	appErr := apperr.As(err)
	status := appErr.Status()
	if status >= fiber.StatusInternalServerError {
		logger.Error("request_failed", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"kind":   string(appErr.Kind),
		})
	}
	return Error(c, status, appErr.Message)
}

// ErrorHandler is installed as the fiber app error handler so that errors
// returned from handlers and middleware share the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, fiberErr.Message)
	}
	return Fail(c, err)
}

func Paginated(c *fiber.Ctx, message string, data interface{}, page, limit int, total int64) error {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"statusCode": fiber.StatusOK,
		"message":    message,
		"data":       data,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}
