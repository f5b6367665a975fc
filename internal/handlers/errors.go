package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
)

// writeError renders a service error as {"Error": ...}. Only validation
// messages carry detail; everything else uses the sentinel text.
func writeError(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, services.ErrStore.Error()

	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrAuthenticationFailed):
		status, message = fiber.StatusUnauthorized, services.ErrAuthenticationFailed.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, services.ErrNotFound.Error()
	case errors.Is(err, services.ErrUnavailable):
		status, message = fiber.StatusServiceUnavailable, services.ErrUnavailable.Error()
		c.Set(fiber.HeaderRetryAfter, "1")
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestID(c),
			"action", c.Method()+" "+c.Route().Path,
			"error", err.Error(),
		)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: message})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
