package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	strategy string
}

func NewHealthHandler(db Pinger, strategy string) *HealthHandler {
	return &HealthHandler{db: db, strategy: strategy}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	if err := h.db.Ping(c.UserContext()); err != nil {
		status, dbStatus = "degraded", "unhealthy"
		c.Status(fiber.StatusServiceUnavailable)
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Strategy:  h.strategy,
	})
}

func Root(c *fiber.Ctx) error {
	return c.SendString("TODO API ROOT")
}
