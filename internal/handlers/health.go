package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/volunteerhub/backend/pkg/utils"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health is a liveness probe; it never touches dependencies.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "ok", fiber.Map{"status": "ok"})
}

func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "version", fiber.Map{"version": h.version})
}
