package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/services"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
)

func deny(c *fiber.Ctx, caller models.Caller, decision services.Decision) error {
	logger.WarnWithUser(caller.ID.String(), "authorization_denied", map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
		"reason": decision.Reason,
	})
	return utils.Error(c, fiber.StatusForbidden, decision.Reason)
}

// RequireRoles admits callers holding any of roles. It must run after
// RequireAuth.
func RequireRoles(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := GetCaller(c)
		if caller.IsZero() {
			return utils.Error(c, fiber.StatusUnauthorized, "unauthorized request")
		}
		if decision := services.CheckRole(caller, roles...); !decision.Allowed {
			return deny(c, caller, decision)
		}
		return c.Next()
	}
}

// RequireEventOwner admits the owner of the event named by the :id route
// parameter.
func (a *AuthMiddleware) RequireEventOwner(c *fiber.Ctx) error {
	caller := GetCaller(c)
	if caller.IsZero() {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized request")
	}

	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	decision, err := a.Access.EventOwnership(c.UserContext(), caller, eventID)
	if err != nil {
		return utils.Fail(c, err)
	}
	if !decision.Allowed {
		return deny(c, caller, decision)
	}
	return c.Next()
}
