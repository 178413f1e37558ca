package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/services"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/gorm"
)

const (
	currentUserKey = "currentUser"
	callerKey      = "caller"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type callerContextKey struct{}

type AuthMiddleware struct {
	DB     *gorm.DB
	Access *services.AccessService
}

func NewAuthMiddleware(db *gorm.DB, access *services.AccessService) *AuthMiddleware {
	return &AuthMiddleware{DB: db, Access: access}
}

// CORS allows the configured frontend origin with credentials so the session
// cookies are sent cross-origin.
func CORS(origin string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	})
}

func accessTokenFrom(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(AccessTokenCookie)); token != "" {
		return token
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth resolves the session from the access token cookie or bearer
// header and attaches the caller to the request.
func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	tokenString := accessTokenFrom(c)
	if tokenString == "" {
		logger.Warn("jwt_missing_token", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized request")
	}

	claims, err := utils.ValidateToken(tokenString, utils.TokenKindAccess)
	if err != nil {
		logger.Warn("jwt_validation_failed", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired access token")
	}

	var user models.User
	if err := a.DB.WithContext(c.UserContext()).
		Select(models.PublicUserColumns).
		First(&user, "id = ?", claims.UserID).Error; err != nil {
		logger.Warn("jwt_user_not_found", map[string]interface{}{
			"ip":      c.IP(),
			"path":    c.Path(),
			"user_id": claims.UserID.String(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired access token")
	}

	caller := user.Caller()
	c.Locals(currentUserKey, &user)
	c.Locals(callerKey, caller)
	c.Locals("userID", user.ID.String())
	c.SetUserContext(context.WithValue(c.UserContext(), callerContextKey{}, caller))

	return c.Next()
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCaller returns the resolved identity, or the zero Caller when the route
// is not behind RequireAuth.
func GetCaller(c *fiber.Ctx) models.Caller {
	caller, _ := c.Locals(callerKey).(models.Caller)
	return caller
}

// CallerFromContext reads the identity attached by RequireAuth.
func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(models.Caller)
	return caller, ok
}
