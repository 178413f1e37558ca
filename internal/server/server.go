package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/handlers"
	"github.com/volunteerhub/backend/internal/metrics"
	"github.com/volunteerhub/backend/internal/middleware"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/services"
	"github.com/volunteerhub/backend/internal/storage"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/gorm"
)

const APIPrefix = "/api/v1"

type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Media   storage.MediaStore
	Version string
}

// New assembles the fiber app with every route mounted.
func New(deps Dependencies) *fiber.App {
	cfg := deps.Config

	accessService := services.NewAccessService(deps.DB)
	authService := services.NewAuthService(deps.DB, deps.Media, cfg.Auth.AllowRoleSignup)
	eventService := services.NewEventService(deps.DB, deps.Media)

	authHandler := handlers.NewAuthHandler(authService, cfg.Upload, cfg.Cookie)
	eventsHandler := handlers.NewEventsHandler(eventService, cfg.Upload)
	healthHandler := handlers.NewHealthHandler(deps.Version)

	authMiddleware := middleware.NewAuthMiddleware(deps.DB, accessService)
	authLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerMinute)

	bodyLimit := cfg.Server.BodyLimitMB * 1024 * 1024
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: utils.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	if cfg.Cookie.EncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Cookie.EncryptionKey}))
	}
	app.Use(metrics.Middleware())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", metrics.Handler())

	api := app.Group(APIPrefix)
	api.Get("/health", healthHandler.Health)
	api.Get("/version", healthHandler.Version)

	userRoutes := api.Group("/users")
	userRoutes.Post("/register", authLimiter.Handler(), authHandler.Register)
	userRoutes.Post("/login", authLimiter.Handler(), authHandler.Login)
	userRoutes.Post("/refresh", authHandler.Refresh)
	userRoutes.Post("/logout", authMiddleware.RequireAuth, authHandler.Logout)
	userRoutes.Get("/current-user", authMiddleware.RequireAuth, authHandler.CurrentUser)
	userRoutes.Get("/history", authMiddleware.RequireAuth, authHandler.History)

	adminOnly := middleware.RequireRoles(models.UserRoleAdmin)

	eventRoutes := api.Group("/events", authMiddleware.RequireAuth)
	eventRoutes.Get("/", eventsHandler.List)
	eventRoutes.Get("/owner/:ownerId", eventsHandler.ListByOwner)
	eventRoutes.Post("/create", adminOnly, eventsHandler.Create)
	eventRoutes.Patch("/update/:id", adminOnly, authMiddleware.RequireEventOwner, eventsHandler.Update)
	eventRoutes.Delete("/delete/:id", adminOnly, authMiddleware.RequireEventOwner, eventsHandler.Delete)
	eventRoutes.Post("/:id/register", eventsHandler.Register)
	eventRoutes.Get("/:id", eventsHandler.Get)

	return app
}
