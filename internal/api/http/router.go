package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karsei/sample-auth-service/internal/api/http/handlers"
	"github.com/karsei/sample-auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Users          *handlers.UsersHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Everything under /api requires a valid
// bearer token; the admin endpoints additionally require the ADMIN role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/me", cfg.Profile.Me)

	admin := api.Group("", auth.RequireRoles("ADMIN"))
	admin.Get("/users", cfg.Users.List)
	admin.Get("/metrics", cfg.Metrics.Snapshot)
}
