package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guild-tickets/internal/api/http/handlers"
	"github.com/spec-kit/guild-tickets/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Interactions    *handlers.InteractionsHandler
	Admin           *handlers.AdminHandler
	AdminMiddleware *auth.AdminMiddleware
	VerifySignature fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/interactions", cfg.VerifySignature, cfg.Interactions.Handle)

	adminGroup := app.Group("/admin", cfg.AdminMiddleware.Handle)
	adminGroup.Post("/panel", cfg.Admin.PostPanel)
}
