package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/department-summary/internal/api/http/handlers"
	"github.com/spec-kit/department-summary/internal/auth"
	"github.com/spec-kit/department-summary/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Summary        *handlers.SummaryHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Get("/", cfg.Summary.Page)

	summary := app.Group("/summary")
	summary.Get("/", cfg.Summary.Get)
	summary.Get("/departments/:name", cfg.Summary.GetDepartment)
	summary.Post("/refresh", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleOperator), cfg.Summary.Refresh)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
