package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-gateway/internal/api/http/handlers"
	"github.com/spec-kit/identity-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Identities     *handlers.IdentitiesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// ExemptRoutes lists the routes that bypass the authentication gate:
// registration and the health probes. Everything else requires a bearer
// token.
func ExemptRoutes() []auth.ExemptRoute {
	return []auth.ExemptRoute{
		{Method: fiber.MethodPost, Path: "/identities"},
		{Method: fiber.MethodGet, Path: "/health/live"},
		{Method: fiber.MethodGet, Path: "/health/ready"},
	}
}

// RegisterRoutes wires HTTP routes behind the gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/identities", cfg.Identities.Register)
	app.Get("/identities/:id", cfg.Identities.Reauthenticate)
}
