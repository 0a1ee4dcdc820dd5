package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/edutrip-api/internal/config"
	"github.com/noah-isme/edutrip-api/internal/handler"
	"github.com/noah-isme/edutrip-api/internal/middleware"
	"github.com/noah-isme/edutrip-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EligibilityHandler *handler.EligibilityHandler
	ProfileHandler     *handler.ProfileHandler
	ProgramHandler     *handler.ProgramHandler
	JWTMiddleware      fiber.Handler
	CalculateLimiter   fiber.Handler
	HealthChecks       map[string]handler.HealthDependency
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.EligibilityHandler != nil {
		eligibility := api.Group("/eligibility", jwtMiddleware)
		if deps.CalculateLimiter != nil {
			deps.EligibilityHandler.Register(eligibility, deps.CalculateLimiter)
		} else {
			deps.EligibilityHandler.Register(eligibility)
		}
	}

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(api.Group("/profile", jwtMiddleware))
	}

	if deps.ProgramHandler != nil {
		deps.ProgramHandler.Register(api.Group("/programs", jwtMiddleware))

		admin := api.Group("/admin/programs", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleAdmin))
		deps.ProgramHandler.RegisterAdmin(admin)
	}
}
