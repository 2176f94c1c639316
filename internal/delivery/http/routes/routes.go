package routes

import (
	"github.com/gofiber/fiber/v3"

	"devconnector/internal/delivery/http/handler"
)

// Registry owns the HTTP handlers and mounts them on an app.
type Registry struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Post    *handler.PostHandler
	Feed    interface{ RegisterRoutes(fiber.Router) }

	AuthMiddleware fiber.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerFeed(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerFeed(app *fiber.App) {
	if r.Feed != nil {
		r.Feed.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	RegisterAPI(app.Group("/api"), r)
}
