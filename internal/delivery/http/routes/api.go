package routes

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterAPI mounts the JSON API. Profile routes mix public reads with
// authenticated writes; every post route requires a token.
func RegisterAPI(api fiber.Router, r *Registry) {
	if api == nil || r == nil {
		return
	}

	if r.Auth != nil {
		r.Auth.RegisterRoutes(api, r.AuthMiddleware)
	}
	if r.Profile != nil {
		r.Profile.RegisterRoutes(api.Group("/profile"), r.AuthMiddleware)
	}
	if r.Post != nil {
		r.Post.RegisterRoutes(api.Group("/posts", r.AuthMiddleware))
	}
}
