package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"devconnector/internal/config"
	"devconnector/internal/delivery/http/handler"
	"devconnector/internal/delivery/http/middleware"
	"devconnector/internal/delivery/http/routes"
	"devconnector/internal/pkg/jwt"
	"devconnector/internal/pkg/logger"
	ucauth "devconnector/internal/usecase/auth"
	ucpost "devconnector/internal/usecase/post"
	ucprofile "devconnector/internal/usecase/profile"
	"devconnector/internal/ws"
)

type App struct {
	Fiber *fiber.App
}

// New wires the use cases and HTTP layer on top of c.
func New(c *Container) *App {
	cfg := c.Config
	log := c.Log

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	authUC := ucauth.NewService(c.Users, jwtSvc, logger.Component(log, "auth"))
	profileUC := ucprofile.NewService(c.Profiles, c.Users, c.Posts, c.GitHub, logger.Component(log, "profile"))
	postUC := ucpost.NewService(c.Posts, c.Users, ws.NewNotifier(c.Hub), logger.Component(log, "post"))

	checks := make(map[string]handler.Pinger, len(c.checks))
	for name, p := range c.checks {
		checks[name] = p
	}

	registerGlobalMiddleware(f, log)

	reg := &routes.Registry{
		Health:         handler.NewHealthHandler(checks),
		Auth:           handler.NewAuthHandler(authUC),
		Profile:        handler.NewProfileHandler(profileUC),
		Post:           handler.NewPostHandler(postUC),
		Feed:           ws.NewHandler(c.Hub),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtSvc, log).Middleware(),
	}
	reg.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log zerolog.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
