package app

import (
	"context"
	"fmt"
	"strings"

	"skill-gap/internal/config"
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/delivery/http/routes"
	"skill-gap/internal/logger"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

const bodyLimit = 24 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app around an existing container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log zerolog.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger.Component(log, "http"))
	accessMw := middleware.NewAccessLogMiddleware(logger.Component(log, "access"))
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Cache.Available() {
		checks["redis"] = c.Cache
	}

	routes.NewRegistry(routes.Handlers{
		Health:   handler.NewHealthHandler(checks),
		Skills:   handler.NewSkillHandler(c.Skills),
		Analyses: handler.NewAnalysisHandler(c.Analyses),
		WS:       ws.NewHandler(c.Hub, logger.Component(c.Log, "ws"), middleware.UserID),
		Auth:     middleware.NewAuthMiddleware(c.JWT),
	}).Register(app)
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
