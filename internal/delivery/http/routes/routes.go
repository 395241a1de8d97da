package routes

import (
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/delivery/http/middleware"
	v1 "skill-gap/internal/delivery/http/routes/v1"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health   *handler.HealthHandler
	Skills   *handler.SkillHandler
	Analyses *handler.AnalysisHandler
	WS       *ws.Handler
	Auth     *middleware.AuthMiddleware
}

type Registry struct {
	h Handlers
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{h: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), v1.Handlers{
		Skills:   r.h.Skills,
		Analyses: r.h.Analyses,
		Auth:     r.h.Auth,
	})
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.h.WS == nil {
		return
	}
	app.Get("/ws/analyses", r.h.Auth.Middleware(), r.h.WS.HandleAnalysesWS)
}
