package v1

import (
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Skills   *handler.SkillHandler
	Analyses *handler.AnalysisHandler
	Auth     *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	protected := r.Group("", h.Auth.Middleware())

	if h.Skills != nil {
		h.Skills.RegisterRoutes(protected)
	}
	if h.Analyses != nil {
		h.Analyses.RegisterRoutes(protected)
	}
}
