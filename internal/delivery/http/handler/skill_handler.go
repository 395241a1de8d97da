package handler

import (
	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Post("/extract", h.Extract)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponses(h.uc.ListSkills()))
}

func (h *SkillHandler) Extract(c fiber.Ctx) error {
	var req dto.ExtractSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if fields, err := dto.Validate(&req); err != nil || len(fields) > 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fields, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewExtractSkillsResponse(h.uc.ExtractSkills(req.Text)))
}
