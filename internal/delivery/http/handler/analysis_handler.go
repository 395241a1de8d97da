package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

type AnalysisHandler struct {
	uc usecase.AnalysisUsecase
}

func NewAnalysisHandler(uc usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/analyses")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Post("/upload", h.Upload)
	grp.Post("/batch", h.Batch)
	grp.Get("/:id", h.Get)
	grp.Get("/:id/export", h.Export)
}

func (h *AnalysisHandler) Create(c fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if fields, err := dto.Validate(&req); err != nil || len(fields) > 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fields, err)
	}

	a, err := h.uc.Analyze(c.Context(), usecase.AnalyzeInput{
		UserID:     middleware.UserID(c),
		ResumeText: req.ResumeText,
		JDText:     req.JDText,
		JDURL:      req.JDURL,
		Thresholds: usecase.ThresholdOverride{Match: req.MatchThreshold, Partial: req.PartialThreshold},
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Analysis created", dto.NewAnalysisResponse(a))
}

func (h *AnalysisHandler) Upload(c fiber.Ctx) error {
	resume, err := readFormFile(c, "resume")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	jd, err := readFormFile(c, "jd")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	match, err := parseFormFloat(c, "match_threshold")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	partial, err := parseFormFloat(c, "partial_threshold")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.AnalyzeDocuments(c.Context(), usecase.DocumentsInput{
		UserID:     middleware.UserID(c),
		Resume:     resume,
		JD:         jd,
		Thresholds: usecase.ThresholdOverride{Match: match, Partial: partial},
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Analysis created", dto.NewAnalysisResponse(a))
}

func (h *AnalysisHandler) Batch(c fiber.Ctx) error {
	var req dto.BatchAnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if fields, err := dto.Validate(&req); err != nil || len(fields) > 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fields, err)
	}

	res, err := h.uc.AnalyzeBatch(c.Context(), usecase.BatchInput{
		UserID:     middleware.UserID(c),
		ResumeText: req.ResumeText,
		JDTexts:    req.JDTexts,
		Thresholds: usecase.ThresholdOverride{Match: req.MatchThreshold, Partial: req.PartialThreshold},
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Batch analysed", dto.NewBatchResponse(res))
}

func (h *AnalysisHandler) Get(c fiber.Ctx) error {
	a, err := h.load(c)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAnalysisResponse(a))
}

func (h *AnalysisHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.List(c.Context(), analysis.ListFilter{
		UserID: middleware.UserID(c),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAnalysisSummaries(items))
}

func (h *AnalysisHandler) Export(c fiber.Ctx) error {
	a, err := h.load(c)
	if err != nil {
		return err
	}

	f, err := h.uc.Export(c.Context(), a.ID, c.Query("format", "json"))
	if err != nil {
		return mapAnalysisUsecaseError(err)
	}
	return response.Attachment(c, f.ContentType, f.Filename, f.Body)
}

// load fetches the analysis named by the :id param. Analyses of other users
// are reported as missing.
func (h *AnalysisHandler) load(c fiber.Ctx) (analysis.Analysis, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return analysis.Analysis{}, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return analysis.Analysis{}, mapAnalysisUsecaseError(err)
	}
	if user := middleware.UserID(c); user != "" && a.UserID != user {
		return analysis.Analysis{}, middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, nil)
	}
	return a, nil
}

func readFormFile(c fiber.Ctx, field string) (usecase.Document, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return usecase.Document{}, fmt.Errorf("%s file: %w", field, err)
	}
	if fh.Size > maxUploadBytes {
		return usecase.Document{}, fmt.Errorf("%s file exceeds %d bytes", field, maxUploadBytes)
	}
	data, err := readMultipart(fh)
	if err != nil {
		return usecase.Document{}, fmt.Errorf("%s file: %w", field, err)
	}
	return usecase.Document{Name: fh.Filename, Data: data}, nil
}

func readMultipart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

func parseFormFloat(c fiber.Ctx, key string) (*float64, error) {
	s := strings.TrimSpace(c.FormValue(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func mapAnalysisUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, invalidMessage(err), nil, err)
	case errors.Is(err, usecase.ErrAnalysisNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, err)
	case errors.Is(err, usecase.ErrDocumentUnsupported):
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, "Unsupported document format", nil, err)
	case errors.Is(err, usecase.ErrDocumentUnreadable):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Document has no readable text", nil, err)
	case errors.Is(err, usecase.ErrFetchFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, "Job posting could not be fetched", nil, err)
	case errors.Is(err, usecase.ErrEmbeddingUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Embedding provider unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// invalidMessage keeps the reason of an input error, which is safe to show.
func invalidMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, usecase.ErrInvalidInput.Error()+": "); i >= 0 {
		return msg[i:]
	}
	return "Bad request"
}
