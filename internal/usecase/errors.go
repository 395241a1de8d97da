package usecase

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrInternal             = errors.New("internal error")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrDocumentUnsupported  = errors.New("document format not supported")
	ErrDocumentUnreadable   = errors.New("document has no readable text")
	ErrFetchFailed          = errors.New("job posting could not be fetched")
)
