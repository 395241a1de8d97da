package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
)

var ErrNotFound = errors.New("analysis not found")

type Source string

const (
	SourceText   Source = "text"
	SourceUpload Source = "upload"
	SourceURL    Source = "url"
	SourceBatch  Source = "batch"
)

// Analysis is a stored gap report together with the inputs that shaped it.
type Analysis struct {
	ID             uuid.UUID
	UserID         string
	BatchID        *uuid.UUID
	Source         Source
	JDURL          string
	Thresholds     matching.Thresholds
	EmbeddingModel string
	Report         gap.Report
	CreatedAt      time.Time
}

type Batch struct {
	ID         uuid.UUID
	UserID     string
	Total      int
	Succeeded  int
	Failed     int
	CreatedAt  time.Time
	FinishedAt *time.Time
}

type ListFilter struct {
	UserID string
	Limit  int
	Offset int
}

type Repository interface {
	Save(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (Analysis, error)
	List(ctx context.Context, f ListFilter) ([]Analysis, error)

	CreateBatch(ctx context.Context, b Batch) error
	FinishBatch(ctx context.Context, id uuid.UUID, succeeded, failed int, finishedAt time.Time) error
}
