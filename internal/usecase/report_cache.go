package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportCache stores finished analyses by id. Misses and read errors fall
// through to the repository.
type ReportCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

func AnalysisCacheKey(id uuid.UUID) string {
	return "analysis:" + id.String()
}
