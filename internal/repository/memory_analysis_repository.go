package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-gap/internal/domain/analysis"
)

// MemoryAnalysisRepository keeps analyses in process memory. It backs the
// server when no database is configured and the CLI.
type MemoryAnalysisRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]analysis.Analysis
	batches  map[uuid.UUID]analysis.Batch
	capacity int
}

// NewMemoryAnalysisRepository keeps at most capacity analyses, dropping the
// oldest first. A non-positive capacity means unbounded.
func NewMemoryAnalysisRepository(capacity int) *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{
		byID:     map[uuid.UUID]analysis.Analysis{},
		batches:  map[uuid.UUID]analysis.Batch{},
		capacity: capacity,
	}
}

func (r *MemoryAnalysisRepository) Save(_ context.Context, a analysis.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[a.ID] = a
	if r.capacity > 0 && len(r.byID) > r.capacity {
		r.evictOldestLocked()
	}
	return nil
}

func (r *MemoryAnalysisRepository) evictOldestLocked() {
	var oldest uuid.UUID
	var oldestAt time.Time
	first := true
	for id, a := range r.byID {
		if first || a.CreatedAt.Before(oldestAt) {
			oldest, oldestAt, first = id, a.CreatedAt, false
		}
	}
	delete(r.byID, oldest)
}

func (r *MemoryAnalysisRepository) GetByID(_ context.Context, id uuid.UUID) (analysis.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return analysis.Analysis{}, analysis.ErrNotFound
	}
	return a, nil
}

func (r *MemoryAnalysisRepository) List(_ context.Context, f analysis.ListFilter) ([]analysis.Analysis, error) {
	r.mu.RLock()
	all := make([]analysis.Analysis, 0, len(r.byID))
	for _, a := range r.byID {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		all = append(all, a)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []analysis.Analysis{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryAnalysisRepository) CreateBatch(_ context.Context, b analysis.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[b.ID] = b
	return nil
}

func (r *MemoryAnalysisRepository) FinishBatch(_ context.Context, id uuid.UUID, succeeded, failed int, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return analysis.ErrNotFound
	}
	b.Succeeded = succeeded
	b.Failed = failed
	b.FinishedAt = &finishedAt
	r.batches[id] = b
	return nil
}

func (r *MemoryAnalysisRepository) Batch(id uuid.UUID) (analysis.Batch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batches[id]
	return b, ok
}
