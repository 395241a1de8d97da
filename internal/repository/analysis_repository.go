package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skill-gap/internal/database"
	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
)

const defaultListLimit = 20

type PostgresAnalysisRepository struct {
	db database.DB
}

func NewPostgresAnalysisRepository(db database.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// storedReport is the JSONB layout of gap.Report.
type storedReport struct {
	ResumeSkills    []string                  `json:"resume_skills"`
	JDSkills        []string                  `json:"jd_skills"`
	Overlap         []string                  `json:"overlap"`
	MissingInResume []string                  `json:"missing_in_resume"`
	ExtraInResume   []string                  `json:"extra_in_resume"`
	Classifications []matching.Classification `json:"classifications"`
	OverallScore    int                       `json:"overall_score"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

func encodeReport(r gap.Report) ([]byte, error) {
	return json.Marshal(storedReport{
		ResumeSkills:    toStrings(r.ResumeSkills),
		JDSkills:        toStrings(r.JDSkills),
		Overlap:         toStrings(r.Overlap),
		MissingInResume: toStrings(r.MissingInResume),
		ExtraInResume:   toStrings(r.ExtraInResume),
		Classifications: r.Classifications,
		OverallScore:    r.OverallScore,
		GeneratedAt:     r.GeneratedAt,
	})
}

func decodeReport(b []byte) (gap.Report, error) {
	var s storedReport
	if err := json.Unmarshal(b, &s); err != nil {
		return gap.Report{}, err
	}
	return gap.Report{
		ResumeSkills:    toCanonical(s.ResumeSkills),
		JDSkills:        toCanonical(s.JDSkills),
		Overlap:         toCanonical(s.Overlap),
		MissingInResume: toCanonical(s.MissingInResume),
		ExtraInResume:   toCanonical(s.ExtraInResume),
		Classifications: s.Classifications,
		OverallScore:    s.OverallScore,
		GeneratedAt:     s.GeneratedAt.UTC(),
	}, nil
}

func (r *PostgresAnalysisRepository) Save(ctx context.Context, a analysis.Analysis) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil repository")
	}
	report, err := encodeReport(a.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO analyses (
			id, user_id, batch_id, source, jd_url, overall_score, readiness,
			match_threshold, partial_threshold, embedding_model, report, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID,
		nullableText(a.UserID),
		a.BatchID,
		string(a.Source),
		nullableText(a.JDURL),
		a.Report.OverallScore,
		string(a.Report.Readiness()),
		a.Thresholds.Match,
		a.Thresholds.Partial,
		a.EmbeddingModel,
		report,
		a.CreatedAt,
	)
	return err
}

const selectAnalysis = `SELECT id, COALESCE(user_id, ''), batch_id, source, COALESCE(jd_url, ''),
	match_threshold, partial_threshold, embedding_model, report, created_at
	FROM analyses`

func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	if r == nil || r.db == nil {
		return analysis.Analysis{}, fmt.Errorf("nil repository")
	}
	row := r.db.QueryRow(ctx, selectAnalysis+` WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analysis.Analysis{}, analysis.ErrNotFound
		}
		return analysis.Analysis{}, err
	}
	return a, nil
}

func (r *PostgresAnalysisRepository) List(ctx context.Context, f analysis.ListFilter) ([]analysis.Analysis, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("nil repository")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		selectAnalysis+` WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		f.UserID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analysis.Analysis, 0, limit)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresAnalysisRepository) CreateBatch(ctx context.Context, b analysis.Batch) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil repository")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO analysis_batches (id, user_id, total, created_at) VALUES ($1, $2, $3, $4)`,
		b.ID, nullableText(b.UserID), b.Total, b.CreatedAt,
	)
	return err
}

func (r *PostgresAnalysisRepository) FinishBatch(ctx context.Context, id uuid.UUID, succeeded, failed int, finishedAt time.Time) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil repository")
	}
	n, err := r.db.Exec(ctx,
		`UPDATE analysis_batches SET succeeded = $2, failed = $3, finished_at = $4 WHERE id = $1`,
		id, succeeded, failed, finishedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return analysis.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (analysis.Analysis, error) {
	var (
		a       analysis.Analysis
		source  string
		report  []byte
		batchID *uuid.UUID
	)
	if err := s.Scan(
		&a.ID,
		&a.UserID,
		&batchID,
		&source,
		&a.JDURL,
		&a.Thresholds.Match,
		&a.Thresholds.Partial,
		&a.EmbeddingModel,
		&report,
		&a.CreatedAt,
	); err != nil {
		return analysis.Analysis{}, err
	}
	rep, err := decodeReport(report)
	if err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode report %s: %w", a.ID, err)
	}
	a.BatchID = batchID
	a.Source = analysis.Source(source)
	a.Report = rep
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toStrings(cs []skill.Canonical) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func toCanonical(ss []string) []skill.Canonical {
	out := make([]skill.Canonical, len(ss))
	for i, s := range ss {
		out[i] = skill.Canonical(s)
	}
	return out
}
