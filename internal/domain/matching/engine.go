package matching

import (
	"context"
	"fmt"
	"math"

	"skill-gap/internal/domain/skill"
	"skill-gap/internal/embedding"
)

type Band string

const (
	BandMatched Band = "matched"
	BandPartial Band = "partial"
	BandMissing Band = "missing"
)

type Thresholds struct {
	Match   float64
	Partial float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Match: 0.70, Partial: 0.50}
}

func (t Thresholds) Validate() error {
	if !finite(t.Match) || !finite(t.Partial) {
		return &InputError{Reason: fmt.Sprintf("thresholds must be finite (match=%v partial=%v)", t.Match, t.Partial)}
	}
	if t.Match <= 0 || t.Partial <= 0 {
		return &InputError{Reason: fmt.Sprintf("thresholds must be positive (match=%.2f partial=%.2f)", t.Match, t.Partial)}
	}
	if t.Match <= t.Partial {
		return &InputError{Reason: fmt.Sprintf("match threshold %.2f must exceed partial threshold %.2f", t.Match, t.Partial)}
	}
	return nil
}

// Classify applies closed lower bounds: a score equal to a threshold lands in
// the higher band.
func (t Thresholds) Classify(score float64) Band {
	switch {
	case score >= t.Match:
		return BandMatched
	case score >= t.Partial:
		return BandPartial
	default:
		return BandMissing
	}
}

type Classification struct {
	Skill skill.Canonical `json:"skill"`
	Score float64         `json:"score"`
	Band  Band            `json:"band"`
}

// Matrix rows follow the source sequence, columns the target sequence.
type Matrix [][]float64

type Result struct {
	Matrix          Matrix
	Classifications []Classification
}

type Matcher struct {
	provider embedding.Provider
}

func NewMatcher(provider embedding.Provider) *Matcher {
	return &Matcher{provider: provider}
}

// Match scores every target skill by its best cosine similarity against the
// source skills and bands it. Classifications follow target order.
func (m *Matcher) Match(ctx context.Context, source, target []skill.Canonical, th Thresholds) (Result, error) {
	if len(source) == 0 {
		return Result{}, &InputError{Reason: "source skills are empty"}
	}
	if len(target) == 0 {
		return Result{}, &InputError{Reason: "target skills are empty"}
	}
	if err := th.Validate(); err != nil {
		return Result{}, err
	}
	if m == nil || m.provider == nil {
		return Result{}, &EmbeddingError{Err: embedding.ErrNotConfigured}
	}

	vectors, err := m.embed(ctx, source, target)
	if err != nil {
		return Result{}, err
	}

	matrix := make(Matrix, len(source))
	for i, s := range source {
		row := make([]float64, len(target))
		for j, t := range target {
			sim, err := CosineSimilarity(vectors[s], vectors[t])
			if err != nil {
				return Result{}, &EmbeddingError{Label: string(t), Err: err}
			}
			row[j] = sim
		}
		matrix[i] = row
	}

	out := make([]Classification, len(target))
	for j, t := range target {
		best := matrix[0][j]
		for i := 1; i < len(source); i++ {
			if matrix[i][j] > best {
				best = matrix[i][j]
			}
		}
		out[j] = Classification{Skill: t, Score: best, Band: th.Classify(best)}
	}

	return Result{Matrix: matrix, Classifications: out}, nil
}

// embed requests each distinct label once and checks every vector before any
// similarity is computed.
func (m *Matcher) embed(ctx context.Context, source, target []skill.Canonical) (map[skill.Canonical][]float64, error) {
	seen := make(map[skill.Canonical]struct{}, len(source)+len(target))
	labels := make([]string, 0, len(source)+len(target))
	for _, group := range [][]skill.Canonical{source, target} {
		for _, c := range group {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			labels = append(labels, string(c))
		}
	}

	vecs, err := m.provider.Embed(ctx, labels)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}
	if len(vecs) != len(labels) {
		return nil, &EmbeddingError{Err: fmt.Errorf("%w: got %d vectors for %d labels", embedding.ErrBadResponse, len(vecs), len(labels))}
	}

	dims := len(vecs[0])
	out := make(map[skill.Canonical][]float64, len(labels))
	for i, label := range labels {
		v := vecs[i]
		if len(v) == 0 || len(v) != dims {
			return nil, &EmbeddingError{Label: label, Err: errDimensionMismatch}
		}
		if !allFinite(v) {
			return nil, &EmbeddingError{Label: label, Err: errNonFinite}
		}
		if isZero(v) {
			return nil, &EmbeddingError{Label: label, Err: errZeroNorm}
		}
		out[skill.Canonical(label)] = v
	}
	return out, nil
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if !finite(x) {
			return false
		}
	}
	return true
}
