package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// VectorCache is the subset of the Redis cache the embedding layer needs.
type VectorCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Cached memoizes vectors per (model, label). Cache errors are logged and
// treated as misses; only the wrapped provider can fail an Embed call.
type Cached struct {
	next  Provider
	cache VectorCache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCached(next Provider, cache VectorCache, ttl time.Duration, log zerolog.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) Model() string { return ModelName(c.next) }

func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if c.cache == nil {
		return c.next.Embed(ctx, texts)
	}

	out := make([][]float64, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		var v []float64
		ok, err := c.cache.GetJSON(ctx, c.key(t), &v)
		if err != nil {
			c.log.Warn().Err(err).Msg("embedding cache read failed")
		}
		if ok && len(v) > 0 {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrBadResponse, len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		if err := c.cache.SetJSON(ctx, c.key(texts[i]), vecs[j], c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("embedding cache write failed")
		}
	}
	return out, nil
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + c.Model() + ":" + hex.EncodeToString(sum[:])
}
