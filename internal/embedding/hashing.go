package embedding

import (
	"context"
	"hash/fnv"
	"strings"
)

const DefaultHashingDimensions = 256

// Hashing is a deterministic, offline embedder: character trigrams of the
// padded label are counted into a fixed number of hashed buckets. Labels that
// share many trigrams ("data analysis", "data analytics") land close together.
// It needs no model and is the fallback when no remote provider is configured.
type Hashing struct {
	dims int
}

func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

func (h *Hashing) Model() string { return "hashing-trigram" }

func (h *Hashing) Dimensions() int { return h.dims }

func (h *Hashing) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, h.vector(t))
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	v := make([]float64, h.dims)
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if norm == "" {
		return v
	}

	runes := []rune(" " + norm + " ")
	for i := 0; i+3 <= len(runes); i++ {
		f := fnv.New64a()
		_, _ = f.Write([]byte(string(runes[i : i+3])))
		v[f.Sum64()%uint64(h.dims)]++
	}
	return v
}
