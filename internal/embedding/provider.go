package embedding

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("embedding provider not configured")
	ErrBadResponse   = errors.New("embedding provider returned an invalid response")
)

// Provider maps labels to vectors. Implementations return one vector per input
// text, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, texts []string) ([][]float64, error)

func (f Func) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

// Named is implemented by providers that can report their model name; caches
// use it to separate vectors from different models.
type Named interface {
	Model() string
}

// ModelName reports the model behind p, or "default" when p does not say.
func ModelName(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Model()
	}
	return "default"
}
