package embedding

import (
	"context"
	"sync"
)

// Lazy defers building the underlying provider until the first Embed call and
// then reuses it for the life of the process. A failed build is sticky.
type Lazy struct {
	build func() (Provider, error)

	once sync.Once
	p    Provider
	err  error
}

func NewLazy(build func() (Provider, error)) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) get() (Provider, error) {
	l.once.Do(func() {
		if l.build == nil {
			l.err = ErrNotConfigured
			return
		}
		l.p, l.err = l.build()
		if l.err == nil && l.p == nil {
			l.err = ErrNotConfigured
		}
	})
	return l.p, l.err
}

func (l *Lazy) Model() string {
	p, err := l.get()
	if err != nil {
		return "default"
	}
	return ModelName(p)
}

func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	p, err := l.get()
	if err != nil {
		return nil, err
	}
	return p.Embed(ctx, texts)
}
