package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data    map[string][]byte
	failGet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if m.failGet {
		return false, errors.New("down")
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

type countingProvider struct {
	inner Provider
	seen  [][]string
}

func (c *countingProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	c.seen = append(c.seen, append([]string(nil), texts...))
	return c.inner.Embed(ctx, texts)
}

func TestCached_OnlyEmbedsMisses(t *testing.T) {
	inner := &countingProvider{inner: NewHashing(32)}
	c := NewCached(inner, newMemCache(), time.Minute, zerolog.Nop())

	first, err := c.Embed(context.Background(), []string{"go", "sql"})
	require.NoError(t, err)

	second, err := c.Embed(context.Background(), []string{"sql", "docker", "go"})
	require.NoError(t, err)

	require.Len(t, inner.seen, 2)
	assert.Equal(t, []string{"docker"}, inner.seen[1])
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])
}

func TestCached_CacheErrorsAreMisses(t *testing.T) {
	cache := newMemCache()
	cache.failGet = true
	inner := &countingProvider{inner: NewHashing(8)}
	c := NewCached(inner, cache, time.Minute, zerolog.Nop())

	vecs, err := c.Embed(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.Len(t, inner.seen, 1)
}

func TestCached_KeyIncludesModel(t *testing.T) {
	c := NewCached(NewHashing(8), newMemCache(), 0, zerolog.Nop())
	assert.Contains(t, c.key("go"), "embed:hashing-trigram:")
}

func TestLazy_BuildsOnce(t *testing.T) {
	builds := 0
	l := NewLazy(func() (Provider, error) {
		builds++
		return NewHashing(4), nil
	})
	assert.Equal(t, 0, builds)

	for i := 0; i < 3; i++ {
		_, err := l.Embed(context.Background(), []string{"go"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
	assert.Equal(t, "hashing-trigram", l.Model())
}

func TestLazy_BuildErrorIsSticky(t *testing.T) {
	l := NewLazy(func() (Provider, error) { return nil, ErrNotConfigured })
	_, err := l.Embed(context.Background(), []string{"go"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = l.Embed(context.Background(), []string{"go"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
