package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPProvider_RequiresKey(t *testing.T) {
	_, err := NewHTTPProvider("  ")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHTTPProvider_Embed(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		// Out of order on purpose; the client must place vectors by index.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0, 1}},
				{"index": 0, "embedding": []float64{1, 0}},
			},
			"model": "m",
		})
	}))
	defer srv.Close()

	p, err := NewHTTPProvider("secret", WithBaseURL(srv.URL), WithModel("m"), WithDimensions(2))
	require.NoError(t, err)
	assert.Equal(t, "m", p.Model())

	vecs, err := p.Embed(context.Background(), []string{"go", "sql"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vecs)
	assert.Equal(t, []string{"go", "sql"}, got.Input)
	assert.Equal(t, 2, got.Dimensions)
}

func TestHTTPProvider_Batches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req embeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		data := make([]map[string]any, 0, len(req.Input))
		for i := range req.Input {
			data = append(data, map[string]any{"index": i, "embedding": []float64{float64(calls), 1}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	p, err := NewHTTPProvider("k", WithBaseURL(srv.URL), WithBatchSize(2))
	require.NoError(t, err)

	vecs, err := p.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float64{2, 1}, vecs[2])
}

func TestHTTPProvider_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{1}}},
		})
	}))
	defer srv.Close()

	p, err := NewHTTPProvider("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestHTTPProvider_RejectsMalformedVectors(t *testing.T) {
	cases := map[string][]map[string]any{
		"wrong dimensions": {
			{"index": 0, "embedding": []float64{1, 0}},
			{"index": 1, "embedding": []float64{1, 0, 0}},
		},
		"repeated null index": {
			{"index": 0, "embedding": nil},
			{"index": 0, "embedding": []float64{1, 0}},
		},
		"empty vector": {
			{"index": 0, "embedding": []float64{}},
			{"index": 1, "embedding": []float64{1, 0}},
		},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
			}))
			defer srv.Close()

			p, err := NewHTTPProvider("k", WithBaseURL(srv.URL), WithDimensions(2))
			require.NoError(t, err)

			_, err = p.Embed(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, ErrBadResponse)
		})
	}
}

func TestHTTPProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid key", "type": "auth"},
		})
	}))
	defer srv.Close()

	p, err := NewHTTPProvider("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.Contains(t, err.Error(), "401")
}
