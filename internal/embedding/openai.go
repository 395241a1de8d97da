package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1/embeddings"
	defaultModel     = "text-embedding-3-small"
	defaultBatchSize = 64
)

// HTTPProvider calls an OpenAI-compatible /embeddings endpoint.
type HTTPProvider struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	batchSize  int
	client     *http.Client
	log        zerolog.Logger
}

type HTTPOption func(*HTTPProvider)

func WithBaseURL(u string) HTTPOption {
	return func(p *HTTPProvider) {
		if strings.TrimSpace(u) != "" {
			p.baseURL = strings.TrimSpace(u)
		}
	}
}

func WithModel(m string) HTTPOption {
	return func(p *HTTPProvider) {
		if strings.TrimSpace(m) != "" {
			p.model = strings.TrimSpace(m)
		}
	}
}

// WithDimensions requests a vector size from the API; responses of any other
// size are rejected.
func WithDimensions(d int) HTTPOption {
	return func(p *HTTPProvider) { p.dimensions = d }
}

func WithBatchSize(n int) HTTPOption {
	return func(p *HTTPProvider) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

func WithLogger(l zerolog.Logger) HTTPOption {
	return func(p *HTTPProvider) { p.log = l }
}

func NewHTTPProvider(apiKey string, opts ...HTTPOption) (*HTTPProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: empty api key", ErrNotConfigured)
	}
	p := &HTTPProvider{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   defaultBaseURL,
		model:     defaultModel,
		batchSize: defaultBatchSize,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *HTTPProvider) Model() string { return p.model }

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	Dimensions     int      `json:"dimensions,omitempty"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data  []embeddingEntry `json:"data"`
	Model string           `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type embeddingEntry struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := p.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (p *HTTPProvider) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingRequest{
		Input:          texts,
		Model:          p.model,
		Dimensions:     p.dimensions,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	var parsed embeddingResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("embedding api status %d: %s (%s)", resp.StatusCode, parsed.Error.Message, parsed.Error.Type)
		}
		return nil, fmt.Errorf("embedding api status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, decodeErr)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, fmt.Errorf("embedding api error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrBadResponse, len(parsed.Data), len(texts))
	}

	out := make([][]float64, len(texts))
	seen := make([]bool, len(texts))
	for _, e := range parsed.Data {
		if e.Index < 0 || e.Index >= len(texts) || seen[e.Index] {
			return nil, fmt.Errorf("%w: bad index %d", ErrBadResponse, e.Index)
		}
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty vector at index %d", ErrBadResponse, e.Index)
		}
		if p.dimensions > 0 && len(e.Embedding) != p.dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrBadResponse, e.Index, len(e.Embedding), p.dimensions)
		}
		seen[e.Index] = true
		out[e.Index] = e.Embedding
	}

	p.log.Debug().
		Int("texts", len(texts)).
		Str("model", p.model).
		Int("prompt_tokens", parsed.Usage.PromptTokens).
		Dur("latency", time.Since(start)).
		Msg("embedded batch")

	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
