package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html><head><title>Backend Engineer</title>
<script>var tracking = "python";</script></head>
<body>
<nav>Home | Jobs</nav>
<div class="job-description">
  <h2>Requirements</h2>
  <ul><li>Go and PostgreSQL</li><li>Docker, Kubernetes</li></ul>
</div>
</body></html>`

func newPostingServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetcher_SelectsBody(t *testing.T) {
	srv := newPostingServer(t, http.StatusOK, postingHTML)
	f := NewStaticFetcher(Options{BodySelector: ".job-description"})

	text, err := f.Fetch(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)
	assert.Contains(t, text, "Go and PostgreSQL")
	assert.Contains(t, text, "Kubernetes")
	assert.NotContains(t, text, "Home | Jobs")
}

func TestStaticFetcher_DropsScripts(t *testing.T) {
	srv := newPostingServer(t, http.StatusOK, `<html><body><script>python()</script><p>Rust</p></body></html>`)
	text, err := NewStaticFetcher(Options{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Rust", text)
}

func TestStaticFetcher_EmptyPage(t *testing.T) {
	srv := newPostingServer(t, http.StatusOK, postingHTML)
	_, err := NewStaticFetcher(Options{BodySelector: "#missing"}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestStaticFetcher_HTTPError(t *testing.T) {
	srv := newPostingServer(t, http.StatusNotFound, "gone")
	_, err := NewStaticFetcher(Options{}).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_RejectsBadURLs(t *testing.T) {
	f := NewStaticFetcher(Options{})
	for _, raw := range []string{"", "ftp://example.com/job", "not a url", "https://"} {
		_, err := f.Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}

	_, err := NewHeadlessFetcher(Options{}).Fetch(context.Background(), "file:///etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, &HeadlessFetcher{}, New(true, Options{}))
	assert.IsType(t, &StaticFetcher{}, New(false, Options{}))
}
