// Package fetcher pulls job description text from a posting URL.
package fetcher

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidURL = errors.New("invalid job posting url")
	ErrEmptyPage  = errors.New("job posting has no text")
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type Options struct {
	// BodySelector picks the element holding the posting text.
	BodySelector string
	UserAgent    string
	Timeout      time.Duration
}

const defaultUserAgent = "SkillGapFetcher/0.1"

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.BodySelector) == "" {
		o.BodySelector = "body"
	}
	if strings.TrimSpace(o.UserAgent) == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	return o
}

// New returns the headless fetcher when headless is set, the static one
// otherwise.
func New(headless bool, opts Options) Fetcher {
	if headless {
		return NewHeadlessFetcher(opts)
	}
	return NewStaticFetcher(opts)
}

func validateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func hostOf(u *url.URL) string {
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

func httpHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept-Language": "en-US,en;q=0.9,id;q=0.8",
	}
}
