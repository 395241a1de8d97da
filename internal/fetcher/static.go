package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
)

// StaticFetcher reads server-rendered postings with colly.
type StaticFetcher struct {
	opts Options
}

func NewStaticFetcher(opts Options) *StaticFetcher {
	return &StaticFetcher{opts: opts.withDefaults()}
}

func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	c := colly.NewCollector(colly.AllowedDomains(hostOf(u)))
	c.SetRequestTimeout(f.opts.Timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1})

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range httpHeaders(f.opts.UserAgent) {
			r.Headers.Set(k, v)
		}
	})

	var parts []string
	c.OnHTML(f.opts.BodySelector, func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript").Remove()
		if text := strings.TrimSpace(e.DOM.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.Visit(u.String()); err != nil {
		return "", fmt.Errorf("visit %s: %w", u.Host, err)
	}
	c.Wait()
	if reqErr != nil {
		return "", fmt.Errorf("fetch %s: %w", u.Host, reqErr)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", ErrEmptyPage
	}
	return text, nil
}
