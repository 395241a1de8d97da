package fetcher

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"
)

// HeadlessFetcher renders the posting in headless Chrome before reading it,
// for boards that build the page client-side.
type HeadlessFetcher struct {
	opts Options
}

func NewHeadlessFetcher(opts Options) *HeadlessFetcher {
	return &HeadlessFetcher{opts: opts.withDefaults()}
}

func (f *HeadlessFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.opts.UserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, f.opts.Timeout)
	defer reqCancel()

	var text string
	err = chromedp.Run(reqCtx,
		chromedp.Navigate(u.String()),
		chromedp.WaitReady(f.opts.BodySelector, chromedp.ByQuery),
		chromedp.Text(f.opts.BodySelector, &text, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyPage
	}
	return text, nil
}
