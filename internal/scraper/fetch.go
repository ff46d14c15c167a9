package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

const acceptHeader = "text/html,application/xhtml+xml"

// Fetcher downloads a page and returns its body decoded to UTF-8.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// CollyFetcher fetches pages one at a time with a colly collector.
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a fetcher sending userAgent and giving up on a
// request after timeout.
func NewCollyFetcher(userAgent string, timeout time.Duration) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	)

	c.SetRequestTimeout(timeout)
	c.WithTransport(newTransport(timeout))

	return &CollyFetcher{collector: c}
}

// Fetch visits pageURL and returns the response body.
// Non-2xx responses and transport failures are returned as errors.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Callbacks are per call, the clone shares configuration and transport.
	c := f.collector.Clone()
	c.Context = ctx

	var body []byte

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("could not visit %s: %w", pageURL, err)
	}

	return string(body), nil
}
