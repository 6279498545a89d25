package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const RequestTimeout = 20 * time.Second

// CollyGetter fetches pages with a colly collector. It adds no retries.
// The body is returned whatever the HTTP status and is never truncated;
// only transport errors are returned.
type CollyGetter struct {
	c *colly.Collector
}

func NewCollyGetter(timeout time.Duration) *CollyGetter {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		// 0 lifts colly's default body limit.
		colly.MaxBodySize(0),
	)
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(timeout)
	return &CollyGetter{c: c}
}

func (g *CollyGetter) Get(ctx context.Context, rawURL string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", errors.New("url must start with http:// or https://")
	}

	// Callbacks are registered per call, so work on a clone.
	c := g.c.Clone()
	c.Context = ctx
	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	if err := c.Visit(rawURL); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(body), nil
}
