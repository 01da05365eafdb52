package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	RequestTimeout = 20 * time.Second
	MaxCoverSize   = 8 * 1024 * 1024
)

// ErrNoArt is returned for an empty art URL.
var ErrNoArt = errors.New("cover: no art url")

// RewriteArtURL maps the open.spotify.com art links some clients report to
// the image CDN that actually serves them.
func RewriteArtURL(raw string) string {
	return strings.Replace(raw, "https://open.spotify.com", "http://i.scdn.co", 1)
}

// CoverFetcher downloads album art.
type CoverFetcher struct {
	c *colly.Collector
}

func NewCoverFetcher() *CoverFetcher {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		colly.MaxBodySize(MaxCoverSize),
	)
	c.SetRequestTimeout(RequestTimeout)
	return &CoverFetcher{c: c}
}

// Fetch returns the raw image bytes behind artURL. file:// URLs, which
// local players report for embedded art, are read from disk.
func (f *CoverFetcher) Fetch(ctx context.Context, artURL string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if artURL == "" {
		return nil, ErrNoArt
	}
	if strings.HasPrefix(artURL, "file://") {
		u, err := url.Parse(artURL)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	}

	artURL = RewriteArtURL(artURL)
	if !strings.HasPrefix(artURL, "http://") && !strings.HasPrefix(artURL, "https://") {
		return nil, fmt.Errorf("cover: unsupported url %q", artURL)
	}

	// A clone carries the configuration but none of the callbacks, so
	// concurrent fetches do not see each other's responses.
	c := f.c.Clone()
	c.Context = ctx
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", NextUserAgent())
		r.Headers.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,*/*;q=0.8")
	})

	var body []byte
	var contentType string
	c.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
		contentType = r.Headers.Get("Content-Type")
	})
	if err := c.Visit(artURL); err != nil {
		return nil, fmt.Errorf("cover: %s: %w", artURL, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("cover: %s: empty response body", artURL)
	}
	if ct := strings.ToLower(contentType); ct != "" && strings.HasPrefix(ct, "text/") {
		return nil, fmt.Errorf("cover: %s: unexpected content type %s", artURL, contentType)
	}
	return body, nil
}
