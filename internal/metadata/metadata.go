// Package metadata fetches link-preview fields (title, description, image,
// favicon) for arbitrary URLs. A direct fetch of the page is tried first; when
// it yields no title and a scraping API is configured, that API is asked once
// and its answers are laid over the partial result.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/metrics"
	"go.uber.org/zap"
)

const (
	directTimeout   = 5 * time.Second
	fallbackTimeout = 8 * time.Second
	maxBodyBytes    = 2 << 20

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var ErrInvalidURL = errors.New("invalid url")

// Result is the wire shape returned to clients. Nil fields serialize as null.
type Result struct {
	Success     bool    `json:"success"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Favicon     *string `json:"favicon"`
}

// Cache stores results by normalized URL.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, result *Result)
}

type Fetcher struct {
	httpClient *http.Client
	extractor  MetaExtractor
	scraper    *ScrapeClient
	cache      Cache
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = c }
}

func WithExtractor(e MetaExtractor) Option {
	return func(f *Fetcher) { f.extractor = e }
}

// WithScraper enables the fallback. A scraper without a key is ignored.
func WithScraper(s *ScrapeClient) Option {
	return func(f *Fetcher) {
		if s != nil && s.apiKey != "" {
			f.scraper = s
		}
	}
}

func WithCache(c Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l.Named("metadata") }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{},
		extractor:  RegexExtractor{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NormalizeURL trims the input and prefixes https:// when it carries no
// scheme. Inputs that already name a scheme are returned unchanged; Fetch
// rejects the ones that are not http(s).
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// Fetch never fails because the page or the scraping API misbehaved; those
// errors only leave fields empty. It fails when the URL cannot be parsed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	target := NormalizeURL(rawURL)
	pageURL, err := url.Parse(target)
	if err != nil || pageURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if scheme := strings.ToLower(pageURL.Scheme); scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, pageURL.Scheme)
	}

	if f.cache != nil {
		if cached, ok := f.cache.Get(ctx, target); ok {
			f.metrics.MetadataFetch("cache", "hit")
			return cached, nil
		}
	}

	meta, err := f.fetchDirect(ctx, target)
	if err != nil {
		f.logger.Warn("direct fetch failed", zap.String("url", target), zap.Error(err))
		f.metrics.MetadataFetch("direct", "error")
	} else {
		f.metrics.MetadataFetch("direct", "ok")
	}

	if meta.Title == "" && f.scraper != nil {
		scraped, err := f.scraper.Scrape(ctx, target)
		if err != nil {
			f.logger.Warn("fallback scrape failed", zap.String("url", target), zap.Error(err))
			f.metrics.MetadataFetch("fallback", "error")
		} else {
			f.metrics.MetadataFetch("fallback", "ok")
			meta = overlay(meta, scraped)
		}
	}

	result := &Result{
		Success:     true,
		Title:       optional(meta.Title),
		Description: optional(meta.Description),
		Image:       optional(resolve(pageURL, meta.Image)),
		Favicon:     optional(resolve(pageURL, meta.Favicon)),
	}

	if f.cache != nil && result.Title != nil {
		f.cache.Set(ctx, target, result)
	}

	return result, nil
}

func (f *Fetcher) fetchDirect(ctx context.Context, target string) (Meta, error) {
	ctx, cancel := context.WithTimeout(ctx, directTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Meta{}, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Meta{}, fmt.Errorf("failed to read page: %w", err)
	}

	return f.extractor.Extract(string(body)), nil
}

// overlay prefers the fallback's non-empty values.
func overlay(base, over Meta) Meta {
	if over.Title != "" {
		base.Title = over.Title
	}
	if over.Description != "" {
		base.Description = over.Description
	}
	if over.Image != "" {
		base.Image = over.Image
	}
	if over.Favicon != "" {
		base.Favicon = over.Favicon
	}
	return base
}

func resolve(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
