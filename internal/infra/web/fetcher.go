// Package web fetches pages and extracts their readable content.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const unknownLanguage = "unknown"

type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	CacheTTL     time.Duration
	Extractor    Extractor
}

// Fetcher implements domain.Fetcher over net/http and goquery.
type Fetcher struct {
	client *http.Client
	cfg    Config
	cache  cache.Cache[domain.ContentResult]
	log    logger.Logger
}

// NewFetcher builds a fetcher. A nil client gets one bounded by cfg.Timeout;
// a nil cache disables caching.
func NewFetcher(cfg Config, client *http.Client, c cache.Cache[domain.ContentResult], log logger.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, cfg: cfg, cache: c, log: log.With(logger.String("component", "content_fetcher"))}
}

// Fetch never fails: errors come back as a result with nil Content. Only
// successful extractions are cached, keyed by the exact input string.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) domain.ContentResult {
	key := cache.Key("webContent", rawURL)
	if f.cache != nil {
		if r, ok := f.cache.Get(ctx, key); ok {
			return r
		}
	}

	res := f.fetch(ctx, domain.NormalizeURL(rawURL))
	if res.Content != nil && f.cache != nil {
		f.cache.Put(ctx, key, res, f.cfg.CacheTTL)
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context, u string) domain.ContentResult {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return f.failed(u, 0, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return f.failed(u, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return f.failed(u, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.cfg.MaxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, f.cfg.MaxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return f.failed(u, resp.StatusCode, err)
	}

	ext, err := f.cfg.Extractor.Extract(raw)
	if err != nil {
		return f.failed(u, resp.StatusCode, err)
	}
	if strings.TrimSpace(ext.Text) == "" {
		return f.failed(u, resp.StatusCode, fmt.Errorf("page has no extractable text"))
	}

	f.log.Debug("page fetched",
		logger.String("url", u),
		logger.Int("status", resp.StatusCode),
		logger.Int("chars", len(ext.Text)),
		logger.Duration("took", time.Since(start)),
	)
	text := ext.Text
	return domain.ContentResult{
		URL:        u,
		Title:      ext.Title,
		Content:    &text,
		Metadata:   ext.Metadata,
		Language:   ext.Language,
		StatusCode: resp.StatusCode,
	}
}

func (f *Fetcher) failed(u string, status int, err error) domain.ContentResult {
	f.log.Warn("fetch failed", logger.String("url", u), logger.Error(err))
	return domain.ContentResult{
		URL:        u,
		Metadata:   map[string]string{},
		Language:   unknownLanguage,
		StatusCode: status,
		Error:      "Error fetching content: " + err.Error(),
	}
}
