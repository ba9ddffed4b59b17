package analysis

import (
	"context"

	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
)

// AnalyzeURL validates, fetches and analyzes a page. Malformed URLs fail before
// any work; fetch and analysis failures come back in the result's Error.
func (o *Orchestrator) AnalyzeURL(ctx context.Context, rawURL string) (web.URLAnalysisResult, error) {
	normalized, err := web.NormalizeAndValidate(rawURL)
	if err != nil {
		return web.URLAnalysisResult{}, err
	}
	if o.p.Fetcher == nil {
		return web.URLAnalysisResult{}, domain.ErrUnsupported
	}
	start := o.clock.Now()

	key := cache.Key("urlAnalysis", normalized)
	res, _ := cache.GetOrComputeWhen(ctx, o.caches.URL, key, o.cfg.DefaultTTL, func(ctx context.Context) (web.URLAnalysisResult, error) {
		return o.analyzeURL(ctx, normalized), nil
	}, func(r web.URLAnalysisResult) bool {
		return r.Error == "" && r.Analysis != nil && complete(*r.Analysis)
	})

	var verdict domain.Verdict
	if res.Analysis != nil {
		verdict = res.Analysis.FactCheck.Verdict
	}
	out := domain.Outcome{
		Operation: "url",
		Language:  res.Language,
		Verdict:   verdict,
		Success:   res.Error == "",
		Message:   res.Error,
		Duration:  o.clock.Now().Sub(start),
		CreatedAt: o.clock.Now().UTC(),
	}
	if !out.Success {
		out.ErrorKind = bulk.ErrorKindFailed
	}
	o.sink.Record(ctx, out)
	return res, nil
}

func (o *Orchestrator) analyzeURL(ctx context.Context, url string) web.URLAnalysisResult {
	page := o.p.Fetcher.Fetch(ctx, url)
	res := web.URLAnalysisResult{
		URL:      url,
		Title:    page.Title,
		Language: page.Language,
		Metadata: page.Metadata,
	}
	if page.Content == nil {
		res.Error = page.Error
		return res
	}

	a, err := o.AnalyzeComprehensively(ctx, *page.Content, page.Language)
	if err != nil {
		res.Error = "Error analyzing URL: " + err.Error()
		return res
	}
	res.Analysis = &a
	return res
}
