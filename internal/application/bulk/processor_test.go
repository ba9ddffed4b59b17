package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

type fakeAnalyzer struct {
	content func(ctx context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error)
	url     func(ctx context.Context, rawURL string) (web.URLAnalysisResult, error)
	calls   atomic.Int32
}

func (f *fakeAnalyzer) AnalyzeComprehensively(ctx context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error) {
	f.calls.Add(1)
	if f.content != nil {
		return f.content(ctx, content, lang)
	}
	return verdict(analysis.VerdictCredible, lang), nil
}

func (f *fakeAnalyzer) AnalyzeURL(ctx context.Context, rawURL string) (web.URLAnalysisResult, error) {
	f.calls.Add(1)
	return f.url(ctx, rawURL)
}

func verdict(v analysis.Verdict, lang string) analysis.EnhancedAnalysisResult {
	return analysis.EnhancedAnalysisResult{
		FactCheck:         analysis.AnalysisResult{Verdict: v},
		AdditionalContext: map[string]any{"language": lang},
	}
}

type fakeArchiver struct {
	mu   sync.Mutex
	docs map[string]any
}

func (f *fakeArchiver) ArchiveBatch(_ context.Context, kind, batchID string, _ time.Time, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[kind+"/"+batchID] = doc
	return nil
}

type countingSink struct {
	mu       sync.Mutex
	outcomes []analysis.Outcome
}

func (s *countingSink) Record(_ context.Context, o analysis.Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, o)
	s.mu.Unlock()
}

func newProcessor(a Analyzer, cfg Config) *Processor {
	return NewProcessor(a, nil, nil, application.SystemClock{}, cfg, logger.NewNop())
}

func contentItems(contents ...string) []domain.ContentItem {
	items := make([]domain.ContentItem, len(contents))
	for i, c := range contents {
		items[i] = domain.ContentItem{ID: fmt.Sprintf("id-%d", i), Content: c}
	}
	return items
}

func assertCounts(t *testing.T, c domain.Counts, n int) {
	t.Helper()
	assert.Equal(t, n, c.ItemsProcessed)
	assert.Equal(t, c.ItemsProcessed, c.ItemsSucceeded+c.ItemsFailed)
	assert.NotEmpty(t, c.BatchID)
}

func TestAnalyzeContentIsolatesFailures(t *testing.T) {
	a := &fakeAnalyzer{content: func(_ context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error) {
		if content == "bad" {
			return analysis.EnhancedAnalysisResult{}, errors.New("provider down")
		}
		return verdict(analysis.VerdictCredible, lang), nil
	}}
	p := newProcessor(a, Config{MaxConcurrency: 3})

	res, err := p.AnalyzeContent(context.Background(), contentItems("a", "b", "bad", "c", "d"))
	require.NoError(t, err)

	assertCounts(t, res.Counts, 5)
	assert.Equal(t, 4, res.ItemsSucceeded)
	assert.Equal(t, 1, res.ItemsFailed)
	require.Len(t, res.Results, 5)
	for i, r := range res.Results {
		assert.Equal(t, fmt.Sprintf("id-%d", i), r.ID)
		if i == 2 {
			assert.Nil(t, r.Analysis)
			require.NotNil(t, r.Error)
			assert.Equal(t, "Analysis failed: provider down", *r.Error)
			assert.Equal(t, domain.ErrorKindFailed, r.ErrorKind)
			continue
		}
		assert.NotNil(t, r.Analysis)
		assert.Nil(t, r.Error)
	}
}

func TestAnalyzeContentRecoversPanics(t *testing.T) {
	a := &fakeAnalyzer{content: func(_ context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error) {
		if content == "explode" {
			panic("nil map")
		}
		return verdict(analysis.VerdictCredible, lang), nil
	}}
	p := newProcessor(a, Config{MaxConcurrency: 2})

	res, err := p.AnalyzeContent(context.Background(), contentItems("ok", "explode"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ItemsFailed)
	require.NotNil(t, res.Results[1].Error)
	assert.Contains(t, *res.Results[1].Error, "panic: nil map")
}

func TestAnalyzeContentRespectsConcurrencyCeiling(t *testing.T) {
	var inFlight, peak atomic.Int32
	a := &fakeAnalyzer{content: func(_ context.Context, _, lang string) (analysis.EnhancedAnalysisResult, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return verdict(analysis.VerdictCredible, lang), nil
	}}
	p := newProcessor(a, Config{MaxConcurrency: 2})

	res, err := p.AnalyzeContent(context.Background(), contentItems("1", "2", "3", "4", "5", "6", "7", "8"))
	require.NoError(t, err)
	assert.Equal(t, 8, res.ItemsSucceeded)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzeContentDefaultsLanguage(t *testing.T) {
	var seen sync.Map
	a := &fakeAnalyzer{content: func(_ context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error) {
		seen.Store(content, lang)
		return verdict(analysis.VerdictCredible, lang), nil
	}}
	p := newProcessor(a, Config{MaxConcurrency: 2})
	items := []domain.ContentItem{{ID: "a", Content: "one"}, {ID: "b", Content: "dua", Language: "id"}}

	_, err := p.AnalyzeContent(context.Background(), items)
	require.NoError(t, err)
	lang, _ := seen.Load("one")
	assert.Equal(t, "en", lang)
	lang, _ = seen.Load("dua")
	assert.Equal(t, "id", lang)
}

func TestAnalyzeContentCancelledBeforeStart(t *testing.T) {
	a := &fakeAnalyzer{}
	p := newProcessor(a, Config{MaxConcurrency: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.AnalyzeContent(ctx, contentItems("a", "b", "c"))
	require.NoError(t, err)
	assertCounts(t, res.Counts, 3)
	assert.Equal(t, 3, res.ItemsCancelled)
	assert.Zero(t, a.calls.Load())
	for _, r := range res.Results {
		assert.Equal(t, domain.ErrorKindCancelled, r.ErrorKind)
		assert.Nil(t, r.Analysis)
	}
}

func TestAnalyzeContentCancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := &fakeAnalyzer{content: func(ictx context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error) {
		if content == "first" {
			return verdict(analysis.VerdictCredible, lang), nil
		}
		cancel()
		<-ictx.Done()
		return analysis.EnhancedAnalysisResult{}, ictx.Err()
	}}
	p := newProcessor(a, Config{MaxConcurrency: 1})

	res, err := p.AnalyzeContent(ctx, contentItems("first", "second", "third", "fourth"))
	require.NoError(t, err)
	assertCounts(t, res.Counts, 4)
	assert.Equal(t, 1, res.ItemsSucceeded)
	assert.Equal(t, 3, res.ItemsCancelled)
	assert.Equal(t, int32(2), a.calls.Load())
}

func TestAnalyzeContentItemTimeoutIsFailure(t *testing.T) {
	a := &fakeAnalyzer{content: func(ictx context.Context, _, _ string) (analysis.EnhancedAnalysisResult, error) {
		<-ictx.Done()
		return analysis.EnhancedAnalysisResult{}, ictx.Err()
	}}
	p := newProcessor(a, Config{MaxConcurrency: 1, ItemTimeout: time.Millisecond})

	res, err := p.AnalyzeContent(context.Background(), contentItems("slow"))
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorKindFailed, res.Results[0].ErrorKind)
	assert.Zero(t, res.ItemsCancelled)
}

func TestAnalyzeContentValidatesBatch(t *testing.T) {
	p := newProcessor(&fakeAnalyzer{}, Config{MaxConcurrency: 1, MaxItems: 2})

	_, err := p.AnalyzeContent(context.Background(), nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)

	_, err = p.AnalyzeContent(context.Background(), contentItems("a", "b", "c"))
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)
}

func TestAnalyzeContentReportsAndArchives(t *testing.T) {
	sink := &countingSink{}
	arch := &fakeArchiver{docs: map[string]any{}}
	p := NewProcessor(&fakeAnalyzer{}, arch, sink, application.SystemClock{}, Config{MaxConcurrency: 2}, logger.NewNop())

	res, err := p.AnalyzeContent(context.Background(), contentItems("a", "b"))
	require.NoError(t, err)
	p.Wait()

	assert.Len(t, sink.outcomes, 2)
	for _, o := range sink.outcomes {
		assert.Equal(t, res.BatchID, o.BatchID)
		assert.True(t, o.Success)
		assert.Equal(t, "en", o.Language)
	}
	assert.Contains(t, arch.docs, "content/"+res.BatchID)
}

func TestAnalyzeURLs(t *testing.T) {
	a := &fakeAnalyzer{url: func(_ context.Context, rawURL string) (web.URLAnalysisResult, error) {
		switch rawURL {
		case "not a url":
			return web.URLAnalysisResult{}, web.ErrInvalidURL
		case "down.example":
			return web.URLAnalysisResult{URL: "https://down.example", Error: "Error fetching content: 503"}, nil
		default:
			r := verdict(analysis.VerdictCredible, "en")
			return web.URLAnalysisResult{URL: "https://" + rawURL, Analysis: &r}, nil
		}
	}}
	p := newProcessor(a, Config{MaxConcurrency: 4})
	items := []domain.URLItem{
		{ID: "ok", URL: "example.com"},
		{ID: "bad", URL: "not a url"},
		{ID: "down", URL: "down.example"},
	}

	res, err := p.AnalyzeURLs(context.Background(), items)
	require.NoError(t, err)
	assertCounts(t, res.Counts, 3)
	assert.Equal(t, 1, res.ItemsSucceeded)

	assert.Equal(t, "https://example.com", res.Results[0].URL)
	require.NotNil(t, res.Results[0].Analysis)

	assert.Equal(t, domain.ErrorKindInvalid, res.Results[1].ErrorKind)
	assert.Nil(t, res.Results[1].Analysis)

	require.NotNil(t, res.Results[2].Error)
	assert.Equal(t, "Analysis failed: Error fetching content: 503", *res.Results[2].Error)
	assert.Equal(t, "down.example", res.Results[2].URL)
}
