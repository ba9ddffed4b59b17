// Package bulk runs many analyses as one batch with per-item failure isolation.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/satyacheck/internal/application"
	analysisapp "github.com/bryanwahyu/satyacheck/internal/application/analysis"
	"github.com/bryanwahyu/satyacheck/internal/application/language"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const archiveTimeout = 30 * time.Second

// Analyzer is the slice of the orchestrator a batch needs.
type Analyzer interface {
	AnalyzeComprehensively(ctx context.Context, content, lang string) (analysis.EnhancedAnalysisResult, error)
	AnalyzeURL(ctx context.Context, rawURL string) (web.URLAnalysisResult, error)
}

// Archiver stores a finished batch document. Optional.
type Archiver interface {
	ArchiveBatch(ctx context.Context, kind, batchID string, at time.Time, doc any) error
}

type Config struct {
	// MaxConcurrency bounds in-flight items per batch.
	MaxConcurrency int
	MaxItems       int
	// ItemTimeout bounds one item; zero disables it.
	ItemTimeout time.Duration
}

// Processor is safe for concurrent use; batches share nothing but the analyzer.
type Processor struct {
	analyzer Analyzer
	archiver Archiver
	sink     analysis.OutcomeSink
	clock    application.Clock
	cfg      Config
	log      logger.Logger

	pending sync.WaitGroup
}

func NewProcessor(analyzer Analyzer, archiver Archiver, sink analysis.OutcomeSink, clock application.Clock, cfg Config, log logger.Logger) *Processor {
	if sink == nil {
		sink = analysis.NopSink{}
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	return &Processor{
		analyzer: analyzer,
		archiver: archiver,
		sink:     sink,
		clock:    clock,
		cfg:      cfg,
		log:      log.With(logger.String("component", "bulk")),
	}
}

// AnalyzeContent analyzes every item and never fails the batch for one item.
// Only malformed batches return an error, before any work starts.
func (p *Processor) AnalyzeContent(ctx context.Context, items []domain.ContentItem) (domain.AnalysisResult, error) {
	if err := p.validate(len(items)); err != nil {
		return domain.AnalysisResult{}, err
	}
	start := p.clock.Now()
	batchID := uuid.NewString()
	log := p.log.With(logger.String("batch_id", batchID), logger.Int("items", len(items)))
	log.Info("bulk content batch started")

	results := make([]domain.ItemResult, len(items))
	p.fanOut(ctx, len(items), func(ictx context.Context, i int) {
		results[i] = p.contentItem(ctx, ictx, itemID(items[i].ID, i), items[i])
	}, func(i int, err error) {
		results[i] = domain.ItemResult{
			ID:        itemID(items[i].ID, i),
			Metadata:  items[i].Metadata,
			Error:     errText(err),
			ErrorKind: domain.ErrorKindCancelled,
		}
	}, func(i int, r any) {
		results[i] = domain.ItemResult{
			ID:        itemID(items[i].ID, i),
			Metadata:  items[i].Metadata,
			Error:     errText(fmt.Errorf("panic: %v", r)),
			ErrorKind: domain.ErrorKindFailed,
		}
	})

	out := domain.AnalysisResult{Results: results}
	out.Counts = p.count(batchID, start, len(results), func(i int) (bool, string) {
		return results[i].Analysis != nil, results[i].ErrorKind
	})
	for _, r := range results {
		p.report(ctx, "bulk_content", batchID, r.ID, r.Analysis, r.Error, r.ErrorKind)
	}
	log.Info("bulk content batch finished",
		logger.Int("succeeded", out.ItemsSucceeded),
		logger.Int("failed", out.ItemsFailed),
		logger.Int("cancelled", out.ItemsCancelled),
		logger.Int64("duration_ms", out.ProcessingTimeMs))
	p.archive(ctx, "content", batchID, start, out)
	return out, nil
}

// AnalyzeURLs is AnalyzeContent for URL items. An item whose page could not
// be fetched or analyzed counts as failed.
func (p *Processor) AnalyzeURLs(ctx context.Context, items []domain.URLItem) (domain.URLAnalysisResult, error) {
	if err := p.validate(len(items)); err != nil {
		return domain.URLAnalysisResult{}, err
	}
	start := p.clock.Now()
	batchID := uuid.NewString()
	log := p.log.With(logger.String("batch_id", batchID), logger.Int("items", len(items)))
	log.Info("bulk url batch started")

	results := make([]domain.URLItemResult, len(items))
	p.fanOut(ctx, len(items), func(ictx context.Context, i int) {
		results[i] = p.urlItem(ctx, ictx, itemID(items[i].ID, i), items[i])
	}, func(i int, err error) {
		results[i] = domain.URLItemResult{
			ID:        itemID(items[i].ID, i),
			URL:       items[i].URL,
			Metadata:  items[i].Metadata,
			Error:     errText(err),
			ErrorKind: domain.ErrorKindCancelled,
		}
	}, func(i int, r any) {
		results[i] = domain.URLItemResult{
			ID:        itemID(items[i].ID, i),
			URL:       items[i].URL,
			Metadata:  items[i].Metadata,
			Error:     errText(fmt.Errorf("panic: %v", r)),
			ErrorKind: domain.ErrorKindFailed,
		}
	})

	out := domain.URLAnalysisResult{Results: results}
	out.Counts = p.count(batchID, start, len(results), func(i int) (bool, string) {
		return results[i].Analysis != nil, results[i].ErrorKind
	})
	for _, r := range results {
		var a *analysis.EnhancedAnalysisResult
		if r.Analysis != nil {
			a = r.Analysis.Analysis
		}
		p.report(ctx, "bulk_urls", batchID, r.ID, a, r.Error, r.ErrorKind)
	}
	log.Info("bulk url batch finished",
		logger.Int("succeeded", out.ItemsSucceeded),
		logger.Int("failed", out.ItemsFailed),
		logger.Int("cancelled", out.ItemsCancelled),
		logger.Int64("duration_ms", out.ProcessingTimeMs))
	p.archive(ctx, "urls", batchID, start, out)
	return out, nil
}

func (p *Processor) validate(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: batch has no items", analysis.ErrInvalidInput)
	}
	if p.cfg.MaxItems > 0 && n > p.cfg.MaxItems {
		return fmt.Errorf("%w: batch has %d items, limit is %d", analysis.ErrInvalidInput, n, p.cfg.MaxItems)
	}
	return nil
}

// fanOut runs work for every index under the concurrency ceiling. Indices not
// started before ctx ends go to cancelled; a panicking item goes to panicked.
func (p *Processor) fanOut(ctx context.Context, n int, work func(context.Context, int), cancelled func(int, error), panicked func(int, any)) {
	var g errgroup.Group
	g.SetLimit(p.cfg.MaxConcurrency)
	for i := 0; i < n; i++ {
		i := i
		if err := ctx.Err(); err != nil {
			cancelled(i, err)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				cancelled(i, err)
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("bulk item panicked", logger.Int("index", i), logger.Any("panic", r))
					panicked(i, r)
				}
			}()
			ictx, cancel := p.itemContext(ctx)
			defer cancel()
			work(ictx, i)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Processor) itemContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.ItemTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.ItemTimeout)
	}
	return context.WithCancel(ctx)
}

func (p *Processor) contentItem(batch, ctx context.Context, id string, item domain.ContentItem) domain.ItemResult {
	res := domain.ItemResult{ID: id, Metadata: item.Metadata}
	lang := item.Language
	if lang == "" {
		lang = language.Default
	}
	a, err := p.analyzer.AnalyzeComprehensively(ctx, item.Content, lang)
	if err != nil {
		res.Error = errText(err)
		res.ErrorKind = errorKind(batch, err)
		return res
	}
	res.Analysis = &a
	return res
}

func (p *Processor) urlItem(batch, ctx context.Context, id string, item domain.URLItem) domain.URLItemResult {
	res := domain.URLItemResult{ID: id, URL: item.URL, Metadata: item.Metadata}
	a, err := p.analyzer.AnalyzeURL(ctx, item.URL)
	if err != nil {
		res.Error = errText(err)
		res.ErrorKind = errorKind(batch, err)
		return res
	}
	if a.Error != "" || a.Analysis == nil {
		msg := a.Error
		if msg == "" {
			msg = "no analysis produced"
		}
		res.Error = errText(errors.New(msg))
		res.ErrorKind = domain.ErrorKindFailed
		if batch.Err() != nil {
			res.ErrorKind = domain.ErrorKindCancelled
		}
		return res
	}
	res.URL = a.URL
	res.Analysis = &a
	return res
}

// errorKind separates caller cancellation from an item's own failure. A
// per-item timeout is a failure.
func errorKind(batch context.Context, err error) string {
	ctxErr := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	switch {
	case ctxErr && batch.Err() != nil:
		return domain.ErrorKindCancelled
	case ctxErr:
		return domain.ErrorKindFailed
	default:
		return analysisapp.ErrorKind(err)
	}
}

func (p *Processor) count(batchID string, start time.Time, n int, at func(int) (bool, string)) domain.Counts {
	c := domain.Counts{BatchID: batchID, ItemsProcessed: n}
	for i := 0; i < n; i++ {
		ok, kind := at(i)
		if ok {
			c.ItemsSucceeded++
			continue
		}
		c.ItemsFailed++
		if kind == domain.ErrorKindCancelled {
			c.ItemsCancelled++
		}
	}
	c.ProcessingTimeMs = p.clock.Now().Sub(start).Milliseconds()
	return c
}

func (p *Processor) report(ctx context.Context, op, batchID, itemID string, a *analysis.EnhancedAnalysisResult, errMsg *string, kind string) {
	o := analysis.Outcome{
		Operation: op,
		BatchID:   batchID,
		ItemID:    itemID,
		Success:   a != nil,
		ErrorKind: kind,
		CreatedAt: p.clock.Now().UTC(),
	}
	if a != nil {
		o.Verdict = a.FactCheck.Verdict
		if lang, ok := a.AdditionalContext["language"].(string); ok {
			o.Language = lang
		}
	}
	if errMsg != nil {
		o.Message = *errMsg
	}
	p.sink.Record(ctx, o)
}

func (p *Processor) archive(ctx context.Context, kind, batchID string, at time.Time, doc any) {
	if p.archiver == nil {
		return
	}
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		defer cancel()
		if err := p.archiver.ArchiveBatch(actx, kind, batchID, at, doc); err != nil {
			p.log.Warn("archive batch failed", logger.String("batch_id", batchID), logger.Error(err))
		}
	}()
}

// Wait blocks until background archive uploads have finished.
func (p *Processor) Wait() { p.pending.Wait() }

func itemID(id string, i int) string {
	if id != "" {
		return id
	}
	return "item-" + strconv.Itoa(i)
}

func errText(err error) *string {
	s := "Analysis failed: " + err.Error()
	return &s
}
