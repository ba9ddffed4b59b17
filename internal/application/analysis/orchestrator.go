package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/application/language"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const (
	TypeComprehensive  = "COMPREHENSIVE"
	TypeMisinformation = "MISINFORMATION_FOCUSED"
)

var errProviderMissing = errors.New("provider not configured")

// Providers are the enrichment ports. Any of them may be nil; the matching
// stage then degrades.
type Providers struct {
	Categorizer    domain.Categorizer
	Misinformation domain.MisinformationDetector
	NLP            domain.NLPProvider
	Translator     domain.Translator
	Vision         domain.VisionProvider
	Fetcher        web.Fetcher
}

// Caches groups the per-stage result caches. Nil members disable caching.
type Caches struct {
	Comprehensive  cache.Cache[domain.EnhancedAnalysisResult]
	Misinformation cache.Cache[domain.EnhancedAnalysisResult]
	Translation    cache.Cache[string]
	URL            cache.Cache[web.URLAnalysisResult]
}

type Config struct {
	// NLPLanguages gates entity and sentiment enrichment.
	NLPLanguages      []string
	ReliableThreshold float64
	VerifyThreshold   float64
	DefaultTTL        time.Duration
	TranslationTTL    time.Duration
}

// Orchestrator composes the fact-check with every enrichment into one result.
type Orchestrator struct {
	facts  *Service
	p      Providers
	caches Caches
	cfg    Config
	sink   domain.OutcomeSink
	clock  application.Clock
	log    logger.Logger
}

func NewOrchestrator(facts *Service, p Providers, caches Caches, cfg Config, sink domain.OutcomeSink, clock application.Clock, log logger.Logger) *Orchestrator {
	if sink == nil {
		sink = domain.NopSink{}
	}
	return &Orchestrator{
		facts:  facts,
		p:      p,
		caches: caches,
		cfg:    cfg,
		sink:   sink,
		clock:  clock,
		log:    log.With(logger.String("component", "orchestrator")),
	}
}

// degradation collects the names of enrichment stages that failed.
type degradation struct {
	mu     sync.Mutex
	stages []string
}

func (d *degradation) add(stage string) {
	d.mu.Lock()
	d.stages = append(d.stages, stage)
	d.mu.Unlock()
}

func (d *degradation) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := slices.Clone(d.stages)
	sort.Strings(out)
	return out
}

// enrich runs one optional stage on g. Its failure is recorded, never returned.
func (o *Orchestrator) enrich(ctx context.Context, g *errgroup.Group, d *degradation, stage string, fn func(context.Context) error) {
	g.Go(func() error {
		if err := fn(ctx); err != nil {
			d.add(stage)
			if ctx.Err() == nil {
				o.log.Warn("enrichment degraded", logger.String("stage", stage), logger.Error(err))
			}
		}
		return nil
	})
}

// baseCheck runs the mandatory fact-check on g. Its failure cancels siblings.
func (o *Orchestrator) baseCheck(ctx context.Context, g *errgroup.Group, content, lang string, out *domain.AnalysisResult) {
	g.Go(func() error {
		res, err := o.facts.AnalyzeText(ctx, domain.AnalysisRequest{Content: content, ContentType: domain.ContentText, Language: lang})
		if err != nil {
			return fmt.Errorf("fact check: %w", err)
		}
		*out = res
		return nil
	})
}

func (o *Orchestrator) nlpEnabled(lang string) bool {
	return slices.Contains(o.cfg.NLPLanguages, lang)
}

func complete(r domain.EnhancedAnalysisResult) bool {
	_, degraded := r.AdditionalContext["degradedStages"]
	return !degraded
}

// AnalyzeComprehensively merges fact-check, category, topics and, for NLP
// languages only, entities and sentiment. Only the fact-check is fatal.
func (o *Orchestrator) AnalyzeComprehensively(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return domain.EnhancedAnalysisResult{}, fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	lang = language.Normalize(lang)
	start := o.clock.Now()

	key := cache.Key("comprehensiveAnalysis", content, lang)
	res, err := cache.GetOrComputeWhen(ctx, o.caches.Comprehensive, key, o.cfg.DefaultTTL, func(ctx context.Context) (domain.EnhancedAnalysisResult, error) {
		return o.comprehensive(ctx, content, lang)
	}, complete)

	o.report(ctx, "comprehensive", lang, res.FactCheck.Verdict, err, start)
	return res, err
}

func (o *Orchestrator) comprehensive(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error) {
	var (
		base      domain.AnalysisResult
		category  *domain.ContentCategory
		topics    []domain.ExtractedTopic
		entities  []domain.Entity
		sentiment *domain.Sentiment
		d         degradation
	)
	g, gctx := errgroup.WithContext(ctx)
	o.baseCheck(gctx, g, content, lang, &base)

	o.enrich(gctx, g, &d, "category", func(ctx context.Context) error {
		if o.p.Categorizer == nil {
			return errProviderMissing
		}
		c, err := o.p.Categorizer.Categorize(ctx, content, lang)
		if err != nil {
			return err
		}
		category = &c
		return nil
	})
	o.enrich(gctx, g, &d, "topics", func(ctx context.Context) error {
		if o.p.Categorizer == nil {
			return errProviderMissing
		}
		t, err := o.p.Categorizer.ExtractTopics(ctx, content, lang)
		if err != nil {
			return err
		}
		topics = t
		return nil
	})

	nlp := o.nlpEnabled(lang)
	if nlp {
		o.enrich(gctx, g, &d, "entities", func(ctx context.Context) error {
			if o.p.NLP == nil {
				return errProviderMissing
			}
			e, err := o.p.NLP.ExtractEntities(ctx, content)
			if err != nil {
				return err
			}
			entities = e
			return nil
		})
		o.enrich(gctx, g, &d, "sentiment", func(ctx context.Context) error {
			if o.p.NLP == nil {
				return errProviderMissing
			}
			s, err := o.p.NLP.AnalyzeSentiment(ctx, content)
			if err != nil {
				return err
			}
			sentiment = &s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.EnhancedAnalysisResult{}, err
	}

	if topics == nil {
		topics = []domain.ExtractedTopic{}
	}
	if entities == nil {
		entities = []domain.Entity{}
	}
	// counts are float64 so a copy decoded from the shared cache compares equal
	extra := map[string]any{
		"analysisType": TypeComprehensive,
		"language":     lang,
		"nlpSupported": nlp,
		"entityCount":  float64(len(entities)),
		"topicCount":   float64(len(topics)),
	}
	if category != nil {
		extra["categoryConfidence"] = category.Confidence
	}
	if sentiment != nil {
		extra["sentimentMagnitude"] = sentiment.Magnitude
		extra["sentimentLanguage"] = sentiment.Language
		extra["overallSentiment"] = sentiment.Label()
		extra["sentimentIntensity"] = sentiment.Intensity()
	}
	if stages := d.list(); len(stages) > 0 {
		extra["degradedStages"] = stages
	}

	return domain.EnhancedAnalysisResult{
		FactCheck:         base,
		Category:          category,
		Topics:            topics,
		Entities:          entities,
		Sentiment:         sentiment,
		AdditionalContext: extra,
	}, nil
}

// AnalyzeMisinformationPatterns shares the fact-check and categorization with
// the comprehensive mode and surfaces the pattern detector instead of NLP.
func (o *Orchestrator) AnalyzeMisinformationPatterns(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return domain.EnhancedAnalysisResult{}, fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	lang = language.Normalize(lang)
	start := o.clock.Now()

	key := cache.Key("misinformationAnalysis", content, lang)
	res, err := cache.GetOrComputeWhen(ctx, o.caches.Misinformation, key, o.cfg.DefaultTTL, func(ctx context.Context) (domain.EnhancedAnalysisResult, error) {
		return o.misinformation(ctx, content, lang)
	}, complete)

	o.report(ctx, "misinformation", lang, res.FactCheck.Verdict, err, start)
	return res, err
}

func (o *Orchestrator) misinformation(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error) {
	var (
		base     domain.AnalysisResult
		category *domain.ContentCategory
		mis      *domain.MisinformationAnalysis
		d        degradation
	)
	g, gctx := errgroup.WithContext(ctx)
	o.baseCheck(gctx, g, content, lang, &base)

	o.enrich(gctx, g, &d, "category", func(ctx context.Context) error {
		if o.p.Categorizer == nil {
			return errProviderMissing
		}
		c, err := o.p.Categorizer.Categorize(ctx, content, lang)
		if err != nil {
			return err
		}
		category = &c
		return nil
	})
	o.enrich(gctx, g, &d, "misinformation", func(ctx context.Context) error {
		if o.p.Misinformation == nil {
			return errProviderMissing
		}
		m, err := o.p.Misinformation.DetectMisinformation(ctx, content, lang)
		if err != nil {
			return err
		}
		mis = &m
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.EnhancedAnalysisResult{}, err
	}

	extra := map[string]any{
		"analysisType":       TypeMisinformation,
		"language":           lang,
		"misinformationRisk": "UNKNOWN",
	}
	res := domain.EnhancedAnalysisResult{
		FactCheck:         base,
		Category:          category,
		Topics:            []domain.ExtractedTopic{},
		Entities:          []domain.Entity{},
		AdditionalContext: extra,
	}
	if category != nil {
		extra["categoryConfidence"] = category.Confidence
	}
	if mis != nil {
		if mis.RiskLevel != "" {
			extra["misinformationRisk"] = mis.RiskLevel
		}
		extra["techniquesIdentified"] = float64(len(mis.Techniques))
		extra["isLikelyMisinformation"] = mis.IsLikelyMisinformation
		extra["confidenceScore"] = mis.ConfidenceScore
		if mis.Explanation != "" {
			extra["misinformationExplanation"] = mis.Explanation
		}
		res.MisinformationPatterns = mis.Patterns
		res.MisinformationTechniques = mis.Techniques
	}
	if stages := d.list(); len(stages) > 0 {
		extra["degradedStages"] = stages
	}
	return res, nil
}

func (o *Orchestrator) report(ctx context.Context, op, lang string, verdict domain.Verdict, err error, start time.Time) {
	out := domain.Outcome{
		Operation: op,
		Language:  lang,
		Verdict:   verdict,
		Success:   err == nil,
		Duration:  o.clock.Now().Sub(start),
		CreatedAt: o.clock.Now().UTC(),
	}
	if err != nil {
		out.ErrorKind = ErrorKind(err)
		out.Message = err.Error()
		out.Verdict = ""
	}
	o.sink.Record(ctx, out)
}

// ErrorKind classifies err for outcome reporting.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, web.ErrInvalidURL):
		return bulk.ErrorKindInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return bulk.ErrorKindCancelled
	default:
		return bulk.ErrorKindFailed
	}
}
