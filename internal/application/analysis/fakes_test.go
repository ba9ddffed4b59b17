package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

var errBoom = errors.New("boom")

type fakeChecker struct {
	mu    sync.Mutex
	calls int
	fn    func(content, lang string) (domain.AnalysisResult, error)
}

func (f *fakeChecker) CheckFacts(_ context.Context, content, lang string) (domain.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(content, lang)
	}
	return domain.AnalysisResult{Verdict: domain.VerdictCredible, Explanation: "ok"}, nil
}

func (f *fakeChecker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCategorizer struct {
	err error
}

func (f *fakeCategorizer) Categorize(context.Context, string, string) (domain.ContentCategory, error) {
	if f.err != nil {
		return domain.ContentCategory{}, f.err
	}
	return domain.ContentCategory{PrimaryCategory: "HEALTH", Confidence: 0.9}, nil
}

func (f *fakeCategorizer) ExtractTopics(context.Context, string, string) ([]domain.ExtractedTopic, error) {
	return []domain.ExtractedTopic{{Topic: "vaccines", Relevance: 0.8}}, nil
}

type fakeNLP struct {
	mu     sync.Mutex
	calls  int
	scores map[string]float64
}

func (f *fakeNLP) ExtractEntities(context.Context, string) ([]domain.Entity, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return []domain.Entity{{Name: "WHO", Type: "ORGANIZATION", Salience: 0.7}}, nil
}

func (f *fakeNLP) AnalyzeSentiment(_ context.Context, text string) (domain.Sentiment, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return domain.Sentiment{Score: f.scores[text], Magnitude: 0.8, Language: "en"}, nil
}

func (f *fakeNLP) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeMisinfo struct{}

func (fakeMisinfo) DetectMisinformation(context.Context, string, string) (domain.MisinformationAnalysis, error) {
	return domain.MisinformationAnalysis{
		IsLikelyMisinformation: true,
		ConfidenceScore:        0.7,
		RiskLevel:              "HIGH",
		Patterns:               []string{"false urgency"},
		Techniques:             []string{"pressure tactics"},
	}, nil
}

type fakeTranslator struct {
	detected string
	fail     map[string]bool
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	if f.fail[target] {
		return "", errBoom
	}
	return "[" + target + "] " + text, nil
}

func (f *fakeTranslator) DetectLanguage(context.Context, string) (string, error) {
	if f.detected == "" {
		return "", errBoom
	}
	return f.detected, nil
}

type fakeVision struct {
	image domain.ImageAnalysis
	err   error
}

func (f *fakeVision) AnalyzeImage(context.Context, []byte) (domain.ImageAnalysis, error) {
	return f.image, f.err
}

func (f *fakeVision) DetectManipulation(context.Context, []byte) (domain.ManipulationAnalysis, error) {
	return domain.ManipulationAnalysis{Likelihood: "HIGH"}, nil
}

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	result web.ContentResult
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) web.ContentResult {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	r := f.result
	r.URL = url
	return r
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []*domain.Record
	err   error
}

func (f *fakeRepo) Save(_ context.Context, r *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRepo) FindByContentHash(_ context.Context, hash string, _ int) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Record
	for _, r := range f.saved {
		if r.ContentHash == hash {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindRecent(context.Context, domain.RecordFilter) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

func (f *fakeRepo) Saved() []*domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Record(nil), f.saved...)
}

type recordingSink struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
}

func (s *recordingSink) Record(_ context.Context, o domain.Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, o)
	s.mu.Unlock()
}

func (s *recordingSink) Outcomes() []domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Outcome(nil), s.outcomes...)
}

type harness struct {
	checker *fakeChecker
	nlp     *fakeNLP
	repo    *fakeRepo
	fetcher *fakeFetcher
	sink    *recordingSink
	facts   *Service
	orch    *Orchestrator
}

func newHarness(p Providers) *harness {
	h := &harness{
		checker: &fakeChecker{},
		nlp:     &fakeNLP{scores: map[string]float64{}},
		repo:    &fakeRepo{},
		fetcher: &fakeFetcher{},
		sink:    &recordingSink{},
	}
	if p.Categorizer == nil {
		p.Categorizer = &fakeCategorizer{}
	}
	if p.NLP == nil {
		p.NLP = h.nlp
	}
	if p.Fetcher == nil {
		p.Fetcher = h.fetcher
	}
	clock := application.SystemClock{}
	log := logger.NewNop()
	h.facts = NewService(h.checker, h.repo, cache.NewMemory[domain.AnalysisResult]("facts", 0, time.Hour), time.Hour, clock, log)
	h.orch = NewOrchestrator(h.facts, p, Caches{
		Comprehensive:  cache.NewMemory[domain.EnhancedAnalysisResult]("comprehensive", 0, time.Hour),
		Misinformation: cache.NewMemory[domain.EnhancedAnalysisResult]("misinformation", 0, time.Hour),
		Translation:    cache.NewMemory[string]("translations", 0, time.Hour),
		URL:            cache.NewMemory[web.URLAnalysisResult]("url", 0, time.Hour),
	}, Config{
		NLPLanguages:      []string{"en"},
		ReliableThreshold: 0.8,
		VerifyThreshold:   0.6,
		DefaultTTL:        time.Minute,
		TranslationTTL:    time.Hour,
	}, h.sink, clock, log)
	return h
}
