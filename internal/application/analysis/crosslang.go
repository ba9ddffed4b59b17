package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/satyacheck/internal/application/language"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

// AnalyzeCrossLanguage translates content into every target language, runs
// sentiment and entities on each rendition and scores how consistent the
// sentiment stays. Translation failures keep the original text for that target.
func (o *Orchestrator) AnalyzeCrossLanguage(ctx context.Context, content string, targets []string) (domain.CrossLanguageResult, error) {
	if strings.TrimSpace(content) == "" {
		return domain.CrossLanguageResult{}, fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	targets = normalizeTargets(targets)
	start := o.clock.Now()

	detected := o.detectLanguage(ctx, content)

	var (
		mu       sync.Mutex
		analyses = make(map[string]domain.LanguageAnalysis, len(targets))
	)
	var g errgroup.Group
	for _, target := range targets {
		target := target
		g.Go(func() error {
			la := o.analyzeIn(ctx, content, detected, target)
			mu.Lock()
			analyses[target] = la
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	scores := make([]float64, 0, len(targets))
	for _, t := range targets {
		if s := analyses[t].Sentiment; s != nil {
			scores = append(scores, s.Score)
		}
	}
	consistency := Consistency(scores)

	res := domain.CrossLanguageResult{
		OriginalContent:  content,
		DetectedLanguage: detected,
		TargetLanguages:  targets,
		Analyses:         analyses,
		Consistency:      consistency,
		Recommendations:  o.recommendations(consistency, targets, analyses),
	}
	o.report(ctx, "cross_language", detected, "", nil, start)
	return res, nil
}

func normalizeTargets(targets []string) []string {
	out := make([]string, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if strings.TrimSpace(t) == "" {
			continue
		}
		code := language.Normalize(t)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	if len(out) == 0 {
		out = append(out, language.Default)
	}
	return out
}

// detectLanguage asks the translator and falls back to the local heuristics.
func (o *Orchestrator) detectLanguage(ctx context.Context, content string) string {
	if o.p.Translator != nil {
		code, err := o.p.Translator.DetectLanguage(ctx, content)
		if err == nil && code != "" {
			return code
		}
		o.log.Warn("provider language detection failed, using heuristics", logger.Error(err))
	}
	return language.Detect(content).Code
}

func (o *Orchestrator) analyzeIn(ctx context.Context, content, source, target string) domain.LanguageAnalysis {
	la := domain.LanguageAnalysis{Language: target, Text: content, Entities: []domain.Entity{}}

	if target != source {
		text, err := o.translate(ctx, content, source, target)
		if err != nil {
			la.Error = "translation failed: " + err.Error()
		} else {
			la.Text = text
			la.Translated = true
		}
	}

	if o.p.NLP == nil {
		return la
	}
	if s, err := o.p.NLP.AnalyzeSentiment(ctx, la.Text); err == nil {
		la.Sentiment = &s
	} else {
		o.log.Warn("sentiment failed", logger.String("language", target), logger.Error(err))
	}
	if e, err := o.p.NLP.ExtractEntities(ctx, la.Text); err == nil {
		la.Entities = e
	} else {
		o.log.Warn("entity extraction failed", logger.String("language", target), logger.Error(err))
	}
	return la
}

func (o *Orchestrator) translate(ctx context.Context, text, source, target string) (string, error) {
	if o.p.Translator == nil {
		return "", errProviderMissing
	}
	key := cache.Key("translations", text, source, target)
	return cache.GetOrCompute(ctx, o.caches.Translation, key, o.cfg.TranslationTTL, func(ctx context.Context) (string, error) {
		return o.p.Translator.Translate(ctx, text, source, target)
	})
}

// Consistency is max(0, 1 - population variance of scores). Fewer than two
// scores are trivially consistent.
func Consistency(scores []float64) float64 {
	if len(scores) < 2 {
		return 1
	}
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))
	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))
	return max(0, 1-variance)
}

func (o *Orchestrator) recommendations(consistency float64, targets []string, analyses map[string]domain.LanguageAnalysis) []string {
	var recs []string
	switch {
	case consistency > o.cfg.ReliableThreshold:
		recs = append(recs, "Analysis is reliable across languages")
	case consistency > o.cfg.VerifyThreshold:
		recs = append(recs, "Verify claims in the original language")
	default:
		recs = append(recs, "Recommend human translation review")
	}
	for _, t := range targets {
		if analyses[t].Error != "" {
			recs = append(recs, fmt.Sprintf("Translation to %s failed; its analysis used the original text", t))
		}
	}
	return recs
}
