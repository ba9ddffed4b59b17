// Package llm implements the analysis ports on top of a generative model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/infra/ai/prompt"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const (
	factCheckTemperature = 0.2
	analysisTemperature  = 0.3
	translateTemperature = 0.1
	maxTopics            = 3
)

// Service is one model-backed implementation of every analysis port.
type Service struct {
	gen ai.Generator
	log logger.Logger
}

var (
	_ analysis.FactChecker            = (*Service)(nil)
	_ analysis.Categorizer            = (*Service)(nil)
	_ analysis.MisinformationDetector = (*Service)(nil)
	_ analysis.NLPProvider            = (*Service)(nil)
	_ analysis.Translator             = (*Service)(nil)
	_ analysis.VisionProvider         = (*Service)(nil)
)

func NewService(gen ai.Generator, log logger.Logger) *Service {
	return &Service{gen: gen, log: log.With(logger.String("component", "llm"))}
}

// ask runs one JSON round-trip and decodes the answer into out.
func (s *Service) ask(ctx context.Context, req ai.GenerateRequest, out any) error {
	req.JSON = true
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := prompt.Decode(text, out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// CheckFacts asks for a verdict. Output that is not JSON is still classified
// from its raw text, so only provider errors fail the call.
func (s *Service) CheckFacts(ctx context.Context, content, language string) (analysis.AnalysisResult, error) {
	text, err := s.gen.Generate(ctx, ai.GenerateRequest{
		System:      prompt.FactCheckSystem(),
		Prompt:      prompt.FactCheckUser(content, language),
		Temperature: factCheckTemperature,
		JSON:        true,
	})
	if err != nil {
		return analysis.AnalysisResult{}, err
	}

	var out struct {
		Verdict     string `json:"verdict"`
		Explanation string `json:"explanation"`
	}
	if err := prompt.Decode(text, &out); err != nil || strings.TrimSpace(out.Verdict) == "" {
		s.log.Debug("unstructured fact-check output, classifying raw text")
		return analysis.AnalysisResult{
			Verdict:     analysis.ParseVerdict(text),
			Explanation: strings.TrimSpace(text),
		}, nil
	}
	return analysis.AnalysisResult{
		Verdict:     analysis.ParseVerdict(out.Verdict),
		Explanation: strings.TrimSpace(out.Explanation),
	}, nil
}

func (s *Service) Categorize(ctx context.Context, content, language string) (analysis.ContentCategory, error) {
	var out analysis.ContentCategory
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.CategorizeSystem(),
		Prompt:      prompt.Content(content, language),
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return analysis.ContentCategory{}, err
	}
	out.PrimaryCategory = strings.ToUpper(strings.TrimSpace(out.PrimaryCategory))
	if out.PrimaryCategory == "" {
		out.PrimaryCategory = "OTHER"
	}
	out.Confidence = clamp(out.Confidence, 0, 1)
	out.SubCategories = dedupe(out.SubCategories, false)
	out.Tags = dedupe(out.Tags, true)
	return out, nil
}

func (s *Service) ExtractTopics(ctx context.Context, content, language string) ([]analysis.ExtractedTopic, error) {
	var out struct {
		Topics []analysis.ExtractedTopic `json:"topics"`
	}
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.TopicsSystem(),
		Prompt:      prompt.Content(content, language),
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return nil, err
	}
	topics := make([]analysis.ExtractedTopic, 0, len(out.Topics))
	for _, t := range out.Topics {
		if strings.TrimSpace(t.Topic) == "" {
			continue
		}
		t.Relevance = clamp(t.Relevance, 0, 1)
		topics = append(topics, t)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics, nil
}

// DetectMisinformation merges the model's findings with local signal
// heuristics. When the model is unavailable but local signals fired, a
// heuristic-only analysis is returned instead of the error.
func (s *Service) DetectMisinformation(ctx context.Context, content, language string) (analysis.MisinformationAnalysis, error) {
	patterns, techniques := DetectSignals(content)

	var out analysis.MisinformationAnalysis
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.MisinformationSystem(),
		Prompt:      prompt.Content(content, language),
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		if len(patterns) == 0 {
			return analysis.MisinformationAnalysis{}, err
		}
		s.log.Warn("misinformation model unavailable, using local signals", logger.Error(err))
		return heuristicOnly(patterns, techniques), nil
	}

	out.RiskLevel = strings.ToUpper(strings.TrimSpace(out.RiskLevel))
	out.ConfidenceScore = clamp(out.ConfidenceScore, 0, 1)
	out.Patterns = dedupe(append(out.Patterns, patterns...), false)
	out.Techniques = dedupe(append(out.Techniques, techniques...), false)
	return out, nil
}

func heuristicOnly(patterns, techniques []string) analysis.MisinformationAnalysis {
	risk := "MEDIUM"
	if len(patterns) >= 3 {
		risk = "HIGH"
	}
	return analysis.MisinformationAnalysis{
		IsLikelyMisinformation: len(patterns) >= 2,
		ConfidenceScore:        clamp(0.2*float64(len(patterns)), 0, 0.8),
		RiskLevel:              risk,
		Patterns:               patterns,
		Techniques:             techniques,
		Explanation:            "Heuristic signals only; model analysis unavailable.",
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dedupe trims, drops empties and duplicates, keeping first-seen order.
func dedupe(in []string, fold bool) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := s
		if fold {
			k = strings.ToLower(s)
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
