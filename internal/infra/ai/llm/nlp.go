package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/bryanwahyu/satyacheck/internal/application/language"
	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/infra/ai/prompt"
)

func (s *Service) ExtractEntities(ctx context.Context, text string) ([]analysis.Entity, error) {
	var out struct {
		Entities []analysis.Entity `json:"entities"`
	}
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.EntitiesSystem(),
		Prompt:      prompt.Clip(text),
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return nil, err
	}
	entities := make([]analysis.Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
		e.Salience = clamp(e.Salience, 0, 1)
		entities = append(entities, e)
	}
	return entities, nil
}

func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (analysis.Sentiment, error) {
	var out analysis.Sentiment
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.SentimentSystem(),
		Prompt:      prompt.Clip(text),
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return analysis.Sentiment{}, err
	}
	out.Score = clamp(out.Score, -1, 1)
	if out.Magnitude < 0 {
		out.Magnitude = 0
	}
	out.Language = language.Normalize(out.Language)
	return out, nil
}

func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.TranslateSystem(),
		Prompt:      prompt.TranslateUser(text, sourceLang, targetLang),
		Temperature: translateTemperature,
	}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", errors.New("empty translation")
	}
	return out.TranslatedText, nil
}

func (s *Service) DetectLanguage(ctx context.Context, text string) (string, error) {
	var out struct {
		DetectedLanguage string `json:"detectedLanguage"`
	}
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.DetectLanguageSystem(),
		Prompt:      prompt.Clip(text),
		Temperature: translateTemperature,
	}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.DetectedLanguage) == "" {
		return "", errors.New("provider returned no language")
	}
	return language.Normalize(out.DetectedLanguage), nil
}
