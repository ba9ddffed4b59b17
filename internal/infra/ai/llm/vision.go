package llm

import (
	"context"
	"strings"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/infra/ai/prompt"
)

func (s *Service) AnalyzeImage(ctx context.Context, image []byte) (analysis.ImageAnalysis, error) {
	var out analysis.ImageAnalysis
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.ImageSystem(),
		Prompt:      "Analyze this image.",
		Image:       image,
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return analysis.ImageAnalysis{}, err
	}
	out.RiskLevel = strings.ToUpper(strings.TrimSpace(out.RiskLevel))
	out.ExtractedText = strings.TrimSpace(out.ExtractedText)
	return out, nil
}

func (s *Service) DetectManipulation(ctx context.Context, image []byte) (analysis.ManipulationAnalysis, error) {
	var out analysis.ManipulationAnalysis
	err := s.ask(ctx, ai.GenerateRequest{
		System:      prompt.ManipulationSystem(),
		Prompt:      "Assess this image for manipulation.",
		Image:       image,
		Temperature: analysisTemperature,
	}, &out)
	if err != nil {
		return analysis.ManipulationAnalysis{}, err
	}
	out.Likelihood = strings.ToUpper(strings.TrimSpace(out.Likelihood))
	return out, nil
}
