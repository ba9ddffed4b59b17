package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/satyacheck/internal/application/language"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

// AnalyzeImage runs vision analysis and manipulation detection side by side
// and fact-checks any text found in the image. Only the vision call is fatal.
func (o *Orchestrator) AnalyzeImage(ctx context.Context, image []byte, lang string) (domain.ImageAnalysisResult, error) {
	if len(image) == 0 {
		return domain.ImageAnalysisResult{}, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if o.p.Vision == nil {
		return domain.ImageAnalysisResult{}, domain.ErrUnsupported
	}
	lang = language.Normalize(lang)
	start := o.clock.Now()

	var (
		img   domain.ImageAnalysis
		text  *domain.AnalysisResult
		manip *domain.ManipulationAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := o.p.Vision.AnalyzeImage(gctx, image)
		if err != nil {
			return fmt.Errorf("image analysis: %w", err)
		}
		img = res
		if strings.TrimSpace(res.ExtractedText) == "" {
			return nil
		}
		check, err := o.facts.AnalyzeText(gctx, domain.AnalysisRequest{Content: res.ExtractedText, ContentType: domain.ContentImage, Language: lang})
		if err != nil {
			o.log.Warn("fact check of image text degraded", logger.Error(err))
			return nil
		}
		text = &check
		return nil
	})
	g.Go(func() error {
		m, err := o.p.Vision.DetectManipulation(gctx, image)
		if err != nil {
			if gctx.Err() == nil {
				o.log.Warn("manipulation detection degraded", logger.Error(err))
			}
			return nil
		}
		manip = &m
		return nil
	})
	if err := g.Wait(); err != nil {
		o.report(ctx, "image", lang, "", err, start)
		return domain.ImageAnalysisResult{}, err
	}

	risk := CombinedRisk(img, text, manip)
	res := domain.ImageAnalysisResult{
		Image:           img,
		TextAnalysis:    text,
		Manipulation:    manip,
		CombinedRisk:    risk,
		Recommendations: imageRecommendations(risk, text, manip),
	}
	var verdict domain.Verdict
	if text != nil {
		verdict = text.Verdict
	}
	o.report(ctx, "image", lang, verdict, nil, start)
	return res, nil
}

// CombinedRisk scores the image and manipulation signals 1..3, the text
// signal 0..3 (0 when no text was extracted), and buckets the sum.
func CombinedRisk(img domain.ImageAnalysis, text *domain.AnalysisResult, manip *domain.ManipulationAnalysis) string {
	score := 1
	switch img.RiskLevel {
	case "HIGH", "VERY_HIGH":
		score = 3
	case "MEDIUM":
		score = 2
	}

	// images without text add nothing for the text signal
	switch {
	case strings.TrimSpace(img.ExtractedText) == "":
	case text == nil:
		score++
	case text.Verdict == domain.VerdictHighMisinformationRisk, text.Verdict == domain.VerdictScamAlert:
		score += 3
	case text.Verdict == domain.VerdictPotentiallyMisleading:
		score += 2
	default:
		score++
	}

	switch {
	case manip == nil:
		score++
	case manip.Likelihood == "HIGH":
		score += 3
	case manip.Likelihood == "MEDIUM":
		score += 2
	default:
		score++
	}

	switch {
	case score >= 7:
		return "VERY_HIGH"
	case score >= 5:
		return "HIGH"
	case score >= 3:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func imageRecommendations(risk string, text *domain.AnalysisResult, manip *domain.ManipulationAnalysis) []string {
	var recs []string
	switch risk {
	case "VERY_HIGH", "HIGH":
		recs = append(recs, "Do not share this image without independent verification")
	case "MEDIUM":
		recs = append(recs, "Cross-check the image with a reverse image search")
	default:
		recs = append(recs, "No significant risk indicators found")
	}
	if text != nil && text.Verdict != domain.VerdictCredible {
		recs = append(recs, fmt.Sprintf("Text in the image was classified as %s", text.Verdict))
	}
	if manip != nil && manip.Likelihood == "HIGH" {
		recs = append(recs, "Image shows signs of digital manipulation")
	}
	return recs
}
