package analysis

import (
	"time"
)

// ContentType enumerates what an AnalysisRequest carries.
type ContentType string

const (
	ContentText  ContentType = "TEXT"
	ContentImage ContentType = "IMAGE"
	ContentAudio ContentType = "AUDIO"
	ContentURL   ContentType = "URL"
)

// AnalysisRequest is built per call and not mutated afterwards.
type AnalysisRequest struct {
	Content     string      `json:"content"`
	ContentType ContentType `json:"contentType"`
	Language    string      `json:"language"`
}

// AnalysisResult is the minimal fact-check output.
type AnalysisResult struct {
	Verdict     Verdict `json:"verdict"`
	Explanation string  `json:"explanation"`
}

type ContentCategory struct {
	PrimaryCategory string   `json:"primaryCategory"`
	SubCategories   []string `json:"subCategories"`
	Confidence      float64  `json:"confidence"`
	Tags            []string `json:"tags"`
}

type ExtractedTopic struct {
	Topic     string   `json:"topic"`
	Relevance float64  `json:"relevance"`
	Subtopics []string `json:"subtopics"`
	Keywords  []string `json:"keywords"`
}

type Entity struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Salience float64 `json:"salience"`
}

type Sentiment struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
	Language  string  `json:"language"`
}

// Label buckets the score: POSITIVE at or above 0.25, NEGATIVE at or below -0.25.
func (s Sentiment) Label() string {
	switch {
	case s.Score >= 0.25:
		return "POSITIVE"
	case s.Score <= -0.25:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// Intensity buckets the magnitude.
func (s Sentiment) Intensity() string {
	switch {
	case s.Magnitude < 0.5:
		return "LOW"
	case s.Magnitude < 1.5:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}

// EnhancedAnalysisResult merges the fact-check with every enrichment that
// succeeded. Absent optional fields mean the stage degraded or was skipped.
type EnhancedAnalysisResult struct {
	FactCheck                AnalysisResult   `json:"factCheckResult"`
	Category                 *ContentCategory `json:"category,omitempty"`
	Topics                   []ExtractedTopic `json:"topics"`
	Entities                 []Entity         `json:"entities"`
	Sentiment                *Sentiment       `json:"sentiment,omitempty"`
	MisinformationPatterns   []string         `json:"misinformationPatterns,omitempty"`
	MisinformationTechniques []string         `json:"misinformationTechniques,omitempty"`
	AdditionalContext        map[string]any   `json:"additionalContext"`
}

// MisinformationAnalysis is the output of the deeper pattern detector.
type MisinformationAnalysis struct {
	IsLikelyMisinformation bool     `json:"isLikelyMisinformation"`
	ConfidenceScore        float64  `json:"confidenceScore"`
	RiskLevel              string   `json:"riskLevel"`
	Patterns               []string `json:"patterns"`
	Techniques             []string `json:"techniques"`
	Explanation            string   `json:"explanation"`
}

// LanguageAnalysis is the per-target slice of a cross-language run.
type LanguageAnalysis struct {
	Language   string     `json:"language"`
	Text       string     `json:"text"`
	Translated bool       `json:"translated"`
	Sentiment  *Sentiment `json:"sentiment,omitempty"`
	Entities   []Entity   `json:"entities"`
	Error      string     `json:"error,omitempty"`
}

type CrossLanguageResult struct {
	OriginalContent  string                      `json:"originalContent"`
	DetectedLanguage string                      `json:"detectedLanguage"`
	TargetLanguages  []string                    `json:"targetLanguages"`
	Analyses         map[string]LanguageAnalysis `json:"analyses"`
	Consistency      float64                     `json:"crossLanguageConsistency"`
	Recommendations  []string                    `json:"recommendations"`
}

// ImageAnalysis is what the vision provider reports for one image.
type ImageAnalysis struct {
	ExtractedText string   `json:"extractedText"`
	Labels        []string `json:"labels"`
	RiskLevel     string   `json:"riskLevel"`
	Indicators    []string `json:"indicators"`
}

type ManipulationAnalysis struct {
	Likelihood string   `json:"manipulationLikelihood"`
	Signals    []string `json:"signals"`
}

type ImageAnalysisResult struct {
	Image           ImageAnalysis         `json:"imageAnalysis"`
	TextAnalysis    *AnalysisResult       `json:"textAnalysis,omitempty"`
	Manipulation    *ManipulationAnalysis `json:"manipulationAnalysis,omitempty"`
	CombinedRisk    string                `json:"combinedRiskAssessment"`
	Recommendations []string              `json:"recommendations"`
}

// RecordID identifier type
type RecordID string

// Record is a persisted fact-check, kept for auditing and retrieval.
type Record struct {
	ID           RecordID    `json:"id"`
	ContentHash  string      `json:"contentHash"`
	Content      string      `json:"content"`
	ContentType  ContentType `json:"contentType"`
	Language     string      `json:"language"`
	Verdict      Verdict     `json:"verdict"`
	Explanation  string      `json:"explanation"`
	AnalysisType string      `json:"analysisType"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// RecordFilter narrows FindRecent. Zero values mean no constraint.
type RecordFilter struct {
	Verdict  Verdict
	Language string
	Since    time.Time
	Limit    int
}
