package analysis

import "context"

// FactChecker produces the mandatory verdict and explanation.
type FactChecker interface {
	CheckFacts(ctx context.Context, content, language string) (AnalysisResult, error)
}

type Categorizer interface {
	Categorize(ctx context.Context, content, language string) (ContentCategory, error)
	ExtractTopics(ctx context.Context, content, language string) ([]ExtractedTopic, error)
}

type MisinformationDetector interface {
	DetectMisinformation(ctx context.Context, content, language string) (MisinformationAnalysis, error)
}

// NLPProvider is validated for English only in this deployment.
type NLPProvider interface {
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	DetectLanguage(ctx context.Context, text string) (string, error)
}

type VisionProvider interface {
	AnalyzeImage(ctx context.Context, image []byte) (ImageAnalysis, error)
	DetectManipulation(ctx context.Context, image []byte) (ManipulationAnalysis, error)
}

// Repository port for persisting and querying fact-check records.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	FindByContentHash(ctx context.Context, hash string, limit int) ([]*Record, error)
	FindRecent(ctx context.Context, f RecordFilter) ([]*Record, error)
}

// OutcomeSink receives fire-and-forget notifications. Implementations must not block.
type OutcomeSink interface {
	Record(ctx context.Context, o Outcome)
}

// NopSink discards outcomes.
type NopSink struct{}

func (NopSink) Record(context.Context, Outcome) {}

// OutcomeRepository persists pipeline outcomes for later inspection.
type OutcomeRepository interface {
	Save(ctx context.Context, o *Outcome) error
	ListByBatch(ctx context.Context, batchID string, limit int) ([]*Outcome, error)
}
