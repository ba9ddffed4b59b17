package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

type fakeGenerator struct {
	out  string
	err  error
	reqs []ai.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.GenerateRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

func newService(out string, err error) (*Service, *fakeGenerator) {
	gen := &fakeGenerator{out: out, err: err}
	return NewService(gen, logger.NewNop()), gen
}

func TestCheckFactsStructured(t *testing.T) {
	svc, gen := newService("```json\n{\"verdict\":\"SCAM\",\"explanation\":\" asks for OTP \"}\n```", nil)

	res, err := svc.CheckFacts(context.Background(), "send me your OTP", "en")
	require.NoError(t, err)
	assert.Equal(t, analysis.VerdictScamAlert, res.Verdict)
	assert.Equal(t, "asks for OTP", res.Explanation)
	require.Len(t, gen.reqs, 1)
	assert.True(t, gen.reqs[0].JSON)
}

func TestCheckFactsUnstructuredFallsBackToText(t *testing.T) {
	svc, _ := newService("This looks like misinformation about vaccines.", nil)

	res, err := svc.CheckFacts(context.Background(), "x", "en")
	require.NoError(t, err)
	assert.Equal(t, analysis.VerdictHighMisinformationRisk, res.Verdict)
	assert.Equal(t, "This looks like misinformation about vaccines.", res.Explanation)
}

func TestCheckFactsProviderError(t *testing.T) {
	svc, _ := newService("", ai.ErrQuotaExceeded)

	_, err := svc.CheckFacts(context.Background(), "x", "en")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestCategorizeNormalizes(t *testing.T) {
	svc, _ := newService(`{"primaryCategory":"health","confidence":1.7,"tags":["Vaccine","vaccine"," "]}`, nil)

	cat, err := svc.Categorize(context.Background(), "x", "en")
	require.NoError(t, err)
	assert.Equal(t, "HEALTH", cat.PrimaryCategory)
	assert.Equal(t, 1.0, cat.Confidence)
	assert.Equal(t, []string{"Vaccine"}, cat.Tags)
}

func TestExtractTopicsCapsAtThree(t *testing.T) {
	svc, _ := newService(`{"topics":[{"topic":"a"},{"topic":""},{"topic":"b"},{"topic":"c"},{"topic":"d"}]}`, nil)

	topics, err := svc.ExtractTopics(context.Background(), "x", "en")
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, "c", topics[2].Topic)
}

func TestDetectMisinformationMergesSignals(t *testing.T) {
	svc, _ := newService(`{"isLikelyMisinformation":true,"riskLevel":"high","patterns":["false urgency"],"techniques":[]}`, nil)

	res, err := svc.DetectMisinformation(context.Background(), "URGENT: claim your prize now", "en")
	require.NoError(t, err)
	assert.Equal(t, "HIGH", res.RiskLevel)
	assert.Equal(t, []string{"false urgency", "prize bait"}, res.Patterns)
	assert.Contains(t, res.Techniques, "advance-fee lure")
}

func TestDetectMisinformationHeuristicFallback(t *testing.T) {
	svc, _ := newService("", errors.New("provider down"))

	res, err := svc.DetectMisinformation(context.Background(), "Act now! Send your OTP to bit.ly/abc", "en")
	require.NoError(t, err)
	assert.Equal(t, "HIGH", res.RiskLevel)
	assert.True(t, res.IsLikelyMisinformation)
	assert.Len(t, res.Patterns, 3)
}

func TestDetectMisinformationErrorWithoutSignals(t *testing.T) {
	svc, _ := newService("", errors.New("provider down"))

	_, err := svc.DetectMisinformation(context.Background(), "The weather is mild today.", "en")
	assert.Error(t, err)
}

func TestSentimentClamped(t *testing.T) {
	svc, _ := newService(`{"score":-3,"magnitude":-1,"language":"EN-us"}`, nil)

	s, err := svc.AnalyzeSentiment(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, -1.0, s.Score)
	assert.Equal(t, 0.0, s.Magnitude)
	assert.Equal(t, "en", s.Language)
}

func TestTranslateEmptyIsError(t *testing.T) {
	svc, _ := newService(`{"translatedText":"  "}`, nil)

	_, err := svc.Translate(context.Background(), "hola", "es", "en")
	assert.Error(t, err)
}

func TestDetectLanguageNormalizes(t *testing.T) {
	svc, _ := newService(`{"detectedLanguage":"hi-IN"}`, nil)

	code, err := svc.DetectLanguage(context.Background(), "नमस्ते")
	require.NoError(t, err)
	assert.Equal(t, "hi", code)
}

func TestAnalyzeImageSendsImage(t *testing.T) {
	svc, gen := newService(`{"extractedText":" WIN NOW ","riskLevel":"medium"}`, nil)

	res, err := svc.AnalyzeImage(context.Background(), []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, "WIN NOW", res.ExtractedText)
	assert.Equal(t, "MEDIUM", res.RiskLevel)
	assert.NotEmpty(t, gen.reqs[0].Image)
}

func TestDetectSignals(t *testing.T) {
	patterns, techniques := DetectSignals("Doctors hate this miracle cure. Forward this to everyone!")
	assert.Equal(t, []string{"chain message", "suppressed-truth framing", "miracle health claim"}, patterns)
	assert.Len(t, techniques, len(patterns))
}
