package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
)

func TestAnalyzeTextCachesAndPersists(t *testing.T) {
	h := newHarness(Providers{})
	ctx := context.Background()
	req := domain.AnalysisRequest{Content: "Drinking hot water cures flu", Language: "EN"}

	first, err := h.facts.AnalyzeText(ctx, req)
	require.NoError(t, err)
	second, err := h.facts.AnalyzeText(ctx, req)
	require.NoError(t, err)
	h.facts.Wait()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.checker.Calls())

	saved := h.repo.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, cache.Hash(req.Content), saved[0].ContentHash)
	assert.Equal(t, "en", saved[0].Language)
	assert.Equal(t, domain.ContentText, saved[0].ContentType)
	assert.NotEmpty(t, saved[0].ID)
}

func TestAnalyzeTextRejectsEmptyContent(t *testing.T) {
	h := newHarness(Providers{})

	_, err := h.facts.AnalyzeText(context.Background(), domain.AnalysisRequest{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, h.checker.Calls())
}

func TestAnalyzeTextIgnoresPersistenceFailure(t *testing.T) {
	h := newHarness(Providers{})
	h.repo.err = errBoom

	res, err := h.facts.AnalyzeText(context.Background(), domain.AnalysisRequest{Content: "x", Language: "en"})
	h.facts.Wait()
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictCredible, res.Verdict)
}

func TestAnalyzeTextDoesNotCacheFailures(t *testing.T) {
	h := newHarness(Providers{})
	h.checker.fn = func(string, string) (domain.AnalysisResult, error) { return domain.AnalysisResult{}, errBoom }
	ctx := context.Background()
	req := domain.AnalysisRequest{Content: "x", Language: "en"}

	_, err := h.facts.AnalyzeText(ctx, req)
	assert.ErrorIs(t, err, errBoom)
	_, err = h.facts.AnalyzeText(ctx, req)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, h.checker.Calls())
	assert.Empty(t, h.repo.Saved())
}

func TestHistoryFindsByContent(t *testing.T) {
	h := newHarness(Providers{})
	ctx := context.Background()

	_, err := h.facts.AnalyzeText(ctx, domain.AnalysisRequest{Content: "claim", Language: "en"})
	require.NoError(t, err)
	h.facts.Wait()

	recs, err := h.facts.History(ctx, "claim", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
