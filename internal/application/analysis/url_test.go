package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/domain/web"
)

func TestAnalyzeURLRejectsMalformedBeforeFetching(t *testing.T) {
	h := newHarness(Providers{})

	_, err := h.orch.AnalyzeURL(context.Background(), "not a url")
	assert.ErrorIs(t, err, web.ErrInvalidURL)
	assert.Zero(t, h.fetcher.calls)
}

func TestAnalyzeURLCarriesFetchError(t *testing.T) {
	h := newHarness(Providers{})
	h.fetcher.result = web.ContentResult{Language: "unknown", Error: "Error fetching content: timeout"}

	res, err := h.orch.AnalyzeURL(context.Background(), "example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", res.URL)
	assert.Nil(t, res.Analysis)
	assert.Equal(t, "Error fetching content: timeout", res.Error)
	assert.Zero(t, h.checker.Calls())
}

func TestAnalyzeURLAnalyzesContent(t *testing.T) {
	h := newHarness(Providers{})
	text := "The article body."
	h.fetcher.result = web.ContentResult{Title: "News", Content: &text, Language: "en", Metadata: map[string]string{}}
	ctx := context.Background()

	res, err := h.orch.AnalyzeURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, "News", res.Title)
	assert.Empty(t, res.Error)

	_, err = h.orch.AnalyzeURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, 1, h.fetcher.calls)
}
