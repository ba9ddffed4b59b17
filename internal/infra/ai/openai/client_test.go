package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

type staticModel string

func (m staticModel) Resolve(context.Context, string) string { return string(m) }

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gemini-2.5-flash",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	})
	return string(b)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "k", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second}, staticModel("gemini-2.5-flash"), logger.NewNop())
}

func TestGenerateSendsResolvedModelAndJSONFormat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completion(`{"verdict":"CREDIBLE"}`))
	})

	out, err := c.Generate(context.Background(), ai.GenerateRequest{System: "sys", Prompt: "hello", JSON: true, Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"CREDIBLE"}`, out)

	assert.Equal(t, "gemini-2.5-flash", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.EqualValues(t, 2048, body["max_tokens"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestGenerateWithImageUsesDataURL(t *testing.T) {
	var raw []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completion("ok"))
	})

	_, err := c.Generate(context.Background(), ai.GenerateRequest{Prompt: "describe", Image: []byte("\x89PNG\r\n\x1a\nrest"), ImageMIME: "image/png"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data:image/png;base64,")
	assert.Contains(t, string(raw), `"image_url"`)
}

func TestGenerateMapsQuotaError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota exhausted","type":"rate_limit_error","code":"429"}}`)
	})

	_, err := c.Generate(context.Background(), ai.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestGenerateEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[]}`)
	})
	_, err := c.Generate(context.Background(), ai.GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-mini"))
	assert.True(t, isReasoningModel("gpt-5"))
	assert.False(t, isReasoningModel("gemini-2.5-flash"))
}
