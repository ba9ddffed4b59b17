package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const defaultMaxTokens = 2048

// ModelResolver supplies the model for each call.
type ModelResolver interface {
	Resolve(ctx context.Context, apiKey string) string
}

type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	MaxTokens         int
	RequestsPerSecond float64
	Burst             int
}

// Client is an ai.Generator over any OpenAI-compatible chat endpoint. The
// model is resolved on every call so discovery refreshes take effect without
// a restart.
type Client struct {
	api       *openai.Client
	apiKey    string
	models    ModelResolver
	limiter   *rate.Limiter
	maxTokens int
	log       logger.Logger
}

func NewClient(cfg Config, models ModelResolver, log logger.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		api:       openai.NewClientWithConfig(oc),
		apiKey:    cfg.APIKey,
		models:    models,
		limiter:   rate.NewLimiter(limit, burst),
		maxTokens: maxTokens,
		log:       log.With(logger.String("component", "ai_client")),
	}
}

func (c *Client) Generate(ctx context.Context, in ai.GenerateRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := c.models.Resolve(ctx, c.apiKey)
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: in.Temperature,
		Messages:    buildMessages(in),
	}
	if in.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = c.maxTokens
	} else {
		req.MaxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ai.ErrEmptyResponse
	}

	c.log.Debug("completion done",
		logger.String("model", model),
		logger.Int("total_tokens", resp.Usage.TotalTokens),
		logger.Duration("took", time.Since(start)),
	)
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(in ai.GenerateRequest) []openai.ChatCompletionMessage {
	var msgs []openai.ChatCompletionMessage
	if in.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: in.System})
	}
	if len(in.Image) == 0 {
		return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: in.Prompt})
	}

	mime := in.ImageMIME
	if mime == "" {
		mime = http.DetectContentType(in.Image)
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(in.Image)
	return append(msgs, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: in.Prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto}},
		},
	})
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}
