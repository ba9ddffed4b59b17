package ai

import "context"

// GenerateRequest is one prompt round-trip against a generative model.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float32
	// JSON asks the provider for a JSON object response.
	JSON bool
	// Image is optional inline image data sent alongside Prompt.
	Image     []byte
	ImageMIME string
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ModelInfo is one entry of the provider capability listing.
type ModelInfo struct {
	Name             string   `json:"name"`
	SupportedMethods []string `json:"supportedGenerationMethods"`
}

// ModelLister queries the provider capability listing.
type ModelLister interface {
	ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error)
}
