package web

import "github.com/bryanwahyu/satyacheck/internal/domain/analysis"

// ContentResult is what a fetch produced. A nil Content with a non-empty
// Error is a normal degraded value, not a fault.
type ContentResult struct {
	URL        string            `json:"url"`
	Title      string            `json:"title"`
	Content    *string           `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	Language   string            `json:"language"`
	StatusCode int               `json:"statusCode,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Text returns the extracted content or "".
func (r ContentResult) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// URLAnalysisResult is the URL-level composite: fetched page facts plus the
// analysis of its content, or the error explaining why there is none.
type URLAnalysisResult struct {
	URL      string                           `json:"url"`
	Title    string                           `json:"title"`
	Language string                           `json:"language"`
	Metadata map[string]string                `json:"metadata"`
	Analysis *analysis.EnhancedAnalysisResult `json:"analysis"`
	Error    string                           `json:"error,omitempty"`
}
