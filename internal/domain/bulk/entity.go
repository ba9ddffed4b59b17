package bulk

import (
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
)

// Error kinds recorded on failed items.
const (
	ErrorKindFailed    = "failed"
	ErrorKindCancelled = "cancelled"
	ErrorKindInvalid   = "invalid_input"
)

// ContentItem is one text submission. Language defaults to "en".
type ContentItem struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Language string            `json:"language,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type URLItem struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ItemResult holds exactly one of Analysis or Error.
type ItemResult struct {
	ID        string                           `json:"id"`
	Metadata  map[string]string                `json:"metadata,omitempty"`
	Analysis  *analysis.EnhancedAnalysisResult `json:"analysis"`
	Error     *string                          `json:"error"`
	ErrorKind string                           `json:"errorKind,omitempty"`
}

type URLItemResult struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
	Analysis  *web.URLAnalysisResult `json:"analysis"`
	Error     *string                `json:"error"`
	ErrorKind string                 `json:"errorKind,omitempty"`
}

// Counts is shared by both batch shapes. ItemsProcessed equals
// ItemsSucceeded+ItemsFailed equals len(results); cancelled items count as failed.
type Counts struct {
	BatchID          string `json:"batchId"`
	ItemsProcessed   int    `json:"itemsProcessed"`
	ItemsSucceeded   int    `json:"itemsSucceeded"`
	ItemsFailed      int    `json:"itemsFailed"`
	ItemsCancelled   int    `json:"itemsCancelled"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

type AnalysisResult struct {
	Counts
	Results []ItemResult `json:"results"`
}

type URLAnalysisResult struct {
	Counts
	Results []URLItemResult `json:"results"`
}
