package analysis

import "time"

// Outcome is one completed (or failed) pipeline operation reported to the feedback sink.
type Outcome struct {
	ID        int64         `json:"id"`
	Operation string        `json:"operation"` // comprehensive | misinformation | url | bulk_content ...
	BatchID   string        `json:"batchId,omitempty"`
	ItemID    string        `json:"itemId,omitempty"`
	Language  string        `json:"language,omitempty"`
	Verdict   Verdict       `json:"verdict,omitempty"`
	Success   bool          `json:"success"`
	ErrorKind string        `json:"errorKind,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}
