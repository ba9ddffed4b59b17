package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse is returned when the provider answers with no usable choice.
var ErrEmptyResponse = errors.New("ai provider returned an empty response")
