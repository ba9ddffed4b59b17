package analysis

import "errors"

var (
	// ErrInvalidInput marks malformed caller input, raised before any work starts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported means the required provider is not configured.
	ErrUnsupported = errors.New("operation not supported by configured providers")
)
