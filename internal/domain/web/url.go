package web

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by URL-accepting services for input that stays
// unparsable after scheme normalisation.
var ErrInvalidURL = errors.New("invalid URL format")

// NormalizeURL prefixes https:// when no http(s) scheme is present.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + s
}

// ValidateURL performs basic syntax validation on an already normalised URL.
func ValidateURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	host := parsed.Hostname()
	if host == "" || strings.ContainsAny(host, " \t") {
		return fmt.Errorf("%w: missing or malformed host", ErrInvalidURL)
	}
	return nil
}

// NormalizeAndValidate is the entry check used before any URL work begins.
func NormalizeAndValidate(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}
	u := NormalizeURL(raw)
	if err := ValidateURL(u); err != nil {
		return "", err
	}
	return u, nil
}
