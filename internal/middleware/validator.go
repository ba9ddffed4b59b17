package middleware

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation and sanitization utilities

var languageCodePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}([-_][a-zA-Z0-9]{2,8})*$`)

// ValidateURL rejects non-http schemes and hosts that resolve to this machine
// or private networks by literal (SSRF protection).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("localhost/internal hosts are not allowed")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
			return fmt.Errorf("localhost/internal IPs are not allowed")
		}
		if ip.IsPrivate() {
			return fmt.Errorf("private IP ranges are not allowed")
		}
	}
	return nil
}

// ValidateLanguageCode accepts "" or a BCP 47 shaped code such as "en" or "pt-BR".
func ValidateLanguageCode(code string) error {
	if code == "" {
		return nil
	}
	if !languageCodePattern.MatchString(code) {
		return fmt.Errorf("invalid language code: %q", code)
	}
	return nil
}

// ValidateContent requires non-blank text of at most maxRunes runes.
func ValidateContent(content string, maxRunes int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		return fmt.Errorf("content exceeds %d characters", maxRunes)
	}
	return nil
}

// ValidateBatchSize requires 1..max items.
func ValidateBatchSize(n, max int) error {
	if n == 0 {
		return fmt.Errorf("items cannot be empty")
	}
	if max > 0 && n > max {
		return fmt.Errorf("too many items: %d (max %d)", n, max)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
