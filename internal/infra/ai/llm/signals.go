package llm

import "regexp"

// signalDetectors flag common scam and manipulation phrasing. Each hit adds
// its pattern and technique once.
var signalDetectors = []struct {
	re        *regexp.Regexp
	pattern   string
	technique string
}{
	{regexp.MustCompile(`(?i)\b(act now|urgent(ly)?|immediately|within 24 hours|limited time|last chance)\b`), "false urgency", "pressure tactics"},
	{regexp.MustCompile(`(?i)\b(otp|one[- ]time password|cvv|pin number|bank details|verify your account)\b`), "credential request", "phishing"},
	{regexp.MustCompile(`(?i)\b(you (have )?won|lottery|claim your (prize|reward)|free gift card)\b`), "prize bait", "advance-fee lure"},
	{regexp.MustCompile(`(?i)\b(double your (money|investment)|guaranteed returns?|risk[- ]free profit)\b`), "unrealistic returns", "financial fraud"},
	{regexp.MustCompile(`(?i)\b(forward (this|it) to (everyone|all)|share before (it'?s|it is) (deleted|removed))\b`), "chain message", "virality prompt"},
	{regexp.MustCompile(`(?i)\b(they don'?t want you to know|doctors hate|mainstream media (won'?t|will not) tell)\b`), "suppressed-truth framing", "conspiracy framing"},
	{regexp.MustCompile(`(?i)\b(miracle cure|cures? (cancer|diabetes|covid) (in|within) \d+ days?)\b`), "miracle health claim", "pseudoscience"},
	{regexp.MustCompile(`(?i)\b(bit\.ly|tinyurl\.com|t\.co|goo\.gl)/\S+`), "shortened link", "link obfuscation"},
}

// DetectSignals runs the local detector table over text.
func DetectSignals(text string) (patterns, techniques []string) {
	for _, d := range signalDetectors {
		if d.re.MatchString(text) {
			patterns = append(patterns, d.pattern)
			techniques = append(techniques, d.technique)
		}
	}
	return patterns, techniques
}
