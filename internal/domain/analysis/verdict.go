package analysis

import "strings"

// Verdict is the closed credibility classification of analysed content.
type Verdict string

const (
	VerdictCredible               Verdict = "CREDIBLE"
	VerdictPotentiallyMisleading  Verdict = "POTENTIALLY_MISLEADING"
	VerdictHighMisinformationRisk Verdict = "HIGH_MISINFORMATION_RISK"
	VerdictScamAlert              Verdict = "SCAM_ALERT"
	VerdictUnknown                Verdict = "UNKNOWN"
)

// verdictRules is checked in order; the first rule whose marker appears in the
// normalised text wins. Order matches the verdict-string contract shared with
// clients: CREDIBLE, MISLEADING, MISINFORMATION, SCAM.
var verdictRules = []struct {
	marker  string
	verdict Verdict
}{
	{"CREDIBLE", VerdictCredible},
	{"MISLEADING", VerdictPotentiallyMisleading},
	{"MISINFORMATION", VerdictHighMisinformationRisk},
	{"SCAM", VerdictScamAlert},
}

// ParseVerdict maps free-form model output onto a Verdict. It is total:
// text matching no rule is CREDIBLE, never UNKNOWN.
func ParseVerdict(text string) Verdict {
	norm := strings.ToUpper(strings.TrimSpace(text))
	for _, r := range verdictRules {
		if strings.Contains(norm, r.marker) {
			return r.verdict
		}
	}
	return VerdictCredible
}

// Valid reports whether v is one of the declared verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictCredible, VerdictPotentiallyMisleading, VerdictHighMisinformationRisk, VerdictScamAlert, VerdictUnknown:
		return true
	}
	return false
}
