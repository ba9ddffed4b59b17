package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	cases := map[string]Verdict{
		"CREDIBLE":                     VerdictCredible,
		"  credible ":                  VerdictCredible,
		"Potentially_Misleading":       VerdictPotentiallyMisleading,
		"this is misleading":           VerdictPotentiallyMisleading,
		"HIGH_MISINFORMATION_RISK":     VerdictHighMisinformationRisk,
		"scam_alert":                   VerdictScamAlert,
		"Not credible, a likely scam":  VerdictCredible,
		"misleading misinformation":    VerdictPotentiallyMisleading,
		"":                             VerdictCredible,
		"UNKNOWN":                      VerdictCredible,
		"¯\\_(ツ)_/¯ \x00 garbage":       VerdictCredible,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseVerdict(in), "input %q", in)
	}
}

func TestParseVerdictFirstMarkerWins(t *testing.T) {
	cases := []struct {
		in   string
		want Verdict
	}{
		{"CREDIBLE, not a SCAM", VerdictCredible},
		{"POTENTIALLY_MISLEADING (not HIGH_MISINFORMATION_RISK)", VerdictPotentiallyMisleading},
		{"misinformation, possibly a scam", VerdictHighMisinformationRisk},
		{"SCAM_ALERT", VerdictScamAlert},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseVerdict(tc.in), "input %q", tc.in)
	}
}

func TestParseVerdictNeverUnknown(t *testing.T) {
	inputs := []string{"", " ", "unknown", "N/A", "😀", string([]byte{0xff, 0xfe})}
	for _, in := range inputs {
		v := ParseVerdict(in)
		assert.NotEqual(t, VerdictUnknown, v)
		assert.True(t, v.Valid())
	}
}
