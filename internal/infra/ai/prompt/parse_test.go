package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	var v struct {
		Verdict string `json:"verdict"`
	}
	cases := []string{
		`{"verdict":"SCAM_ALERT"}`,
		"```json\n{\"verdict\":\"SCAM_ALERT\"}\n```",
		"Sure! Here it is: {\"verdict\": \"SCAM_ALERT\"} hope this helps",
	}
	for _, in := range cases {
		v.Verdict = ""
		require.NoError(t, Decode(in, &v), in)
		assert.Equal(t, "SCAM_ALERT", v.Verdict)
	}
}

func TestDecodeNoJSON(t *testing.T) {
	var v map[string]any
	assert.ErrorIs(t, Decode("the content looks credible", &v), ErrNoJSON)
	assert.ErrorIs(t, Decode("} backwards {", &v), ErrNoJSON)
}

func TestClipKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("है", maxContentChars)
	clipped := Clip(long)
	assert.True(t, utf8.ValidString(clipped))
	assert.True(t, strings.HasSuffix(clipped, "..."))
	assert.Equal(t, "short", Clip("  short "))
}
