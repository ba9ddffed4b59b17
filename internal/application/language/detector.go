// Package language holds the offline language heuristics and the table of
// languages the pipeline supports.
package language

import (
	"strings"
	"unicode"

	xlang "golang.org/x/text/language"
)

const (
	// Default is assumed for short or unrecognised text.
	Default = "en"

	minDetectRunes = 10
	sampleRunes    = 100
	confidence     = 0.8
)

// Detection is the heuristic verdict on a text's language.
type Detection struct {
	Code       string  `json:"detectedLanguage"`
	Name       string  `json:"languageName"`
	Confidence float64 `json:"confidence"`
	Supported  bool    `json:"isSupported"`
}

// rule matches when any rune of the sample falls in one of its tables, or any
// of its marker substrings occurs in the lowercased sample.
type rule struct {
	code    string
	scripts []*unicode.RangeTable
	markers []string
}

// rules is evaluated top to bottom. Marathi markers come before the generic
// Devanagari rule and kana before Han so the more specific language wins.
var rules = []rule{
	{code: "mr", markers: []string{"आहे", "मराठी", "आणि"}},
	{code: "hi", scripts: []*unicode.RangeTable{unicode.Devanagari}},
	{code: "ja", scripts: []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana}},
	{code: "zh", scripts: []*unicode.RangeTable{unicode.Han}},
	{code: "ar", scripts: []*unicode.RangeTable{unicode.Arabic}},
	{code: "ru", scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	{code: "es", markers: []string{"ñ", "¿", "¡", " el ", " los ", " que ", " está "}},
	{code: "fr", markers: []string{"ç", " est ", " les ", " une ", " avec ", "œ"}},
	{code: "de", markers: []string{"ß", " und ", " der ", " die ", " nicht ", " ist "}},
}

func (r rule) matches(sample string) bool {
	for _, m := range r.markers {
		if strings.Contains(sample, m) {
			return true
		}
	}
	if len(r.scripts) == 0 {
		return false
	}
	for _, c := range sample {
		if unicode.In(c, r.scripts...) {
			return true
		}
	}
	return false
}

// Detect guesses the language from script ranges and marker words.
func Detect(text string) Detection {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minDetectRunes {
		return newDetection(Default, 1.0)
	}
	sample := " " + strings.ToLower(firstRunes(trimmed, sampleRunes)) + " "
	for _, r := range rules {
		if r.matches(sample) {
			return newDetection(r.code, confidence)
		}
	}
	return newDetection(Default, confidence)
}

func newDetection(code string, conf float64) Detection {
	info := Lookup(code)
	return Detection{Code: code, Name: info.Name, Confidence: conf, Supported: info.Supported}
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

var aliases = map[string]string{
	"english": "en",
	"hindi":   "hi",
	"marathi": "mr",
	"spanish": "es",
	"español": "es",
	"french":  "fr",
	"german":  "de",
	"chinese": "zh",
	"arabic":  "ar",
	"russian": "ru",
}

// Normalize maps names and BCP 47 tags ("en-US", "English", "zh_Hant") to a
// lowercase primary subtag. Empty input yields Default.
func Normalize(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		return Default
	}
	if a, ok := aliases[c]; ok {
		return a
	}
	c = strings.ReplaceAll(c, "_", "-")
	if tag, err := xlang.Parse(c); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	if i := strings.IndexByte(c, '-'); i > 0 {
		return c[:i]
	}
	return c
}
