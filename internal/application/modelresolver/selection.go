package modelresolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
)

const (
	modelPrefix      = "models/"
	generateCapacity = "generateContent"
)

// Rules is the ordered selection table.
type Rules struct {
	Preferred []string
	Patterns  []*regexp.Regexp
	Excluded  map[string]struct{}
}

// CompileRules anchors every pattern so it must match the whole identifier.
func CompileRules(preferred, patterns, excluded []string) (Rules, error) {
	r := Rules{
		Preferred: append([]string(nil), preferred...),
		Excluded:  make(map[string]struct{}, len(excluded)),
	}
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return Rules{}, fmt.Errorf("model pattern %q: %w", p, err)
		}
		r.Patterns = append(r.Patterns, re)
	}
	for _, e := range excluded {
		r.Excluded[e] = struct{}{}
	}
	return r, nil
}

// Candidates strips the "models/" prefix and drops excluded entries and
// entries that cannot generate content. Provider order is kept.
func (r Rules) Candidates(models []ai.ModelInfo) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		id := strings.TrimPrefix(m.Name, modelPrefix)
		if id == "" {
			continue
		}
		if _, skip := r.Excluded[id]; skip {
			continue
		}
		if !supportsGenerate(m.SupportedMethods) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func supportsGenerate(methods []string) bool {
	for _, m := range methods {
		if m == generateCapacity {
			return true
		}
	}
	return false
}

// Select applies the preference list, then the pattern rules in order, then
// falls back to the first candidate. ok is false only for an empty list.
func (r Rules) Select(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	available := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		available[c] = struct{}{}
	}
	for _, p := range r.Preferred {
		if _, ok := available[p]; ok {
			return p, true
		}
	}
	for _, re := range r.Patterns {
		for _, c := range candidates {
			if re.MatchString(c) {
				return c, true
			}
		}
	}
	return candidates[0], true
}
