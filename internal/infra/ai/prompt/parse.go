// Package prompt builds model prompts and reads the JSON the model answers with.
package prompt

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON means the model output had no recognisable JSON object.
var ErrNoJSON = errors.New("model output contains no JSON object")

// Decode extracts the first JSON object from model output, tolerating code
// fences and chatter around it, and unmarshals it into v.
func Decode(output string, v any) error {
	raw, err := ExtractObject(output)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

// ExtractObject returns the outermost {...} span of output.
func ExtractObject(output string) (string, error) {
	s := strings.TrimSpace(output)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
