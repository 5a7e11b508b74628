// Package jsonx extracts a JSON object from model output that may be wrapped
// in markdown fences or surrounded by prose.
package jsonx

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNoJSON means no JSON object could be located in the text.
	ErrNoJSON = eris.New("jsonx: no json object found")
	// ErrInvalidJSON means an object was located but does not parse.
	ErrInvalidJSON = eris.New("jsonx: invalid json")
)

// ExtractObject locates the outermost JSON object in text and returns it
// verbatim. The text may carry ```json fences, leading/trailing prose, or be
// a bare object.
func ExtractObject(text string) (string, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	candidate := strings.TrimSpace(text[start : end+1])

	if !json.Valid([]byte(candidate)) {
		return "", ErrInvalidJSON
	}
	return candidate, nil
}

// Unmarshal extracts the outermost JSON object from text and decodes it into v.
func Unmarshal(text string, v any) error {
	obj, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return eris.Wrap(ErrInvalidJSON, err.Error())
	}
	return nil
}
