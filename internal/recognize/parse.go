package recognize

import (
	"strings"
	"unicode"

	"github.com/sabitsky/hearitage/internal/jsonx"
	"github.com/sabitsky/hearitage/internal/model"
)

// attributionWire mirrors the JSON object the model is instructed to emit.
type attributionWire struct {
	Title      string `json:"title"`
	Creator    string `json:"creator"`
	Date       string `json:"date"`
	Location   string `json:"location"`
	Style      string `json:"style"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
	Summary    string `json:"summary"`
}

// Field length caps keep a runaway model response from bloating the result.
const (
	maxFieldLen     = 300
	maxReasoningLen = 1000
	maxSummaryLen   = 2000
)

// parseAttribution locates the JSON object in model text and sanitizes every
// field to a safe string or enum.
func parseAttribution(text string) (model.Attribution, error) {
	var wire attributionWire
	if err := jsonx.Unmarshal(text, &wire); err != nil {
		return model.Attribution{}, err
	}

	return model.Attribution{
		Title:          sanitizeField(wire.Title, maxFieldLen),
		Creator:        sanitizeField(wire.Creator, maxFieldLen),
		DateLabel:      sanitizeField(wire.Date, maxFieldLen),
		Location:       sanitizeField(wire.Location, maxFieldLen),
		StyleLabel:     sanitizeField(wire.Style, maxFieldLen),
		ConfidenceTier: model.ParseConfidenceTier(wire.Confidence),
		Reasoning:      sanitizeText(wire.Reasoning, maxReasoningLen),
		Summary:        sanitizeText(wire.Summary, maxSummaryLen),
	}, nil
}

// sanitizeField cleans a short identity field, collapsing anything empty or
// explicitly unresolved to the canonical sentinel.
func sanitizeField(s string, maxLen int) string {
	s = sanitizeText(s, maxLen)
	if model.IsUnknown(s) {
		return model.Unknown
	}
	return s
}

// sanitizeText strips control characters, collapses whitespace runs, and
// truncates.
func sanitizeText(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	s = strings.Join(strings.Fields(b.String()), " ")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.TrimSpace(s)
}
