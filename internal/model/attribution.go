package model

import "strings"

// Unknown is the sentinel value for an unresolved attribution field.
// Fields are always present; absence is never used to signal "not identified".
const Unknown = "unknown"

// ConfidenceTier buckets how certain the identification model is.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// ParseConfidenceTier maps free text onto a tier, defaulting to low.
func ParseConfidenceTier(s string) ConfidenceTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium", "med":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Attribution is the structured identification of a painting as produced by
// one recognition pass. Once accepted it is immutable: later stages may only
// append to Summary and attach verified facts, never rewrite the identity
// fields.
type Attribution struct {
	Title          string         `json:"title"`
	Creator        string         `json:"creator"`
	DateLabel      string         `json:"date"`
	Location       string         `json:"location"`
	StyleLabel     string         `json:"style"`
	ConfidenceTier ConfidenceTier `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	Summary        string         `json:"summary"`
}

// IsUnknown reports whether a field value is the unresolved sentinel.
func IsUnknown(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), Unknown) || strings.TrimSpace(v) == ""
}

// Unresolved reports whether both identity fields are still unknown,
// in which case the subject cannot be fact-checked at all.
func (a Attribution) Unresolved() bool {
	return IsUnknown(a.Title) && IsUnknown(a.Creator)
}

// SubjectLine renders the attribution as a free-text search subject,
// e.g. `"The Starry Night" by Vincent van Gogh`.
func (a Attribution) SubjectLine() string {
	switch {
	case !IsUnknown(a.Title) && !IsUnknown(a.Creator):
		return `"` + a.Title + `" by ` + a.Creator
	case !IsUnknown(a.Title):
		return a.Title
	default:
		return a.Creator
	}
}
