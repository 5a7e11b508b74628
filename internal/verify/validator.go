// Package verify decides which model-proposed statements are corroborated by
// the evidence bundle. Unsupported text never reaches the response.
package verify

import (
	"regexp"
	"strings"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/textnorm"
)

const (
	// DefaultMaxFacts is applied when the caller passes a non-positive cap.
	DefaultMaxFacts = 3
	// HardMaxFacts bounds the cap itself.
	HardMaxFacts = 5
	// maxSummarySentences caps how many draft sentences may be appended.
	maxSummarySentences = 2
	// shortCandidateTokens is the size at or below which a single shared
	// token suffices for the weak match.
	shortCandidateTokens = 7
)

var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// knowledge is the canonical set candidates are checked against.
type knowledge struct {
	values []string        // folded known field values, strong-match targets
	tokens map[string]bool // folded tokens of all known text, weak-match pool
	years  map[string]bool // every 4-digit year seen in known values
}

func buildKnowledge(subject model.Attribution, bundle *model.EvidenceBundle) *knowledge {
	k := &knowledge{
		tokens: make(map[string]bool),
		years:  make(map[string]bool),
	}

	addValue := func(v string) {
		if model.IsUnknown(v) {
			return
		}
		folded := textnorm.Fold(v)
		if len([]rune(folded)) >= 4 {
			k.values = append(k.values, folded)
		}
	}
	addText := func(v string) {
		for _, tok := range textnorm.Tokens(v) {
			k.tokens[tok] = true
		}
		for _, y := range yearRe.FindAllString(v, -1) {
			k.years[y] = true
		}
	}

	addValue(subject.Title)
	addValue(subject.Creator)
	addValue(subject.Location)
	addValue(subject.StyleLabel)
	for _, f := range []string{subject.Title, subject.Creator, subject.DateLabel, subject.Location, subject.StyleLabel} {
		if !model.IsUnknown(f) {
			addText(f)
		}
	}

	if bundle != nil {
		for _, r := range bundle.Records {
			switch r.Field {
			case model.FieldTitle, model.FieldCreator, model.FieldLocation, model.FieldStyle:
				addValue(r.Value)
			}
			addText(r.Value)
		}
	}
	return k
}

// supported applies the support predicate: a strict year-conflict check
// first, then strong containment of a known value, then token overlap.
func (k *knowledge) supported(candidate string) bool {
	for _, y := range yearRe.FindAllString(candidate, -1) {
		if !k.years[y] {
			return false
		}
	}

	folded := textnorm.Fold(candidate)
	for _, v := range k.values {
		if strings.Contains(folded, v) {
			return true
		}
	}

	shared := 0
	for _, tok := range textnorm.Tokens(candidate) {
		if k.tokens[tok] {
			shared++
		}
	}
	if shared >= 2 {
		return true
	}
	return shared >= 1 && textnorm.TokenCount(candidate) <= shortCandidateTokens
}

// ValidateAndMerge filters the facts draft against the evidence bundle and
// produces the verification result. It is a pure function of its inputs.
func ValidateAndMerge(subject model.Attribution, draft *model.FactsDraft, bundle *model.EvidenceBundle, maxFacts int, latencyMs int64, timedOut bool) model.VerificationResult {
	if maxFacts <= 0 {
		maxFacts = DefaultMaxFacts
	}
	if maxFacts > HardMaxFacts {
		maxFacts = HardMaxFacts
	}

	result := model.VerificationResult{
		Summary:   subject.Summary,
		LatencyMs: latencyMs,
	}

	if bundle.Empty() {
		if timedOut {
			result.Status = model.StatusSkippedTimeout
		} else {
			result.Status = model.StatusSkippedNoEvidence
		}
		return result
	}

	k := buildKnowledge(subject, bundle)

	var kept []string
	seen := make(map[string]bool)
	if draft != nil {
		for _, fact := range draft.Facts {
			fact = strings.TrimSpace(fact)
			if fact == "" || !k.supported(fact) {
				continue
			}
			key := textnorm.Fold(fact)
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, fact)
			if len(kept) >= maxFacts {
				break
			}
		}
	}

	var keptSentences []string
	if draft != nil && draft.SummaryAddition != "" {
		for _, sentence := range splitSentences(draft.SummaryAddition) {
			if !k.supported(sentence) {
				continue
			}
			keptSentences = append(keptSentences, sentence)
			if len(keptSentences) >= maxSummarySentences {
				break
			}
		}
	}
	if len(keptSentences) > 0 {
		joined := strings.Join(keptSentences, " ")
		if result.Summary == "" {
			result.Summary = joined
		} else {
			result.Summary = result.Summary + " " + joined
		}
	}

	result.Facts = kept
	result.VerifiedFactCount = len(kept)
	result.SourceNamesUsed = sourcesUsed(bundle)

	switch {
	case timedOut && len(kept) == 0 && len(keptSentences) == 0:
		result.Status = model.StatusSkippedTimeout
	case len(kept) >= 2 || len(keptSentences) >= 1:
		result.Status = model.StatusVerified
	default:
		result.Status = model.StatusPartial
	}
	return result
}

// sourcesUsed cites only providers that succeeded and produced records.
func sourcesUsed(bundle *model.EvidenceBundle) []string {
	var names []string
	for _, o := range bundle.Outcomes {
		if o.OK && o.RecordCount > 0 {
			names = append(names, o.Name)
		}
	}
	return names
}

// splitSentences breaks text at sentence-ending punctuation, keeping the
// punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
