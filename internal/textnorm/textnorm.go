// Package textnorm provides the normalization used for evidence matching and
// cache keys: lower-case, diacritics stripped, punctuation removed, whitespace
// collapsed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the shortest token that participates in loose matching.
// Shorter tokens ("van", "de", "la") match too promiscuously to corroborate.
const minTokenLen = 4

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes text for comparison: diacritics folded away, lower-cased,
// punctuation replaced by spaces, whitespace collapsed.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits folded text into matching tokens of at least minTokenLen runes.
func Tokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(Fold(s)) {
		if len([]rune(tok)) >= minTokenLen {
			out = append(out, tok)
		}
	}
	return out
}

// TokenCount counts all whitespace-separated tokens of the folded text,
// regardless of length. Used for the short-candidate allowance.
func TokenCount(s string) int {
	return len(strings.Fields(Fold(s)))
}

// CacheKey builds the normalized "title|creator" result-cache key.
func CacheKey(title, creator string) string {
	return Fold(title) + "|" + Fold(creator)
}
