package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "The Starry Night", "the starry night"},
		{"diacritics", "Café Terrace at Night", "cafe terrace at night"},
		{"artist_accents", "Paul Cézanne", "paul cezanne"},
		{"punctuation", "Whistler's Mother (Arrangement in Grey)", "whistler s mother arrangement in grey"},
		{"whitespace_collapse", "  Mona   Lisa  ", "mona lisa"},
		{"digits_kept", "Composition VIII 1923", "composition viii 1923"},
		{"empty", "", ""},
		{"only_punctuation", "!?,.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"drops_short_tokens", "Vincent van Gogh", []string{"vincent", "gogh"}},
		{"particles_dropped", "Girl with a Pearl Earring", []string{"girl", "with", "pearl", "earring"}},
		{"empty", "", nil},
		{"all_short", "de la va", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}

func TestTokenCount(t *testing.T) {
	assert.Equal(t, 3, TokenCount("Vincent van Gogh"))
	assert.Equal(t, 0, TokenCount(""))
	assert.Equal(t, 5, TokenCount("Girl with a Pearl Earring"))
}

func TestCacheKey(t *testing.T) {
	// Accents and case must not split cache entries.
	assert.Equal(t, CacheKey("The Starry Night", "Vincent van Gogh"),
		CacheKey("the starry night", "VINCENT VAN GOGH"))
	assert.Equal(t, "cafe terrace at night|vincent van gogh",
		CacheKey("Café Terrace at Night", "Vincent van Gogh"))
	assert.NotEqual(t, CacheKey("Sunflowers", "Vincent van Gogh"),
		CacheKey("Sunflowers", "Claude Monet"))
}
