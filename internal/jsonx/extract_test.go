package jsonx

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{
			name: "bare_object",
			in:   `{"title": "Sunflowers"}`,
			want: `{"title": "Sunflowers"}`,
		},
		{
			name: "json_fence",
			in:   "```json\n{\"title\": \"Sunflowers\"}\n```",
			want: `{"title": "Sunflowers"}`,
		},
		{
			name: "plain_fence",
			in:   "```\n{\"title\": \"Sunflowers\"}\n```",
			want: `{"title": "Sunflowers"}`,
		},
		{
			name: "surrounding_prose",
			in:   `Here is the identification: {"title": "Sunflowers"} Hope that helps!`,
			want: `{"title": "Sunflowers"}`,
		},
		{
			name:    "no_object",
			in:      "I cannot identify this painting.",
			wantErr: ErrNoJSON,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: ErrNoJSON,
		},
		{
			name:    "truncated_object",
			in:      `{"title": "Sunflowers", "creator":} oops {`,
			wantErr: ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, eris.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	require.NoError(t, Unmarshal("```json\n{\"title\": \"Water Lilies\"}\n```", &out))
	assert.Equal(t, "Water Lilies", out.Title)

	err := Unmarshal(`{"title": 42}`, &out)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidJSON))
}
