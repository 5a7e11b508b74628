package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/pkg/artic"
	"github.com/sabitsky/hearitage/pkg/met"
)

type fakeMet struct {
	art     *met.Artwork
	err     error
	queries []string
}

func (f *fakeMet) SearchTop(ctx context.Context, query string) (*met.Artwork, error) {
	f.queries = append(f.queries, query)
	return f.art, f.err
}

type fakeArtic struct {
	art *artic.Artwork
	err error
}

func (f *fakeArtic) SearchTop(ctx context.Context, query string) (*artic.Artwork, error) {
	return f.art, f.err
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Sunflowers Vincent van Gogh", searchQuery(model.Attribution{
		Title: "Sunflowers", Creator: "Vincent van Gogh",
	}))
	assert.Equal(t, "Sunflowers", searchQuery(model.Attribution{
		Title: "Sunflowers", Creator: "unknown",
	}))
	assert.Equal(t, "Vincent van Gogh", searchQuery(model.Attribution{
		Title: "unknown", Creator: "Vincent van Gogh",
	}))
}

func TestMetFetch(t *testing.T) {
	fake := &fakeMet{art: &met.Artwork{
		Title:      "Wheat Field with Cypresses",
		Artist:     "Vincent van Gogh",
		ObjectDate: "1889",
		Medium:     "Oil on canvas",
		ObjectURL:  "https://www.metmuseum.org/art/collection/search/436535",
	}}
	p := NewMet(fake)

	res, err := p.Fetch(context.Background(), model.Attribution{Title: "Wheat Field with Cypresses", Creator: "Vincent van Gogh"})
	require.NoError(t, err)
	require.Equal(t, []string{"Wheat Field with Cypresses Vincent van Gogh"}, fake.queries)

	byField := make(map[model.EvidenceField]model.EvidenceRecord)
	for _, r := range res.Records {
		byField[r.Field] = r
	}
	assert.Equal(t, "Wheat Field with Cypresses", byField[model.FieldTitle].Value)
	assert.Equal(t, "Vincent van Gogh", byField[model.FieldCreator].Value)
	assert.Equal(t, "1889", byField[model.FieldDate].Value)
	// With no culture the medium stands in for style, at low confidence.
	assert.Equal(t, "Oil on canvas", byField[model.FieldStyle].Value)
	assert.Equal(t, model.EvidenceLow, byField[model.FieldStyle].Confidence)
	// The holding institution is the location claim.
	assert.Equal(t, MetName, byField[model.FieldLocation].Value)
	assert.Equal(t, MetName, byField[model.FieldTitle].SourceName)
}

func TestMetFetchNoMatch(t *testing.T) {
	p := NewMet(&fakeMet{})
	res, err := p.Fetch(context.Background(), model.Attribution{Title: "Nothing", Creator: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestMetFetchError(t *testing.T) {
	p := NewMet(&fakeMet{err: errors.New("504")})
	_, err := p.Fetch(context.Background(), model.Attribution{Title: "Anything", Creator: "Anyone"})
	require.Error(t, err)
}

func TestArticFetchSplitsArtistDisplay(t *testing.T) {
	fake := &fakeArtic{art: &artic.Artwork{
		ID:            28560,
		Title:         "The Bedroom",
		ArtistDisplay: "Vincent van Gogh\nDutch, 1853-1890",
		DateDisplay:   "1889",
		StyleTitle:    "Post-Impressionism",
	}}
	p := NewArtic(fake)

	res, err := p.Fetch(context.Background(), model.Attribution{Title: "The Bedroom", Creator: "Vincent van Gogh"})
	require.NoError(t, err)

	byField := make(map[model.EvidenceField]model.EvidenceRecord)
	for _, r := range res.Records {
		byField[r.Field] = r
	}
	assert.Equal(t, "Vincent van Gogh", byField[model.FieldCreator].Value)
	assert.Equal(t, "Post-Impressionism", byField[model.FieldStyle].Value)
	assert.Equal(t, "https://www.artic.edu/artworks/28560", res.SourceURL)
}

func TestRecordSetDedupes(t *testing.T) {
	rs := newRecordSet("Test", "https://example.org")
	rs.add(model.FieldCreator, "Vincent van Gogh", model.EvidenceMedium)
	rs.add(model.FieldCreator, "VINCENT VAN GOGH", model.EvidenceMedium)
	rs.add(model.FieldCreator, "", model.EvidenceMedium)
	rs.add(model.FieldTitle, "Vincent van Gogh", model.EvidenceMedium)

	assert.Len(t, rs.records, 2)
}
