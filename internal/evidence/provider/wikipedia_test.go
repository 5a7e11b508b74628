package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/pkg/wikipedia"
)

type fakeWikipedia struct {
	pages      map[string][]wikipedia.Page
	summary    *wikipedia.Summary
	entity     *wikipedia.Entity
	labels     map[string]string
	searchErr  error
	summaryErr error
	entityErr  error
	searches   []string
}

func (f *fakeWikipedia) SearchPages(ctx context.Context, lang, query string, limit int) ([]wikipedia.Page, error) {
	f.searches = append(f.searches, lang+":"+query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.pages[query], nil
}

func (f *fakeWikipedia) Summary(ctx context.Context, lang, title string) (*wikipedia.Summary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeWikipedia) Entity(ctx context.Context, id string) (*wikipedia.Entity, error) {
	if f.entityErr != nil {
		return nil, f.entityErr
	}
	return f.entity, nil
}

func (f *fakeWikipedia) Labels(ctx context.Context, lang string, ids []string) (map[string]string, error) {
	return f.labels, nil
}

func starrySubject() model.Attribution {
	return model.Attribution{
		Title:   "The Starry Night",
		Creator: "Vincent van Gogh",
	}
}

func starryFake() *fakeWikipedia {
	summary := &wikipedia.Summary{
		Title:        "The Starry Night",
		Extract:      "The Starry Night is an oil-on-canvas painting by Vincent van Gogh, painted in June 1889.",
		WikibaseItem: "Q45585",
	}
	summary.ContentURLs.Desktop.Page = "https://en.wikipedia.org/wiki/The_Starry_Night"

	return &fakeWikipedia{
		pages: map[string][]wikipedia.Page{
			`"The Starry Night" by Vincent van Gogh`: {
				{Key: "The_Starry_Night", Title: "The Starry Night", Description: "1889 painting by Vincent van Gogh", Excerpt: "painting by Vincent van Gogh"},
			},
		},
		summary: summary,
		entity: &wikipedia.Entity{
			ID:            "Q45585",
			CreatorID:     "Q5582",
			LocationID:    "Q188740",
			MovementID:    "Q166713",
			InceptionYear: "1889",
		},
		labels: map[string]string{
			"Q5582":   "Vincent van Gogh",
			"Q188740": "Museum of Modern Art",
			"Q166713": "Post-Impressionism",
		},
	}
}

func TestWikipediaFetch(t *testing.T) {
	fake := starryFake()
	p := NewWikipedia(fake, "en")

	res, err := p.Fetch(context.Background(), starrySubject())
	require.NoError(t, err)

	fields := make(map[model.EvidenceField]string)
	for _, r := range res.Records {
		fields[r.Field] = r.Value
		assert.Equal(t, WikipediaName, r.SourceName)
		assert.Equal(t, "https://en.wikipedia.org/wiki/The_Starry_Night", r.SourceURL)
	}

	assert.Equal(t, "The Starry Night", fields[model.FieldTitle])
	assert.Contains(t, fields[model.FieldSummary], "June 1889")
	assert.Equal(t, "1889", fields[model.FieldDate])
	assert.Equal(t, "Vincent van Gogh", fields[model.FieldCreator])
	assert.Equal(t, "Museum of Modern Art", fields[model.FieldLocation])
	assert.Equal(t, "Post-Impressionism", fields[model.FieldStyle])
	assert.Equal(t, "https://en.wikipedia.org/wiki/The_Starry_Night", res.SourceURL)
}

func TestWikipediaFetchEntityFailureLosesOnlyStructuredFields(t *testing.T) {
	fake := starryFake()
	fake.entityErr = errors.New("wikidata down")
	p := NewWikipedia(fake, "en")

	res, err := p.Fetch(context.Background(), starrySubject())
	require.NoError(t, err)

	fields := make(map[model.EvidenceField]bool)
	for _, r := range res.Records {
		fields[r.Field] = true
	}
	assert.True(t, fields[model.FieldTitle])
	assert.True(t, fields[model.FieldSummary])
	assert.False(t, fields[model.FieldDate])
	assert.False(t, fields[model.FieldCreator])
}

func TestWikipediaFetchVariantCascade(t *testing.T) {
	fake := starryFake()
	// The full subject line finds nothing; the bare title does.
	fake.pages = map[string][]wikipedia.Page{
		"The Starry Night": {
			{Key: "The_Starry_Night", Title: "The Starry Night", Description: "1889 painting", Excerpt: "by Vincent van Gogh"},
		},
	}
	p := NewWikipedia(fake, "en")

	res, err := p.Fetch(context.Background(), starrySubject())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Records)
	require.GreaterOrEqual(t, len(fake.searches), 2)
	assert.Equal(t, `en:"The Starry Night" by Vincent van Gogh`, fake.searches[0])
	assert.Equal(t, "en:The Starry Night", fake.searches[1])
}

func TestWikipediaFetchSkipsDisambiguation(t *testing.T) {
	fake := starryFake()
	fake.pages = map[string][]wikipedia.Page{
		`"The Starry Night" by Vincent van Gogh`: {
			{Key: "Starry_Night", Title: "Starry Night", Description: "Wikimedia disambiguation page", Excerpt: "Starry Night Vincent van Gogh"},
		},
	}
	p := NewWikipedia(fake, "en")

	res, err := p.Fetch(context.Background(), starrySubject())
	require.NoError(t, err)
	// Only disambiguation hits: the cascade falls through and nothing is found.
	assert.Empty(t, res.Records)
}

func TestWikipediaFetchIrrelevantHitsScoreZero(t *testing.T) {
	fake := starryFake()
	fake.pages = map[string][]wikipedia.Page{
		`"The Starry Night" by Vincent van Gogh`: {
			{Key: "Banana", Title: "Banana", Description: "tropical fruit", Excerpt: "elongated edible fruit"},
		},
	}
	p := NewWikipedia(fake, "en")

	res, err := p.Fetch(context.Background(), starrySubject())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestWikipediaCircuitBreakerOpens(t *testing.T) {
	fake := starryFake()
	fake.searchErr = errors.New("503")
	p := NewWikipedia(fake, "en")

	for i := 0; i < 3; i++ {
		_, err := p.Fetch(context.Background(), starrySubject())
		require.Error(t, err)
	}

	// Fourth call fails fast without reaching the client.
	before := len(fake.searches)
	_, err := p.Fetch(context.Background(), starrySubject())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, before, len(fake.searches))
}
