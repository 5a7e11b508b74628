package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/textnorm"
	"github.com/sabitsky/hearitage/pkg/artic"
	"github.com/sabitsky/hearitage/pkg/cleveland"
	"github.com/sabitsky/hearitage/pkg/harvardart"
	"github.com/sabitsky/hearitage/pkg/met"
)

// Institution names as cited in evidence records and source lists.
const (
	MetName       = "The Metropolitan Museum of Art"
	ArticName     = "Art Institute of Chicago"
	ClevelandName = "Cleveland Museum of Art"
	HarvardName   = "Harvard Art Museums"
)

// searchQuery renders the free-text query secondary catalogs are searched with.
func searchQuery(subject model.Attribution) string {
	parts := make([]string, 0, 2)
	if !model.IsUnknown(subject.Title) {
		parts = append(parts, subject.Title)
	}
	if !model.IsUnknown(subject.Creator) {
		parts = append(parts, subject.Creator)
	}
	return strings.Join(parts, " ")
}

// recordSet accumulates evidence records for one provider, collapsing
// duplicates case/diacritics-insensitively and dropping empty values.
type recordSet struct {
	source  string
	url     string
	seen    map[string]bool
	records []model.EvidenceRecord
}

func newRecordSet(source, url string) *recordSet {
	return &recordSet{source: source, url: url, seen: make(map[string]bool)}
}

func (rs *recordSet) add(field model.EvidenceField, value string, conf model.EvidenceConfidence) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	key := string(field) + "|" + textnorm.Fold(value)
	if rs.seen[key] {
		return
	}
	rs.seen[key] = true
	rs.records = append(rs.records, model.EvidenceRecord{
		Field:      field,
		Value:      value,
		SourceName: rs.source,
		SourceURL:  rs.url,
		Confidence: conf,
	})
}

// Met corroborates against The Metropolitan Museum of Art Collection API.
type Met struct {
	client  met.Client
	limiter *rate.Limiter
}

// NewMet creates the Met adapter.
func NewMet(client met.Client) *Met {
	return &Met{client: client, limiter: rate.NewLimiter(5, 5)}
}

func (p *Met) Name() string             { return MetName }
func (p *Met) Tier() model.ProviderTier { return model.TierSecondary }

func (p *Met) Fetch(ctx context.Context, subject model.Attribution) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	art, err := p.client.SearchTop(ctx, searchQuery(subject))
	if err != nil {
		return Result{}, eris.Wrap(err, "provider: met search")
	}
	if art == nil {
		return Result{}, nil
	}

	rs := newRecordSet(MetName, art.ObjectURL)
	rs.add(model.FieldTitle, art.Title, model.EvidenceMedium)
	rs.add(model.FieldCreator, art.Artist, model.EvidenceMedium)
	rs.add(model.FieldDate, art.ObjectDate, model.EvidenceMedium)
	rs.add(model.FieldLocation, MetName, model.EvidenceMedium)
	if art.Culture != "" {
		rs.add(model.FieldStyle, art.Culture, model.EvidenceLow)
	} else {
		rs.add(model.FieldStyle, art.Medium, model.EvidenceLow)
	}
	return Result{Records: rs.records, SourceURL: art.ObjectURL}, nil
}

// Artic corroborates against the Art Institute of Chicago API.
type Artic struct {
	client  artic.Client
	limiter *rate.Limiter
}

// NewArtic creates the Art Institute of Chicago adapter.
func NewArtic(client artic.Client) *Artic {
	return &Artic{client: client, limiter: rate.NewLimiter(5, 5)}
}

func (p *Artic) Name() string             { return ArticName }
func (p *Artic) Tier() model.ProviderTier { return model.TierSecondary }

func (p *Artic) Fetch(ctx context.Context, subject model.Attribution) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	art, err := p.client.SearchTop(ctx, searchQuery(subject))
	if err != nil {
		return Result{}, eris.Wrap(err, "provider: artic search")
	}
	if art == nil {
		return Result{}, nil
	}

	rs := newRecordSet(ArticName, art.WebURL())
	rs.add(model.FieldTitle, art.Title, model.EvidenceMedium)
	// artist_display is multiline ("Vincent van Gogh\nDutch, 1853-1890");
	// only the first line names the artist.
	artist := art.ArtistDisplay
	if idx := strings.IndexByte(artist, '\n'); idx > 0 {
		artist = artist[:idx]
	}
	rs.add(model.FieldCreator, artist, model.EvidenceMedium)
	rs.add(model.FieldDate, art.DateDisplay, model.EvidenceMedium)
	rs.add(model.FieldLocation, ArticName, model.EvidenceMedium)
	rs.add(model.FieldStyle, art.StyleTitle, model.EvidenceMedium)
	return Result{Records: rs.records, SourceURL: art.WebURL()}, nil
}

// Cleveland corroborates against the Cleveland Museum of Art Open Access API.
type Cleveland struct {
	client  cleveland.Client
	limiter *rate.Limiter
}

// NewCleveland creates the Cleveland Museum of Art adapter.
func NewCleveland(client cleveland.Client) *Cleveland {
	return &Cleveland{client: client, limiter: rate.NewLimiter(5, 5)}
}

func (p *Cleveland) Name() string             { return ClevelandName }
func (p *Cleveland) Tier() model.ProviderTier { return model.TierSecondary }

func (p *Cleveland) Fetch(ctx context.Context, subject model.Attribution) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	art, err := p.client.SearchTop(ctx, searchQuery(subject))
	if err != nil {
		return Result{}, eris.Wrap(err, "provider: cleveland search")
	}
	if art == nil {
		return Result{}, nil
	}

	rs := newRecordSet(ClevelandName, art.URL)
	rs.add(model.FieldTitle, art.Title, model.EvidenceMedium)
	rs.add(model.FieldCreator, art.CreatorName(), model.EvidenceMedium)
	rs.add(model.FieldDate, art.CreationDate, model.EvidenceMedium)
	rs.add(model.FieldLocation, ClevelandName, model.EvidenceMedium)
	if len(art.Culture) > 0 {
		rs.add(model.FieldStyle, art.Culture[0], model.EvidenceLow)
	} else {
		rs.add(model.FieldStyle, art.Technique, model.EvidenceLow)
	}
	return Result{Records: rs.records, SourceURL: art.URL}, nil
}

// Harvard corroborates against the Harvard Art Museums API. Registered only
// when an API key is configured.
type Harvard struct {
	client  harvardart.Client
	limiter *rate.Limiter
}

// NewHarvard creates the Harvard Art Museums adapter.
func NewHarvard(client harvardart.Client) *Harvard {
	return &Harvard{client: client, limiter: rate.NewLimiter(5, 5)}
}

func (p *Harvard) Name() string             { return HarvardName }
func (p *Harvard) Tier() model.ProviderTier { return model.TierSecondary }

func (p *Harvard) Fetch(ctx context.Context, subject model.Attribution) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	art, err := p.client.SearchTop(ctx, searchQuery(subject))
	if err != nil {
		return Result{}, eris.Wrap(err, "provider: harvardart search")
	}
	if art == nil {
		return Result{}, nil
	}

	rs := newRecordSet(HarvardName, art.URL)
	rs.add(model.FieldTitle, art.Title, model.EvidenceMedium)
	rs.add(model.FieldCreator, art.ArtistName(), model.EvidenceMedium)
	rs.add(model.FieldDate, art.Dated, model.EvidenceMedium)
	rs.add(model.FieldLocation, HarvardName, model.EvidenceMedium)
	if art.Culture != "" {
		rs.add(model.FieldStyle, art.Culture, model.EvidenceLow)
	} else {
		rs.add(model.FieldStyle, art.Technique, model.EvidenceLow)
	}
	return Result{Records: rs.records, SourceURL: art.URL}, nil
}
