package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/textnorm"
	"github.com/sabitsky/hearitage/pkg/wikipedia"
)

// WikipediaName is the citation name of the primary source.
const WikipediaName = "Wikipedia"

// defaultLangs are the language editions searched concurrently per variant.
var defaultLangs = []string{"en", "fr"}

// Wikipedia is the primary knowledge provider: multilingual page search with
// a linked Wikidata entity fetch for structured fields.
type Wikipedia struct {
	client  wikipedia.Client
	langs   []string
	limiter *rate.Limiter
	breaker *circuitBreaker
}

// NewWikipedia creates the primary provider adapter.
// Includes a circuit breaker: 3 consecutive failures within 30s opens the
// circuit for 60s, so a degraded upstream stops eating the evidence budget.
func NewWikipedia(client wikipedia.Client, langs ...string) *Wikipedia {
	if len(langs) == 0 {
		langs = defaultLangs
	}
	return &Wikipedia{
		client:  client,
		langs:   langs,
		limiter: rate.NewLimiter(10, 10),
		breaker: newCircuitBreaker(WikipediaName, 3, 30*time.Second, 60*time.Second),
	}
}

func (p *Wikipedia) Name() string             { return WikipediaName }
func (p *Wikipedia) Tier() model.ProviderTier { return model.TierPrimary }

// queryVariants returns the search texts to try, in priority order: the full
// subject string, the bare title, then the title with a generic qualifier.
func queryVariants(subject model.Attribution) []string {
	var variants []string
	variants = append(variants, subject.SubjectLine())
	if !model.IsUnknown(subject.Title) {
		variants = append(variants, subject.Title, subject.Title+" painting")
	}
	return variants
}

// candidate is one scored search hit.
type candidate struct {
	page  wikipedia.Page
	lang  string
	score int
}

// Fetch runs the variant cascade and assembles evidence records from the best
// candidate's summary and linked entity.
func (p *Wikipedia) Fetch(ctx context.Context, subject model.Attribution) (Result, error) {
	if p.breaker.isOpen() {
		return Result{}, eris.New("wikipedia: circuit breaker open")
	}

	var best *candidate
	for _, variant := range queryVariants(subject) {
		c, err := p.searchVariant(ctx, variant, subject)
		if err != nil {
			p.breaker.recordFailure()
			return Result{}, err
		}
		if c != nil {
			best = c
			break
		}
	}
	if best == nil {
		p.breaker.recordSuccess()
		return Result{}, nil
	}

	res, err := p.collect(ctx, best)
	if err != nil {
		p.breaker.recordFailure()
		return Result{}, err
	}
	p.breaker.recordSuccess()
	return res, nil
}

// searchVariant queries every configured language edition concurrently and
// returns the best-scoring non-disambiguation candidate, or nil when the
// variant produced nothing relevant.
func (p *Wikipedia) searchVariant(ctx context.Context, query string, subject model.Attribution) (*candidate, error) {
	var mu sync.Mutex
	var found []candidate

	g, gCtx := errgroup.WithContext(ctx)
	for _, lang := range p.langs {
		g.Go(func() error {
			if err := p.limiter.Wait(gCtx); err != nil {
				return err
			}
			pages, err := p.client.SearchPages(gCtx, lang, query, 5)
			if err != nil {
				return err
			}
			for _, page := range pages {
				if isDisambiguation(page) {
					continue
				}
				score := scoreCandidate(page, subject)
				if score == 0 {
					continue
				}
				mu.Lock()
				found = append(found, candidate{page: page, lang: lang, score: score})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "wikipedia: search variant")
	}

	if len(found) == 0 {
		return nil, nil
	}
	best := found[0]
	for _, c := range found[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return &best, nil
}

func isDisambiguation(page wikipedia.Page) bool {
	return strings.Contains(strings.ToLower(page.Description), "disambiguation")
}

// scoreCandidate counts subject title/creator tokens appearing in the
// candidate's title and excerpt.
func scoreCandidate(page wikipedia.Page, subject model.Attribution) int {
	haystack := textnorm.Fold(page.Title + " " + page.Excerpt + " " + page.Description)
	score := 0
	for _, tok := range textnorm.Tokens(subject.Title) {
		if strings.Contains(haystack, tok) {
			score++
		}
	}
	for _, tok := range textnorm.Tokens(subject.Creator) {
		if strings.Contains(haystack, tok) {
			score++
		}
	}
	return score
}

// collect turns the winning candidate into evidence records: page summary
// first, then the linked Wikidata entity for structured fields. The entity
// fetch is best-effort; its failure only loses the structured records.
func (p *Wikipedia) collect(ctx context.Context, best *candidate) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	summary, err := p.client.Summary(ctx, best.lang, best.page.Key)
	if err != nil {
		return Result{}, eris.Wrap(err, "wikipedia: summary")
	}

	sourceURL := summary.ContentURLs.Desktop.Page
	var records []model.EvidenceRecord
	add := func(field model.EvidenceField, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		records = append(records, model.EvidenceRecord{
			Field:      field,
			Value:      value,
			SourceName: WikipediaName,
			SourceURL:  sourceURL,
			Confidence: model.EvidenceHigh,
		})
	}

	add(model.FieldTitle, summary.Title)
	add(model.FieldSummary, summary.Extract)

	if summary.WikibaseItem != "" {
		if err := p.addEntityRecords(ctx, summary.WikibaseItem, add); err != nil {
			zap.L().Debug("wikipedia: entity fetch failed",
				zap.String("item", summary.WikibaseItem),
				zap.Error(err),
			)
		}
	}

	return Result{Records: records, SourceURL: sourceURL}, nil
}

func (p *Wikipedia) addEntityRecords(ctx context.Context, itemID string, add func(model.EvidenceField, string)) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	ent, err := p.client.Entity(ctx, itemID)
	if err != nil {
		return err
	}

	add(model.FieldDate, ent.InceptionYear)

	var ids []string
	for _, id := range []string{ent.CreatorID, ent.LocationID, ent.MovementID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	labels, err := p.client.Labels(ctx, "en", ids)
	if err != nil {
		return err
	}

	add(model.FieldCreator, labels[ent.CreatorID])
	add(model.FieldLocation, labels[ent.LocationID])
	add(model.FieldStyle, labels[ent.MovementID])
	return nil
}
