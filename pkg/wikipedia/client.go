// Package wikipedia is a read-only client for the Wikipedia REST APIs and the
// linked Wikidata entity store. It is the pipeline's primary knowledge source:
// multilingual, entity-linked, queried by free-text subject description.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultWikiBase = "https://%s.wikipedia.org"
	defaultDataBase = "https://www.wikidata.org"
)

// Wikidata property IDs for the artwork fields the pipeline corroborates.
const (
	propCreator   = "P170"
	propInception = "P571"
	propLocation  = "P276"
	propMovement  = "P135"
)

// Client performs read-only lookups against Wikipedia and Wikidata.
type Client interface {
	SearchPages(ctx context.Context, lang, query string, limit int) ([]Page, error)
	Summary(ctx context.Context, lang, title string) (*Summary, error)
	Entity(ctx context.Context, id string) (*Entity, error)
	Labels(ctx context.Context, lang string, ids []string) (map[string]string, error)
}

// Page is one search result.
type Page struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Excerpt     string `json:"excerpt"`
}

// Summary is the REST page summary, including the linked Wikidata item.
type Summary struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Extract      string `json:"extract"`
	WikibaseItem string `json:"wikibase_item"`
	ContentURLs  struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Entity holds the structured artwork claims of a Wikidata item. Creator,
// Location and Movement are item references that still need a label lookup;
// InceptionYear is resolved directly from the time claim.
type Entity struct {
	ID            string
	CreatorID     string
	LocationID    string
	MovementID    string
	InceptionYear string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURLs overrides the Wikipedia base URL pattern (one %s for the
// language code) and the Wikidata base URL.
func WithBaseURLs(wikiBase, dataBase string) Option {
	return func(c *httpClient) {
		c.wikiBase = wikiBase
		c.dataBase = dataBase
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	wikiBase string
	dataBase string
	http     *http.Client
}

// NewClient creates a Wikipedia/Wikidata client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		wikiBase: defaultWikiBase,
		dataBase: defaultDataBase,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) langBase(lang string) string {
	if strings.Contains(c.wikiBase, "%s") {
		return fmt.Sprintf(c.wikiBase, lang)
	}
	return c.wikiBase
}

func (c *httpClient) SearchPages(ctx context.Context, lang, query string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = 5
	}
	u := fmt.Sprintf("%s/w/rest.php/v1/search/page?q=%s&limit=%d",
		c.langBase(lang), url.QueryEscape(query), limit)

	var result struct {
		Pages []Page `json:"pages"`
	}
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, eris.Wrap(err, "wikipedia: search pages")
	}
	return result.Pages, nil
}

func (c *httpClient) Summary(ctx context.Context, lang, title string) (*Summary, error) {
	u := fmt.Sprintf("%s/api/rest_v1/page/summary/%s",
		c.langBase(lang), url.PathEscape(strings.ReplaceAll(title, " ", "_")))

	var result Summary
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, eris.Wrap(err, "wikipedia: page summary")
	}
	return &result, nil
}

// wbEntity mirrors the slice of the wbgetentities response we read.
type wbEntity struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datavalue struct {
				Value json.RawMessage `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
	Labels map[string]struct {
		Value string `json:"value"`
	} `json:"labels"`
}

func (c *httpClient) Entity(ctx context.Context, id string) (*Entity, error) {
	u := fmt.Sprintf("%s/w/api.php?action=wbgetentities&ids=%s&props=claims&format=json",
		c.dataBase, url.QueryEscape(id))

	var result struct {
		Entities map[string]wbEntity `json:"entities"`
	}
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, eris.Wrap(err, "wikipedia: get entity")
	}

	raw, ok := result.Entities[id]
	if !ok {
		return nil, eris.Errorf("wikipedia: entity %s not in response", id)
	}

	ent := &Entity{ID: id}
	ent.CreatorID = itemClaim(raw, propCreator)
	ent.LocationID = itemClaim(raw, propLocation)
	ent.MovementID = itemClaim(raw, propMovement)
	ent.InceptionYear = yearClaim(raw, propInception)
	return ent, nil
}

func (c *httpClient) Labels(ctx context.Context, lang string, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	u := fmt.Sprintf("%s/w/api.php?action=wbgetentities&ids=%s&props=labels&languages=%s&format=json",
		c.dataBase, url.QueryEscape(strings.Join(ids, "|")), url.QueryEscape(lang))

	var result struct {
		Entities map[string]wbEntity `json:"entities"`
	}
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, eris.Wrap(err, "wikipedia: get labels")
	}

	labels := make(map[string]string, len(ids))
	for id, ent := range result.Entities {
		if l, ok := ent.Labels[lang]; ok {
			labels[id] = l.Value
		}
	}
	return labels, nil
}

// itemClaim extracts the first wikibase-entityid value of a property.
func itemClaim(ent wbEntity, prop string) string {
	for _, cl := range ent.Claims[prop] {
		var v struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(cl.Mainsnak.Datavalue.Value, &v); err == nil && v.ID != "" {
			return v.ID
		}
	}
	return ""
}

// yearClaim extracts the year from the first time value of a property.
// Wikidata times look like "+1889-06-01T00:00:00Z".
func yearClaim(ent wbEntity, prop string) string {
	for _, cl := range ent.Claims[prop] {
		var v struct {
			Time string `json:"time"`
		}
		if err := json.Unmarshal(cl.Mainsnak.Datavalue.Value, &v); err != nil || v.Time == "" {
			continue
		}
		t := strings.TrimPrefix(v.Time, "+")
		if len(t) >= 4 {
			return t[:4]
		}
	}
	return ""
}

func (c *httpClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
