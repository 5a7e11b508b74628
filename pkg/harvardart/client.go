// Package harvardart is a client for the Harvard Art Museums API.
// Unlike the other catalogs it requires an API key.
package harvardart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.harvardartmuseums.org"

// Client searches the Harvard Art Museums collection.
type Client interface {
	SearchTop(ctx context.Context, query string) (*Artwork, error)
}

// Artwork is the structured record for one object.
type Artwork struct {
	Title          string `json:"title"`
	Dated          string `json:"dated"`
	Culture        string `json:"culture"`
	Classification string `json:"classification"`
	Technique      string `json:"technique"`
	URL            string `json:"url"`
	People         []struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"people"`
}

// ArtistName returns the first person in the Artist role, falling back to the
// first listed person.
func (a *Artwork) ArtistName() string {
	for _, p := range a.People {
		if p.Role == "Artist" {
			return p.Name
		}
	}
	if len(a.People) > 0 {
		return a.People[0].Name
	}
	return ""
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Harvard Art Museums API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchTop returns the top-1 matching object, or (nil, nil) on no match.
func (c *httpClient) SearchTop(ctx context.Context, query string) (*Artwork, error) {
	u := fmt.Sprintf("%s/object?apikey=%s&q=%s&size=1&sort=rank&sortorder=desc",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "harvardart: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "harvardart: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "harvardart: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("harvardart: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Records []Artwork `json:"records"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "harvardart: unmarshal response")
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	return &result.Records[0], nil
}
