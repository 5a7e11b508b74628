// Package cleveland is a client for the Cleveland Museum of Art Open Access API.
package cleveland

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

const defaultBaseURL = "https://openaccess-api.clevelandart.org"

// Client searches the Cleveland Museum of Art collection.
type Client interface {
	SearchTop(ctx context.Context, query string) (*Artwork, error)
}

// Artwork is the structured record for one artwork.
type Artwork struct {
	Title        string `json:"title"`
	CreationDate string `json:"creation_date"`
	Technique    string `json:"technique"`
	URL          string `json:"url"`
	Creators     []struct {
		Description string `json:"description"`
	} `json:"creators"`
	Culture []string `json:"culture"`
}

// CreatorName returns the first creator description with its parenthetical
// life dates stripped, e.g. "Vincent van Gogh (Dutch, 1853-1890)" → "Vincent van Gogh".
func (a *Artwork) CreatorName() string {
	if len(a.Creators) == 0 {
		return ""
	}
	desc := a.Creators[0].Description
	if idx := strings.Index(desc, "("); idx > 0 {
		desc = desc[:idx]
	}
	return strings.TrimSpace(desc)
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
	baseURL string
	http    *http.Client
}

// NewClient creates a Cleveland Museum of Art API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
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

// SearchTop returns the top-1 matching artwork, or (nil, nil) on no match.
func (c *httpClient) SearchTop(ctx context.Context, query string) (*Artwork, error) {
	u := fmt.Sprintf("%s/api/artworks/?q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "cleveland: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "cleveland: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "cleveland: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("cleveland: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Data []Artwork `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "cleveland: unmarshal response")
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}
