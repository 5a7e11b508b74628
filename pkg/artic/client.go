// Package artic is a client for the Art Institute of Chicago public API.
package artic

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

const defaultBaseURL = "https://api.artic.edu"

const searchFields = "id,title,artist_display,date_display,place_of_origin,style_title,medium_display"

// Client searches the Art Institute of Chicago collection.
type Client interface {
	SearchTop(ctx context.Context, query string) (*Artwork, error)
}

// Artwork is the structured record for one artwork.
type Artwork struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ArtistDisplay string `json:"artist_display"`
	DateDisplay   string `json:"date_display"`
	PlaceOfOrigin string `json:"place_of_origin"`
	StyleTitle    string `json:"style_title"`
	MediumDisplay string `json:"medium_display"`
}

// WebURL returns the public page for the artwork.
func (a *Artwork) WebURL() string {
	return fmt.Sprintf("https://www.artic.edu/artworks/%d", a.ID)
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

// NewClient creates an Art Institute of Chicago API client.
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
	u := fmt.Sprintf("%s/api/v1/artworks/search?q=%s&limit=1&fields=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(searchFields))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "artic: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "artic: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "artic: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("artic: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Data []Artwork `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "artic: unmarshal response")
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}
