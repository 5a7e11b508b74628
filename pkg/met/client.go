// Package met is a client for The Metropolitan Museum of Art Collection API.
package met

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

const defaultBaseURL = "https://collectionapi.metmuseum.org"

// Client searches the Met open-access collection.
type Client interface {
	SearchTop(ctx context.Context, query string) (*Artwork, error)
}

// Artwork is the structured record for one collection object.
type Artwork struct {
	Title      string `json:"title"`
	Artist     string `json:"artistDisplayName"`
	ObjectDate string `json:"objectDate"`
	Medium     string `json:"medium"`
	Culture    string `json:"culture"`
	Department string `json:"department"`
	ObjectURL  string `json:"objectURL"`
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

// NewClient creates a Met Collection API client.
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

// SearchTop returns the first matching object, or (nil, nil) when the search
// finds nothing.
func (c *httpClient) SearchTop(ctx context.Context, query string) (*Artwork, error) {
	searchURL := fmt.Sprintf("%s/public/collection/v1/search?hasImages=true&q=%s",
		c.baseURL, url.QueryEscape(query))

	var search struct {
		Total     int   `json:"total"`
		ObjectIDs []int `json:"objectIDs"`
	}
	if err := c.getJSON(ctx, searchURL, &search); err != nil {
		return nil, eris.Wrap(err, "met: search")
	}
	if search.Total == 0 || len(search.ObjectIDs) == 0 {
		return nil, nil
	}

	objectURL := fmt.Sprintf("%s/public/collection/v1/objects/%d", c.baseURL, search.ObjectIDs[0])
	var art Artwork
	if err := c.getJSON(ctx, objectURL, &art); err != nil {
		return nil, eris.Wrap(err, "met: get object")
	}
	return &art, nil
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
		return eris.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
