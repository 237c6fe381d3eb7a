// Package duckduckgo provides a client for the unauthenticated DuckDuckGo
// Instant Answer API.
package duckduckgo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agency-os/research-core/internal/resilience"
)

const defaultBaseURL = "https://api.duckduckgo.com"

// Client performs DuckDuckGo search operations.
type Client interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResponse is the normalized Instant Answer response.
type SearchResponse struct {
	Results []Result `json:"results"`
}

// Result is a single related-topic hit.
type Result struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Text  string `json:"text"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a DuckDuckGo client. The API requires no credentials.
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

type instantAnswerResponse struct {
	Heading       string `json:"Heading"`
	AbstractURL   string `json:"AbstractURL"`
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		FirstURL string `json:"FirstURL"`
		Text     string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("duckduckgo: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var raw instantAnswerResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "duckduckgo: unmarshal response")
	}

	out := &SearchResponse{}
	if raw.Heading != "" && raw.AbstractURL != "" {
		out.Results = append(out.Results, Result{
			Title: raw.Heading,
			Link:  raw.AbstractURL,
			Text:  raw.AbstractText,
		})
	}
	for _, t := range raw.RelatedTopics {
		if t.FirstURL == "" {
			continue
		}
		out.Results = append(out.Results, Result{
			Title: t.Text,
			Link:  t.FirstURL,
			Text:  t.Text,
		})
	}

	return out, nil
}
