package provider

import (
	"context"
	"fmt"

	"github.com/agency-os/research-core/internal/fallback"
	"github.com/agency-os/research-core/internal/model"
	"github.com/agency-os/research-core/pkg/duckduckgo"
	"github.com/agency-os/research-core/pkg/gsearch"
)

// Source identifiers for the search chain.
const (
	SourceGoogle     = "google_custom_search"
	SourceDuckDuckGo = "duckduckgo"
)

// GoogleSearchProvider serves the paid, quota-limited search tier.
type GoogleSearchProvider struct {
	client gsearch.Client
}

// NewGoogleSearchProvider wraps a Custom Search client as a chain provider.
func NewGoogleSearchProvider(c gsearch.Client) *GoogleSearchProvider {
	return &GoogleSearchProvider{client: c}
}

func (p *GoogleSearchProvider) Name() string { return SourceGoogle }

func (p *GoogleSearchProvider) Fetch(ctx context.Context, q model.SearchQuery) (map[string]any, error) {
	resp, err := p.client.Search(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	// Zero hits is still a successful answer; only provider failure
	// triggers fallback.
	hits := make([]model.SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, model.SearchHit{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return map[string]any{"results": hits}, nil
}

// DuckDuckGoProvider serves the unauthenticated search tier.
type DuckDuckGoProvider struct {
	client duckduckgo.Client
}

// NewDuckDuckGoProvider wraps a DuckDuckGo client as a chain provider.
func NewDuckDuckGoProvider(c duckduckgo.Client) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{client: c}
}

func (p *DuckDuckGoProvider) Name() string { return SourceDuckDuckGo }

func (p *DuckDuckGoProvider) Fetch(ctx context.Context, q model.SearchQuery) (map[string]any, error) {
	resp, err := p.client.Search(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	hits := make([]model.SearchHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, model.SearchHit{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Text,
		})
	}
	return map[string]any{"results": hits}, nil
}

// ManualSearchResult is the terminal placeholder for the search chain. The
// instructions reference the literal query string so a human can run the
// search without re-deriving context.
func ManualSearchResult(q model.SearchQuery, cause error) *model.ProviderResult {
	res := &model.ProviderResult{
		Source:      model.SourceManualSearch,
		Reliability: model.ReliabilityLow,
		Payload: map[string]any{
			"results":         []model.SearchHit{},
			"search_keywords": q.Text,
			"status":          model.StatusAPIUnavailable,
		},
		ManualInstructions: []string{
			fmt.Sprintf("Search the web manually for %q.", q.Text),
			"Record the top 5-10 relevant results: title, URL, one-line summary.",
			fmt.Sprintf("Check product directories (G2, Capterra) for %q.", q.Text),
		},
	}
	if cause != nil {
		res.FallbackReason = cause.Error()
	}
	return res
}

// NewSearchChain assembles the competitor search chain.
func NewSearchChain(g gsearch.Client, d duckduckgo.Client, opts ...fallback.Option) *fallback.Chain[model.SearchQuery] {
	return fallback.New("competitor_search",
		[]fallback.Provider[model.SearchQuery]{
			NewGoogleSearchProvider(g),
			NewDuckDuckGoProvider(d),
		},
		ManualSearchResult,
		opts...,
	)
}
