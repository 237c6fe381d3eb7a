// Package github provides a minimal client for the GitHub repository
// statistics API.
package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/agency-os/research-core/internal/resilience"
)

const defaultBaseURL = "https://api.github.com"

// Client performs GitHub API operations.
type Client interface {
	// RepoStats fetches repository statistics for owner/repo.
	RepoStats(ctx context.Context, owner, repo string) (*RepoStats, error)
}

// RepoStats is the subset of the repository response the research engine
// reads.
type RepoStats struct {
	FullName    string    `json:"full_name"`
	Stars       int       `json:"stargazers_count"`
	Watchers    int       `json:"subscribers_count"`
	Forks       int       `json:"forks_count"`
	LastUpdated time.Time `json:"pushed_at"`
	Language    string    `json:"language"`
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

// WithRateLimit installs a client-side limiter. Unauthenticated GitHub
// allows 60 requests/hour, so the default is deliberately conservative.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a GitHub API client. token may be empty for
// unauthenticated access.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
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

func (c *httpClient) RepoStats(ctx context.Context, owner, repo string) (*RepoStats, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "github: rate limiter wait")
		}
	}

	url := c.baseURL + "/repos/" + owner + "/" + repo
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "github: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "github: read response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, eris.Errorf("github: repository not found (404): %s/%s", owner, repo)
	case resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "rate limit"):
		return nil, eris.Errorf("github: rate limit exceeded (status 403): %s/%s", owner, repo)
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("github: server error (status %d): %s/%s", resp.StatusCode, owner, repo),
			resp.StatusCode,
		)
	default:
		return nil, eris.Errorf("github: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var stats RepoStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, eris.Wrap(err, "github: unmarshal response")
	}

	return &stats, nil
}
