// Package npmregistry provides a client for the public npm registry and its
// downloads API.
package npmregistry

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

const (
	defaultBaseURL          = "https://registry.npmjs.org"
	defaultDownloadsBaseURL = "https://api.npmjs.org"
)

// Client performs npm registry operations.
type Client interface {
	// PackageInfo fetches package metadata plus last-week download counts.
	PackageInfo(ctx context.Context, name string) (*Package, error)
}

// Package is the normalized registry view of one package.
type Package struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Maintainers     []string `json:"maintainers,omitempty"`
	DownloadsWeekly int      `json:"downloads_weekly"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default registry base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithDownloadsBaseURL overrides the downloads API base URL.
func WithDownloadsBaseURL(url string) Option {
	return func(c *httpClient) {
		c.downloadsBaseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL          string
	downloadsBaseURL string
	http             *http.Client
}

// NewClient creates an npm registry client. The registry is unauthenticated.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:          defaultBaseURL,
		downloadsBaseURL: defaultDownloadsBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type registryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Maintainers []struct {
		Name string `json:"name"`
	} `json:"maintainers"`
}

type downloadsResponse struct {
	Downloads int    `json:"downloads"`
	Package   string `json:"package"`
}

func (c *httpClient) PackageInfo(ctx context.Context, name string) (*Package, error) {
	var reg registryResponse
	if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(name), name, &reg); err != nil {
		return nil, err
	}

	pkg := &Package{
		Name:        reg.Name,
		Description: reg.Description,
	}
	for _, m := range reg.Maintainers {
		pkg.Maintainers = append(pkg.Maintainers, m.Name)
	}

	// Downloads are a secondary signal; a failure here fails the whole call
	// so the chain can report a coherent cause rather than half a payload.
	var dl downloadsResponse
	if err := c.getJSON(ctx, c.downloadsBaseURL+"/downloads/point/last-week/"+url.PathEscape(name), name, &dl); err != nil {
		return nil, err
	}
	pkg.DownloadsWeekly = dl.Downloads

	return pkg, nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint, pkg string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return eris.Wrap(err, "npm: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "npm: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "npm: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return eris.Errorf("npm: package not found (404): %s", pkg)
	default:
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(
				eris.Errorf("npm: server error (status %d): %s", resp.StatusCode, pkg),
				resp.StatusCode,
			)
		}
		return eris.Errorf("npm: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "npm: unmarshal response")
	}
	return nil
}
