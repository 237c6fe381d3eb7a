// Package provider adapts external API clients to the fallback chain's
// provider capability and assembles the two concrete chains: library
// metadata (github_api → npm_registry → manual) and competitor search
// (google_custom_search → duckduckgo → manual).
package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agency-os/research-core/internal/fallback"
	"github.com/agency-os/research-core/internal/model"
	"github.com/agency-os/research-core/pkg/github"
	"github.com/agency-os/research-core/pkg/npmregistry"
)

// Source identifiers for the metadata chain.
const (
	SourceGitHub = "github_api"
	SourceNPM    = "npm_registry"
)

// npmProxyNote explains why npm figures stand in for repository stats.
const npmProxyNote = "GitHub metrics unavailable - using npm data as proxy"

// GitHubProvider serves repository statistics as the primary metadata tier.
type GitHubProvider struct {
	client github.Client
}

// NewGitHubProvider wraps a GitHub client as a chain provider.
func NewGitHubProvider(c github.Client) *GitHubProvider {
	return &GitHubProvider{client: c}
}

func (p *GitHubProvider) Name() string { return SourceGitHub }

func (p *GitHubProvider) Fetch(ctx context.Context, q model.LibraryQuery) (map[string]any, error) {
	owner, repo, err := ParseRepoURL(q.RepoURL)
	if err != nil {
		return nil, err
	}

	stats, err := p.client.RepoStats(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"stars":    stats.Stars,
		"watchers": stats.Watchers,
		"forks":    stats.Forks,
		"language": stats.Language,
	}
	if !stats.LastUpdated.IsZero() {
		payload["last_updated"] = stats.LastUpdated.UTC().Format(time.RFC3339)
	}
	return payload, nil
}

// NPMProvider serves package-registry statistics as a proxy signal when the
// primary tier is unavailable.
type NPMProvider struct {
	client npmregistry.Client
}

// NewNPMProvider wraps an npm registry client as a chain provider.
func NewNPMProvider(c npmregistry.Client) *NPMProvider {
	return &NPMProvider{client: c}
}

func (p *NPMProvider) Name() string { return SourceNPM }

func (p *NPMProvider) Fetch(ctx context.Context, q model.LibraryQuery) (map[string]any, error) {
	pkg, err := p.client.PackageInfo(ctx, strings.ToLower(q.Name))
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"package_name":     pkg.Name,
		"downloads_weekly": pkg.DownloadsWeekly,
		"maintainers":      pkg.Maintainers,
		"note":             npmProxyNote,
	}, nil
}

// ParseRepoURL extracts owner and repo from a source-control host URL.
// Malformed input returns an error so the chain degrades to the next tier
// instead of crashing.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	u, perr := url.Parse(raw)
	if perr != nil || u.Host == "" {
		return "", "", eris.Errorf("provider: unparseable repository url: %q", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", eris.Errorf("provider: repository url missing owner/repo: %q", raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// ManualLibraryResult is the terminal placeholder for the metadata chain.
// Numeric fields carry the explicit UNKNOWN sentinel (zero is a valid count
// and must not be confused with "unmeasured") and the verification steps
// reference the original query so a human can act without re-deriving
// context.
func ManualLibraryResult(q model.LibraryQuery, cause error) *model.ProviderResult {
	payload := map[string]any{
		"stars":            model.UnknownValue,
		"watchers":         model.UnknownValue,
		"forks":            model.UnknownValue,
		"downloads_weekly": model.UnknownValue,
		"status":           model.StatusAPIUnavailable,
	}

	res := &model.ProviderResult{
		Source:      model.SourceManualCheck,
		Reliability: model.ReliabilityLow,
		Payload:     payload,
	}
	if cause != nil {
		res.FallbackReason = cause.Error()
		if isNotFound(cause) {
			payload["error"] = "repository_not_found"
		}
	}

	if q.RepoURL != "" {
		res.HowToVerify = append(res.HowToVerify,
			fmt.Sprintf("Open %s and record stars, watchers, and forks.", q.RepoURL))
	} else {
		res.HowToVerify = append(res.HowToVerify,
			fmt.Sprintf("Search github.com for %q and record stars, watchers, and forks.", q.Name))
	}
	res.HowToVerify = append(res.HowToVerify,
		fmt.Sprintf("Search npmjs.com for %q and record weekly downloads.", q.Name),
		fmt.Sprintf("Check the last commit date to confirm %s is actively maintained.", q.Name),
	)
	return res
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}

// NewMetadataChain assembles the library metadata chain.
func NewMetadataChain(gh github.Client, npm npmregistry.Client, opts ...fallback.Option) *fallback.Chain[model.LibraryQuery] {
	return fallback.New("library_metadata",
		[]fallback.Provider[model.LibraryQuery]{
			NewGitHubProvider(gh),
			NewNPMProvider(npm),
		},
		ManualLibraryResult,
		opts...,
	)
}
