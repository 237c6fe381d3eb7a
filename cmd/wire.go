package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agency-os/research-core/internal/fallback"
	"github.com/agency-os/research-core/internal/model"
	"github.com/agency-os/research-core/internal/provider"
	"github.com/agency-os/research-core/internal/resilience"
	"github.com/agency-os/research-core/internal/store"
	"github.com/agency-os/research-core/pkg/duckduckgo"
	"github.com/agency-os/research-core/pkg/github"
	"github.com/agency-os/research-core/pkg/gsearch"
	"github.com/agency-os/research-core/pkg/npmregistry"
)

// chainOptions builds the shared chain behavior from config: per-call
// timeout, transient retry, and per-provider circuit breakers.
func chainOptions() []fallback.Option {
	opts := []fallback.Option{
		fallback.WithTimeout(time.Duration(cfg.Resolve.TimeoutSecs) * time.Second),
		fallback.WithBreakers(resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.Resolve.BreakerFailures,
			ResetTimeout:     time.Duration(cfg.Resolve.BreakerResetSecs) * time.Second,
		}),
	}
	if cfg.Resolve.Retries > 1 {
		retryCfg := resilience.DefaultRetryConfig()
		retryCfg.MaxAttempts = cfg.Resolve.Retries
		opts = append(opts, fallback.WithRetry(retryCfg))
	}
	return opts
}

func newMetadataChain() *fallback.Chain[model.LibraryQuery] {
	gh := github.NewClient(cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.GitHub.RatePerHr/3600), 1)),
	)
	npm := npmregistry.NewClient(
		npmregistry.WithBaseURL(cfg.NPM.BaseURL),
		npmregistry.WithDownloadsBaseURL(cfg.NPM.DownloadsBaseURL),
	)
	return provider.NewMetadataChain(gh, npm, chainOptions()...)
}

func newSearchChain() *fallback.Chain[model.SearchQuery] {
	g := gsearch.NewClient(cfg.Google.Key, cfg.Google.EngineID,
		gsearch.WithBaseURL(cfg.Google.BaseURL),
	)
	d := duckduckgo.NewClient(
		duckduckgo.WithBaseURL(cfg.DuckDuckGo.BaseURL),
	)
	return provider.NewSearchChain(g, d, chainOptions()...)
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// saveRun persists one batch resolution to the audit store.
func saveRun(ctx context.Context, kind model.RunKind, queries []string, results []*model.ProviderResult) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	run := &model.ResearchRun{Kind: kind, Queries: queries, Results: results}
	if err := st.SaveRun(ctx, run); err != nil {
		return err
	}
	zap.L().Info("run saved",
		zap.String("run_id", run.ID),
		zap.String("kind", string(kind)),
	)
	return nil
}
