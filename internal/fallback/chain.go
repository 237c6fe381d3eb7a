// Package fallback implements ordered provider chains with graceful
// degradation: providers are tried strictly in priority order, the first
// success wins, and an exhausted chain returns an actionable manual-check
// placeholder instead of an error.
package fallback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agency-os/research-core/internal/model"
	"github.com/agency-os/research-core/internal/resilience"
)

// Provider is one external data source in a chain. Fetch returns the
// provider-specific payload, or an error describing why the provider could
// not answer. An empty payload from a successful call is a success: the
// chain falls back on provider failure only, never on the business meaning
// of the returned data.
type Provider[Q fmt.Stringer] interface {
	Name() string
	Fetch(ctx context.Context, query Q) (map[string]any, error)
}

// TerminalFunc builds the manual-action placeholder returned when every
// provider in the chain has failed. cause is the last provider's failure and
// may be nil only if the chain was built with no providers.
type TerminalFunc[Q fmt.Stringer] func(query Q, cause error) *model.ProviderResult

// Chain resolves queries through an ordered provider list. It is safe for
// concurrent use: Resolve touches no state shared across calls.
type Chain[Q fmt.Stringer] struct {
	name      string
	providers []Provider[Q]
	terminal  TerminalFunc[Q]
	timeout   time.Duration
	retry     *resilience.RetryConfig
	breakers  []*resilience.CircuitBreaker
	log       *zap.Logger
}

type options struct {
	timeout time.Duration
	retry   *resilience.RetryConfig
	breaker *resilience.CircuitBreakerConfig
	log     *zap.Logger
}

// Option configures a Chain.
type Option func(*options)

// WithTimeout bounds each provider invocation. A timed-out provider is
// treated exactly as a failed one. Default: 15s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry re-attempts transient provider errors before declaring the tier
// failed and moving on.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(o *options) { o.retry = &cfg }
}

// WithBreakers gives each provider its own circuit breaker. An open breaker
// counts as a provider failure and the chain moves to the next tier without
// waiting on a known-bad endpoint.
func WithBreakers(cfg resilience.CircuitBreakerConfig) Option {
	return func(o *options) { o.breaker = &cfg }
}

// WithLogger sets the diagnostic sink for per-provider failure causes.
// Defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New creates a Chain. Providers are tried in the order given; terminal
// builds the placeholder for the exhausted case and must never return nil.
func New[Q fmt.Stringer](name string, providers []Provider[Q], terminal TerminalFunc[Q], opts ...Option) *Chain[Q] {
	o := options{timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Chain[Q]{
		name:      name,
		providers: providers,
		terminal:  terminal,
		timeout:   o.timeout,
		retry:     o.retry,
		log:       o.log,
	}
	if c.log == nil {
		c.log = zap.L()
	}
	if o.breaker != nil {
		c.breakers = make([]*resilience.CircuitBreaker, len(providers))
		for i := range providers {
			c.breakers[i] = resilience.NewCircuitBreaker(*o.breaker)
		}
	}
	return c
}

// Resolve runs the query down the chain. The returned result is never nil
// and no provider failure ever escapes to the caller: it is either a
// provider payload tagged with that tier's reliability, or the terminal
// manual placeholder. A non-primary success carries the immediately
// preceding failure's cause verbatim as FallbackReason.
func (c *Chain[Q]) Resolve(ctx context.Context, query Q) *model.ProviderResult {
	var lastErr error
	for tier, p := range c.providers {
		payload, err := c.call(ctx, tier, p, query)
		if err != nil {
			c.log.Warn("fallback: provider failed",
				zap.String("chain", c.name),
				zap.String("provider", p.Name()),
				zap.String("query", query.String()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		res := &model.ProviderResult{
			Source:      p.Name(),
			Reliability: model.ReliabilityForTier(tier),
			Payload:     payload,
		}
		if tier > 0 && lastErr != nil {
			res.FallbackReason = lastErr.Error()
		}
		return res
	}

	c.log.Warn("fallback: chain exhausted",
		zap.String("chain", c.name),
		zap.String("query", query.String()),
		zap.Error(lastErr),
	)
	return c.terminal(query, lastErr)
}

// ResolveAll resolves queries concurrently, bounded by maxConcurrent
// (unbounded when <= 0). The returned slice has the same length and order
// as the input regardless of completion timing; one item exhausting its
// chain never aborts the batch.
func (c *Chain[Q]) ResolveAll(ctx context.Context, queries []Q, maxConcurrent int) []*model.ProviderResult {
	results := make([]*model.ProviderResult, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}

	for i, q := range queries {
		g.Go(func() error {
			results[i] = c.Resolve(gCtx, q)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// call invokes one provider with the per-call timeout, retry policy, and
// circuit breaker applied.
func (c *Chain[Q]) call(ctx context.Context, tier int, p Provider[Q], query Q) (map[string]any, error) {
	fetch := func(ctx context.Context) (map[string]any, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return p.Fetch(callCtx, query)
	}

	run := fetch
	if c.retry != nil {
		cfg := *c.retry
		if cfg.OnRetry == nil {
			cfg.OnRetry = resilience.RetryLogger(p.Name(), c.name)
		}
		run = func(ctx context.Context) (map[string]any, error) {
			return resilience.DoVal(ctx, cfg, fetch)
		}
	}

	if c.breakers != nil {
		return resilience.ExecuteVal(ctx, c.breakers[tier], run)
	}
	return run(ctx)
}
