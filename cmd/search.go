package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agency-os/research-core/internal/metrics"
	"github.com/agency-os/research-core/internal/model"
)

var searchSave bool

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Resolve competitor search queries through the fallback chain",
	Long:  "Runs each query through google_custom_search → duckduckgo → manual placeholder. Zero hits from a reachable provider is a success, not a fallback trigger.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queries := make([]model.SearchQuery, len(args))
		for i, a := range args {
			if a == "" {
				return eris.New("search: empty query")
			}
			queries[i] = model.SearchQuery{Text: a}
		}

		ctx := cmd.Context()
		chain := newSearchChain()
		results := chain.ResolveAll(ctx, queries, cfg.Resolve.MaxConcurrent)
		summary := metrics.Summarize(results)

		zap.L().Info("competitor search resolved",
			zap.Int("total", summary.Total),
			zap.String("fallback_rate", summary.FallbackRate),
		)

		if searchSave {
			if err := saveRun(ctx, model.RunKindSearch, queryStrings(queries), results); err != nil {
				return err
			}
		}

		return printJSON(struct {
			Results []*model.ProviderResult `json:"results"`
			Metrics metrics.Summary         `json:"metrics"`
		}{results, summary})
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "persist the run to the audit store")
	rootCmd.AddCommand(searchCmd)
}
