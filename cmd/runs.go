package main

import (
	"github.com/spf13/cobra"

	"github.com/agency-os/research-core/internal/metrics"
	"github.com/agency-os/research-core/internal/model"
	"github.com/agency-os/research-core/internal/store"
)

var (
	runsKind  string
	runsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted research runs with their fallback metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Kind:  model.RunKind(runsKind),
			Limit: runsLimit,
		})
		if err != nil {
			return err
		}

		type runView struct {
			model.ResearchRun
			Metrics metrics.Summary `json:"metrics"`
		}
		views := make([]runView, len(runs))
		for i, r := range runs {
			views[i] = runView{ResearchRun: r, Metrics: metrics.Summarize(r.Results)}
		}

		return printJSON(views)
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "filter by run kind (libraries, search)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
