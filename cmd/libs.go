package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/agency-os/research-core/internal/metrics"
	"github.com/agency-os/research-core/internal/model"
)

var (
	libsFile string
	libsSave bool
)

var libsCmd = &cobra.Command{
	Use:   "libs",
	Short: "Resolve library metadata through the provider fallback chain",
	Long:  "Reads a YAML list of libraries and resolves each through github_api → npm_registry → manual placeholder. One library's failure never aborts the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, err := loadLibraries(libsFile)
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			return eris.Errorf("libs: no libraries in %s", libsFile)
		}

		ctx := cmd.Context()
		chain := newMetadataChain()
		results := chain.ResolveAll(ctx, queries, cfg.Resolve.MaxConcurrent)
		summary := metrics.Summarize(results)

		zap.L().Info("library metadata resolved",
			zap.Int("total", summary.Total),
			zap.Int("primary", summary.Primary),
			zap.Int("fallback", summary.Fallback),
			zap.Int("manual", summary.Manual),
			zap.String("fallback_rate", summary.FallbackRate),
		)

		if libsSave {
			if err := saveRun(ctx, model.RunKindLibraries, queryStrings(queries), results); err != nil {
				return err
			}
		}

		return printJSON(struct {
			Results []*model.ProviderResult `json:"results"`
			Metrics metrics.Summary         `json:"metrics"`
		}{results, summary})
	},
}

func loadLibraries(path string) ([]model.LibraryQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "libs: read %s", path)
	}

	var doc struct {
		Libraries []model.LibraryQuery `yaml:"libraries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "libs: parse %s", path)
	}
	return doc.Libraries, nil
}

func queryStrings[Q interface{ String() string }](queries []Q) []string {
	out := make([]string, len(queries))
	for i, q := range queries {
		out[i] = q.String()
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	libsCmd.Flags().StringVar(&libsFile, "file", "libraries.yaml", "YAML file listing libraries (name, repo_url)")
	libsCmd.Flags().BoolVar(&libsSave, "save", false, "persist the run to the audit store")
	rootCmd.AddCommand(libsCmd)
}
