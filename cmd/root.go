package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agency-os/research-core/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "research-core",
	Short: "Resilient research data acquisition and quality gating",
	Long:  "Resolves library metadata and competitor search queries through ranked provider fallback chains, and gates research artifacts with risk-adaptive quality thresholds.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
