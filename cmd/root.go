package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dealscope",
	Short: "Deep research reports on private-equity deals",
	Long:  "Loads a catalog of investor portfolios and deals, assembles research prompts per report type, and forwards them to an external deep-research agent.",
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
