package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "liftopt",
	Short: "Gas-lift and choke production optimization",
	Long:  "Generates synthetic well-response data, fits production models for gas injection rate and choke size, and scans candidate operating points for the production-maximizing setting of each.",
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
