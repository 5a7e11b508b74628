package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sabitsky/hearitage/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hearitage",
	Short: "Painting recognition service",
	Long:  "Identifies paintings from images via Claude vision, corroborates the attribution against museum and encyclopedia sources, and enriches responses with verified facts.",
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
