package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formsource/orderload/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "orderload",
	Short: "Form-export order importer",
	Long:  "Reconstructs orders, incorporations, ITIN applications and operating agreements from a flat form-platform export and materializes them as a PostgreSQL import script.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		switch cmd.Name() {
		case "convert", "inspect", "load", "serve", "runs":
			return cfg.Validate(cmd.Name())
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
