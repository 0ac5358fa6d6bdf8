package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formsource/orderload/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded import runs from the local ledger",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ledger, err := store.NewSQLite(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer ledger.Close() //nolint:errcheck

		if err := ledger.Migrate(ctx); err != nil {
			return err
		}

		runs, err := ledger.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
