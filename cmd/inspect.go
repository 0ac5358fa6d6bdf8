package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/derive"
	"github.com/formsource/orderload/internal/ingest"
	"github.com/formsource/orderload/internal/normalize"
)

var inspectInput string

// inspectStats is the dry-run report printed as JSON.
type inspectStats struct {
	Rows                int      `json:"rows"`
	Submissions         int      `json:"submissions"`
	NumericKeys         int      `json:"numeric_keys"`
	ITINApplications    int      `json:"itin_applications"`
	OperatingAgreements int      `json:"operating_agreements"`
	SubmissionKeys      []string `json:"submission_keys"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dry run: report what an export would produce, writing nothing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rowCh, errCh, err := ingest.Stream(ctx, inspectInput)
		if err != nil {
			return err
		}
		rows, err := ingest.ReadAll(rowCh, errCh)
		if err != nil {
			return err
		}

		subs := normalize.Normalize(rows)
		rules := derive.DefaultRules()

		stats := inspectStats{
			Rows:        len(rows),
			Submissions: len(subs),
		}
		for _, sub := range subs {
			stats.SubmissionKeys = append(stats.SubmissionKeys, sub.Key)
			if build.Order(0, sub.Key, build.Params{}).SourceOrderID != nil {
				stats.NumericKeys++
			}
			if rules.ITIN.Applies(sub.Fields) {
				stats.ITINApplications++
			}
			if rules.Agreement.Applies(sub.Fields) {
				stats.OperatingAgreements++
			}
		}

		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectInput, "input", "", "path to the export (required)")
	_ = inspectCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(inspectCmd)
}
