package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/sqlgen"
	"github.com/formsource/orderload/internal/store"
)

var (
	loadInput      string
	loadDBURL      string
	loadSeedFromDB bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Convert an export and apply it to a PostgreSQL destination",
	Long: `Runs the conversion and executes the resulting statements against the
destination inside a single transaction. With --seed-from-db, identifier
counters start one past each destination table's current maximum, so the new
rows cannot collide with existing ones. Every applied run is recorded in the
local ledger.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input := loadInput
		if input == "" {
			input = cfg.Convert.Input
		}
		dbURL := loadDBURL
		if dbURL == "" {
			dbURL = cfg.Database.URL
		}
		if dbURL == "" {
			return eris.New("database url is required (--database-url or ORDERLOAD_DATABASE_URL)")
		}

		loader, err := store.NewLoader(ctx, dbURL)
		if err != nil {
			return err
		}
		defer loader.Close()

		seeds := cfg.Seeds
		if loadSeedFromDB {
			seeds, err = loader.CurrentSeeds(ctx, cfg.Seeds)
			if err != nil {
				return err
			}
			zap.L().Info("seeded counters from destination",
				zap.Int64("order", seeds.Order),
				zap.Int64("order_item", seeds.OrderItem),
				zap.Int64("incorporation", seeds.Incorporation),
				zap.Int64("itin_application", seeds.ITINApplication),
				zap.Int64("operating_agreement", seeds.OperatingAgreement),
			)
		}

		p, err := buildParams()
		if err != nil {
			return err
		}

		rs, rows, err := runConversion(ctx, input, build.NewAllocator(seeds), p)
		if err != nil {
			return err
		}

		if rs.Empty() {
			zap.L().Info("no submissions in export, nothing to load", zap.String("input", input))
			return nil
		}

		stmts := sqlgen.Statements(sqlgen.Render(rs, p.Timestamp))
		if err := loader.ExecScript(ctx, stmts); err != nil {
			return err
		}

		ledger, err := store.NewSQLite(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer ledger.Close() //nolint:errcheck

		if err := ledger.Migrate(ctx); err != nil {
			return err
		}
		if err := ledger.RecordRun(ctx, store.ImportRun{
			SourceFile: input,
			RowCount:   rows,
			Counts:     rs.Counts(),
		}); err != nil {
			return err
		}

		zap.L().Info("load complete",
			zap.String("input", input),
			zap.Int("statements", len(stmts)),
			zap.Int("orders", len(rs.Orders)),
		)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadInput, "input", "", "path to the export (default from config)")
	loadCmd.Flags().StringVar(&loadDBURL, "database-url", "", "destination PostgreSQL URL (default from config)")
	loadCmd.Flags().BoolVar(&loadSeedFromDB, "seed-from-db", false, "seed identifier counters from destination maxima")
	rootCmd.AddCommand(loadCmd)
}
