package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/derive"
	"github.com/formsource/orderload/internal/ingest"
	"github.com/formsource/orderload/internal/lookup"
	"github.com/formsource/orderload/internal/model"
	"github.com/formsource/orderload/internal/normalize"
	"github.com/formsource/orderload/internal/pipeline"
	"github.com/formsource/orderload/internal/sqlgen"
)

var (
	convertInput     string
	convertOutput    string
	convertTimestamp string
	convertUserID    int64
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a form export into a SQL import script",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input := convertInput
		if input == "" {
			input = cfg.Convert.Input
		}
		output := convertOutput
		if output == "" {
			output = cfg.Convert.Output
		}

		p, err := buildParams()
		if err != nil {
			return err
		}

		rs, rows, err := runConversion(ctx, input, build.NewAllocator(cfg.Seeds), p)
		if err != nil {
			return err
		}

		if rs.Empty() {
			zap.L().Info("no submissions in export, nothing to write",
				zap.String("input", input),
				zap.Int("rows", rows),
			)
			return nil
		}

		script := sqlgen.Render(rs, p.Timestamp)
		if err := writeAtomic(output, []byte(script)); err != nil {
			return err
		}

		zap.L().Info("import script written",
			zap.String("output", output),
			zap.Int("rows", rows),
			zap.Int("orders", len(rs.Orders)),
			zap.Int("itin_applications", len(rs.ITINApplications)),
			zap.Int("operating_agreements", len(rs.OperatingAgreements)),
		)
		return nil
	},
}

// buildParams assembles the run-wide builder inputs from config and flags.
// An explicit timestamp keeps re-renders byte-identical; absent that, the
// run's start time is pinned once here.
func buildParams() (build.Params, error) {
	userID := convertUserID
	if userID == 0 {
		userID = cfg.Convert.UserID
	}

	ts := convertTimestamp
	if ts == "" {
		ts = cfg.Convert.Timestamp
	}
	if ts == "" {
		ts = time.Now().UTC().Format("2006-01-02 15:04:05")
	}

	tables := lookup.Defaults()
	if cfg.Lookup.Path != "" {
		var err error
		tables, err = lookup.LoadFile(cfg.Lookup.Path)
		if err != nil {
			return build.Params{}, err
		}
	}

	return build.Params{UserID: userID, Timestamp: ts, Tables: tables}, nil
}

// runConversion streams the export, regroups it, and reconstructs the record
// set. Returns the raw row count alongside for reporting.
func runConversion(ctx context.Context, input string, alloc *build.Allocator, p build.Params) (*model.RecordSet, int, error) {
	rowCh, errCh, err := ingest.Stream(ctx, input)
	if err != nil {
		return nil, 0, err
	}

	var rows []ingest.RawRow
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		for row := range rowCh {
			rows = append(rows, row)
		}
		return nil
	})
	g.Go(func() error {
		return <-errCh
	})
	if err := g.Wait(); err != nil {
		return nil, 0, eris.Wrap(err, "convert: read export")
	}

	zap.L().Info("export read", zap.String("input", input), zap.Int("rows", len(rows)))

	subs := normalize.Normalize(rows)
	rs := pipeline.Convert(subs, derive.DefaultRules(), alloc, p)
	return rs, len(rows), nil
}

// writeAtomic writes the script via a temp file and rename so a failed run
// never leaves a partial artifact behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "convert: create temp for %s", path)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()            //nolint:errcheck
		os.Remove(tmp.Name())  //nolint:errcheck
		return eris.Wrapf(err, "convert: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return eris.Wrapf(err, "convert: close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return eris.Wrapf(err, "convert: rename to %s", path)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "path to the export (.csv or .xlsx; default from config)")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "path for the generated SQL script (default from config)")
	convertCmd.Flags().StringVar(&convertTimestamp, "timestamp", "", `created_at value for every record ("2006-01-02 15:04:05"; default: now)`)
	convertCmd.Flags().Int64Var(&convertUserID, "user-id", 0, "owning user id for every record (default from config)")
	rootCmd.AddCommand(convertCmd)
}
