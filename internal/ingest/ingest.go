// Package ingest reads the flat form-platform export — one physical row per
// answered field, not one row per submission — from CSV or XLSX sources and
// streams typed rows to the pipeline.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// RawRow is one physical row of the export: a grouping key plus a single
// field title/value pair. Column names match the platform's export headers.
type RawRow struct {
	SubmissionKey string `csv:"order_number"`
	FieldTitle    string `csv:"field_title"`
	FieldValue    string `csv:"field_value"`
}

// Stream opens path and streams its rows, dispatching on file extension
// (.xlsx for spreadsheets, anything else parses as CSV). A missing or
// unreadable input is returned as an immediate error; per-row problems are
// delivered on the error channel.
func Stream(ctx context.Context, path string) (<-chan RawRow, <-chan error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return StreamXLSX(ctx, path)
	default:
		return StreamCSVFile(ctx, path)
	}
}

// ReadAll drains a row stream into a slice. The grouping step needs the full
// export in memory since submissions interleave arbitrarily in source order.
func ReadAll(rowCh <-chan RawRow, errCh <-chan error) ([]RawRow, error) {
	var rows []RawRow
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "ingest: read rows")
	}
	return rows, nil
}
