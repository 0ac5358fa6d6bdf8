package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// StreamXLSX opens an XLSX export and streams rows from its first sheet.
// The first row must be a header naming the same columns as the CSV format;
// header matching is case-insensitive. Both channels close when parsing
// completes.
func StreamXLSX(ctx context.Context, path string) (<-chan RawRow, <-chan error, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("ingest: xlsx %s has no sheets", path)
	}
	sheet := f.Sheets[0]

	rowCh := make(chan RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		if len(sheet.Rows) == 0 {
			return
		}

		keyIdx, titleIdx, valueIdx := -1, -1, -1
		for j, cell := range sheet.Rows[0].Cells {
			switch strings.ToLower(strings.TrimSpace(cell.String())) {
			case "order_number":
				keyIdx = j
			case "field_title":
				titleIdx = j
			case "field_value":
				valueIdx = j
			}
		}
		if keyIdx < 0 || titleIdx < 0 || valueIdx < 0 {
			errCh <- eris.Errorf("ingest: xlsx %s missing required header columns", path)
			return
		}

		cellAt := func(row *xlsx.Row, idx int) string {
			if idx < len(row.Cells) {
				return row.Cells[idx].String()
			}
			return ""
		}

		for _, row := range sheet.Rows[1:] {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: xlsx cancelled")
				return
			}

			raw := RawRow{
				SubmissionKey: cellAt(row, keyIdx),
				FieldTitle:    cellAt(row, titleIdx),
				FieldValue:    cellAt(row, valueIdx),
			}

			select {
			case rowCh <- raw:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: xlsx cancelled")
				return
			}
		}
	}()

	return rowCh, errCh, nil
}
