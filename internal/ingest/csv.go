package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"context"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// StreamCSVFile opens a CSV export and streams its rows. The file must carry
// a header row naming the order_number, field_title and field_value columns;
// extra columns are ignored. Both channels close when parsing completes.
func StreamCSVFile(ctx context.Context, path string) (<-chan RawRow, <-chan error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ingest: open csv %s", path)
	}

	rowCh := make(chan RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)
		defer f.Close() //nolint:errcheck

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1 // allow variable fields

		dec, err := csvutil.NewDecoder(reader)
		if err == io.EOF {
			return // header-only or empty file: nothing to stream
		}
		if err != nil {
			errCh <- eris.Wrap(err, "ingest: read csv header")
			return
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: csv cancelled")
				return
			}

			var row RawRow
			if err := dec.Decode(&row); err == io.EOF {
				return
			} else if err != nil {
				errCh <- eris.Wrap(err, "ingest: decode csv row")
				return
			}

			select {
			case rowCh <- row:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: csv cancelled")
				return
			}
		}
	}()

	return rowCh, errCh, nil
}

// StreamCSV streams rows from an already-open reader. Used by the serve
// endpoint, where the export arrives as a request body rather than a file.
func StreamCSV(ctx context.Context, r io.Reader) (<-chan RawRow, <-chan error) {
	rowCh := make(chan RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1

		dec, err := csvutil.NewDecoder(reader)
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "ingest: read csv header")
			return
		}

		for {
			var row RawRow
			if err := dec.Decode(&row); err == io.EOF {
				return
			} else if err != nil {
				errCh <- eris.Wrap(err, "ingest: decode csv row")
				return
			}

			select {
			case rowCh <- row:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: csv cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
