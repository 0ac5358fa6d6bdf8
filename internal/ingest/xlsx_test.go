package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeXLSX(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Export")
	require.NoError(t, err)

	for _, cells := range rows {
		r := sheet.AddRow()
		for _, v := range cells {
			r.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestStreamXLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"field_title", "field_value", "order_number"},
		{"Country", "Egypt", "1001"},
		{"Choose a company type", "LLC", "1001"},
	})

	rowCh, errCh, err := StreamXLSX(context.Background(), path)
	require.NoError(t, err)

	rows, err := ReadAll(rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RawRow{SubmissionKey: "1001", FieldTitle: "Country", FieldValue: "Egypt"}, rows[0])
}

func TestStreamXLSX_HeaderCaseInsensitive(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"Field_Title", "FIELD_VALUE", "Order_Number"},
		{"Country", "Turkey", "1002"},
	})

	rowCh, errCh, err := StreamXLSX(context.Background(), path)
	require.NoError(t, err)

	rows, err := ReadAll(rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1002", rows[0].SubmissionKey)
}

func TestStreamXLSX_ShortRows(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"field_title", "field_value", "order_number"},
		{"Country"},
	})

	rowCh, errCh, err := StreamXLSX(context.Background(), path)
	require.NoError(t, err)

	rows, err := ReadAll(rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Country", rows[0].FieldTitle)
	assert.Empty(t, rows[0].FieldValue)
	assert.Empty(t, rows[0].SubmissionKey)
}

func TestStreamXLSX_MissingHeaders(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"a", "b", "c"},
		{"Country", "Egypt", "1001"},
	})

	rowCh, errCh, err := StreamXLSX(context.Background(), path)
	require.NoError(t, err)

	_, err = ReadAll(rowCh, errCh)
	assert.Error(t, err)
}

func TestStreamXLSX_MissingFile(t *testing.T) {
	_, _, err := StreamXLSX(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestStream_DispatchesXLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"field_title", "field_value", "order_number"},
		{"Country", "Egypt", "1001"},
	})

	rowCh, errCh, err := Stream(context.Background(), path)
	require.NoError(t, err)

	rows, err := ReadAll(rowCh, errCh)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
