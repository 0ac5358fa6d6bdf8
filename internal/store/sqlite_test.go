package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	ledger, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	require.NoError(t, ledger.Migrate(context.Background()))
	return ledger
}

func TestSQLiteLedger_RecordAndList(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	run := ImportRun{
		SourceFile: "export.csv",
		RowCount:   42,
		Counts: map[string]int{
			"orders":            3,
			"itin_applications": 1,
		},
	}
	require.NoError(t, ledger.RecordRun(ctx, run))

	runs, err := ledger.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.NotEmpty(t, got.ID, "missing id is filled in")
	assert.Equal(t, "export.csv", got.SourceFile)
	assert.Equal(t, 42, got.RowCount)
	assert.Equal(t, 3, got.Counts["orders"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteLedger_ListNewestFirst(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, ledger.RecordRun(ctx, ImportRun{
			SourceFile: name,
			Counts:     map[string]int{},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := ledger.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.csv", runs[0].SourceFile)
	assert.Equal(t, "b.csv", runs[1].SourceFile)
}

func TestSQLiteLedger_ListEmpty(t *testing.T) {
	ledger := newTestLedger(t)

	runs, err := ledger.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteLedger_MigrateIdempotent(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.Migrate(context.Background()))
}
