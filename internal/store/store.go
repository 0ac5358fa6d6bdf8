// Package store persists import-run outcomes and applies generated scripts
// to a destination database. The ledger is an audit trail, not a dedup
// mechanism — re-importing the same export still produces new rows.
package store

import (
	"context"
	"time"
)

// ImportRun records one completed import: where the export came from, how
// many rows survived grouping, and what was produced per table.
type ImportRun struct {
	ID         string         `json:"id"`
	SourceFile string         `json:"source_file"`
	RowCount   int            `json:"row_count"`
	Counts     map[string]int `json:"counts"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Ledger is the persistence interface for import-run history.
type Ledger interface {
	RecordRun(ctx context.Context, run ImportRun) error
	ListRuns(ctx context.Context, limit int) ([]ImportRun, error)
	Migrate(ctx context.Context) error
	Close() error
}
