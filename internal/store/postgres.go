package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/resilience"
)

// Pool is the subset of pgxpool.Pool the loader uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Loader applies a generated import script to a PostgreSQL destination.
type Loader struct {
	pool Pool
}

// NewLoader connects a Loader to the given database URL.
func NewLoader(ctx context.Context, databaseURL string) (*Loader, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	// The destination may still be starting; wait it out before giving up.
	err = resilience.Do(ctx, resilience.DefaultRetryConfig(), "postgres ping", pool.Ping)
	if err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &Loader{pool: pool}, nil
}

// NewLoaderWithPool wraps an existing pool. Used by tests.
func NewLoaderWithPool(pool Pool) *Loader {
	return &Loader{pool: pool}
}

// Close releases the underlying pool.
func (l *Loader) Close() {
	l.pool.Close()
}

// ExecScript runs the statements inside a single transaction; either the
// whole import lands or none of it does.
func (l *Loader) ExecScript(ctx context.Context, stmts []string) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return eris.Wrapf(err, "postgres: exec statement %d", i+1)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

// seedTables maps destination tables to setters on build.Seeds, in query
// order.
var seedTables = []struct {
	table string
	set   func(*build.Seeds, int64)
}{
	{"public.orders", func(s *build.Seeds, v int64) { s.Order = v }},
	{"public.order_items", func(s *build.Seeds, v int64) { s.OrderItem = v }},
	{"public.incorporations", func(s *build.Seeds, v int64) { s.Incorporation = v }},
	{"public.itin_applications", func(s *build.Seeds, v int64) { s.ITINApplication = v }},
	{"public.operating_agreements", func(s *build.Seeds, v int64) { s.OperatingAgreement = v }},
}

// CurrentSeeds reads each destination table's maximum identifier and returns
// seeds one past it, so a fresh run cannot collide with existing rows. Empty
// tables seed from the configured default.
func (l *Loader) CurrentSeeds(ctx context.Context, fallback build.Seeds) (build.Seeds, error) {
	seeds := fallback
	for _, st := range seedTables {
		var max int64
		err := l.pool.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) FROM "+st.table).Scan(&max)
		if err != nil {
			return build.Seeds{}, eris.Wrapf(err, "postgres: max id of %s", st.table)
		}
		if max > 0 {
			st.set(&seeds, max+1)
		}
	}
	return seeds, nil
}
