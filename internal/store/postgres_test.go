package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsource/orderload/internal/build"
)

func newMockLoader(t *testing.T) (*Loader, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewLoaderWithPool(mock), mock
}

func TestExecScript_SingleTransaction(t *testing.T) {
	loader, mock := newMockLoader(t)

	stmts := []string{
		"INSERT INTO public.orders (id) VALUES (1000);",
		"INSERT INTO public.order_items (id) VALUES (1000);",
	}

	mock.ExpectBegin()
	for _, stmt := range stmts {
		mock.ExpectExec(stmt).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, loader.ExecScript(context.Background(), stmts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecScript_RollsBackOnFailure(t *testing.T) {
	loader, mock := newMockLoader(t)

	stmts := []string{
		"INSERT INTO public.orders (id) VALUES (1000);",
		"INSERT INTO public.order_items (id) VALUES (1000);",
	}

	mock.ExpectBegin()
	mock.ExpectExec(stmts[0]).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(stmts[1]).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := loader.ExecScript(context.Background(), stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecScript_BeginFailure(t *testing.T) {
	loader, mock := newMockLoader(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := loader.ExecScript(context.Background(), []string{"SELECT 1"})
	assert.Error(t, err)
}

func TestCurrentSeeds(t *testing.T) {
	loader, mock := newMockLoader(t)

	maxima := map[string]int64{
		"public.orders":               1499,
		"public.order_items":          1499,
		"public.incorporations":       1450,
		"public.itin_applications":    0,
		"public.operating_agreements": 1200,
	}
	for _, st := range seedTables {
		mock.ExpectQuery("SELECT COALESCE(MAX(id), 0) FROM " + st.table).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(maxima[st.table]))
	}

	seeds, err := loader.CurrentSeeds(context.Background(), build.DefaultSeeds())
	require.NoError(t, err)

	assert.Equal(t, int64(1500), seeds.Order)
	assert.Equal(t, int64(1500), seeds.OrderItem)
	assert.Equal(t, int64(1451), seeds.Incorporation)
	// Empty tables keep the configured fallback.
	assert.Equal(t, int64(1000), seeds.ITINApplication)
	assert.Equal(t, int64(1201), seeds.OperatingAgreement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentSeeds_QueryFailure(t *testing.T) {
	loader, mock := newMockLoader(t)

	mock.ExpectQuery("SELECT COALESCE(MAX(id), 0) FROM public.orders").
		WillReturnError(errors.New("relation does not exist"))

	_, err := loader.CurrentSeeds(context.Background(), build.DefaultSeeds())
	assert.Error(t, err)
}
