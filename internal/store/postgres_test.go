package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscope/dealscope/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS portfolios`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCatalog(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM portfolios`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO portfolios`).
		WithArgs(pgxmock.AnyArg(), "BGF", "https://bgf.example", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO deals`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Anstey Horne", pgxmock.AnyArg(), 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	cat := &model.Catalog{Portfolios: []model.Portfolio{
		{
			Investor:     "BGF",
			PortfolioURL: "https://bgf.example",
			Deals:        []model.Deal{{TargetCompanyName: "Anstey Horne"}},
		},
	}}

	require.NoError(t, s.SaveCatalog(context.Background(), cat))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCatalog_InsertError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM portfolios`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO portfolios`).
		WithArgs(pgxmock.AnyArg(), "BGF", "", 0).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	cat := &model.Catalog{Portfolios: []model.Portfolio{{Investor: "BGF"}}}

	err := s.SaveCatalog(context.Background(), cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert portfolio BGF")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadCatalog(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, investor, portfolio_url FROM portfolios ORDER BY position`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "investor", "portfolio_url"}).
			AddRow("p1", "BGF", "https://bgf.example"))
	mock.ExpectQuery(`SELECT payload FROM deals WHERE portfolio_id = \$1 ORDER BY position`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"target_company_name":"Anstey Horne","target_country":"United Kingdom"}`)))

	cat, err := s.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, cat.Portfolios, 1)
	assert.Equal(t, "BGF", cat.Portfolios[0].Investor)
	require.Len(t, cat.Portfolios[0].Deals, 1)
	assert.Equal(t, "Anstey Horne", cat.Portfolios[0].Deals[0].TargetCompanyName)
	assert.Equal(t, model.StringList{"United Kingdom"}, cat.Portfolios[0].Deals[0].TargetCountry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadCatalog_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, investor, portfolio_url FROM portfolios ORDER BY position`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "investor", "portfolio_url"}))

	cat, err := s.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cat.Portfolios)
	assert.NoError(t, mock.ExpectationsWereMet())
}
