package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/dealscope/dealscope/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS portfolios (
	id            TEXT PRIMARY KEY,
	investor      TEXT NOT NULL,
	portfolio_url TEXT NOT NULL DEFAULT '',
	position      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deals (
	id           TEXT PRIMARY KEY,
	portfolio_id TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
	company      TEXT NOT NULL,
	payload      TEXT NOT NULL,
	position     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_portfolios_investor ON portfolios(investor);
CREATE INDEX IF NOT EXISTS idx_deals_portfolio_id ON deals(portfolio_id);
CREATE INDEX IF NOT EXISTS idx_deals_company ON deals(company);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveCatalog(ctx context.Context, cat *model.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolios`); err != nil {
		return eris.Wrap(err, "sqlite: clear portfolios")
	}

	for pi, p := range cat.Portfolios {
		pid := uuid.New().String()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO portfolios (id, investor, portfolio_url, position) VALUES (?, ?, ?, ?)`,
			pid, p.Investor, p.PortfolioURL, pi,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert portfolio %s", p.Investor)
		}
		for di, d := range p.Deals {
			payload, err := json.Marshal(d)
			if err != nil {
				return eris.Wrapf(err, "sqlite: marshal deal %s", d.TargetCompanyName)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO deals (id, portfolio_id, company, payload, position) VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), pid, d.TargetCompanyName, string(payload), di,
			); err != nil {
				return eris.Wrapf(err, "sqlite: insert deal %s", d.TargetCompanyName)
			}
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) LoadCatalog(ctx context.Context) (*model.Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, investor, portfolio_url FROM portfolios ORDER BY position`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query portfolios")
	}
	defer rows.Close()

	cat := &model.Catalog{Portfolios: []model.Portfolio{}}
	ids := []string{}
	for rows.Next() {
		var id string
		var p model.Portfolio
		if err := rows.Scan(&id, &p.Investor, &p.PortfolioURL); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan portfolio")
		}
		cat.Portfolios = append(cat.Portfolios, p)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate portfolios")
	}

	for i, pid := range ids {
		deals, err := s.loadDeals(ctx, pid)
		if err != nil {
			return nil, err
		}
		cat.Portfolios[i].Deals = deals
	}
	return cat, nil
}

func (s *SQLiteStore) loadDeals(ctx context.Context, portfolioID string) ([]model.Deal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM deals WHERE portfolio_id = ? ORDER BY position`,
		portfolioID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query deals %s", portfolioID)
	}
	defer rows.Close()

	deals := []model.Deal{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan deal")
		}
		var d model.Deal
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal deal")
		}
		deals = append(deals, d)
	}
	return deals, eris.Wrap(rows.Err(), "sqlite: iterate deals")
}
