package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/dealscope/dealscope/internal/model"
)

// pgPool is the subset of pgxpool.Pool used by PostgresStore. Kept narrow so
// tests can substitute a pgxmock pool.
type pgPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(5)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
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
	payload      JSONB NOT NULL,
	position     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_portfolios_investor ON portfolios(investor);
CREATE INDEX IF NOT EXISTS idx_deals_portfolio_id ON deals(portfolio_id);
CREATE INDEX IF NOT EXISTS idx_deals_company ON deals(company);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveCatalog(ctx context.Context, cat *model.Catalog) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM portfolios`); err != nil {
		return eris.Wrap(err, "postgres: clear portfolios")
	}

	for pi, p := range cat.Portfolios {
		pid := uuid.New().String()
		if _, err := tx.Exec(ctx,
			`INSERT INTO portfolios (id, investor, portfolio_url, position) VALUES ($1, $2, $3, $4)`,
			pid, p.Investor, p.PortfolioURL, pi,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert portfolio %s", p.Investor)
		}
		for di, d := range p.Deals {
			payload, err := json.Marshal(d)
			if err != nil {
				return eris.Wrapf(err, "postgres: marshal deal %s", d.TargetCompanyName)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO deals (id, portfolio_id, company, payload, position) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), pid, d.TargetCompanyName, payload, di,
			); err != nil {
				return eris.Wrapf(err, "postgres: insert deal %s", d.TargetCompanyName)
			}
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) LoadCatalog(ctx context.Context) (*model.Catalog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, investor, portfolio_url FROM portfolios ORDER BY position`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query portfolios")
	}
	defer rows.Close()

	cat := &model.Catalog{Portfolios: []model.Portfolio{}}
	ids := []string{}
	for rows.Next() {
		var id string
		var p model.Portfolio
		if err := rows.Scan(&id, &p.Investor, &p.PortfolioURL); err != nil {
			return nil, eris.Wrap(err, "postgres: scan portfolio")
		}
		cat.Portfolios = append(cat.Portfolios, p)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate portfolios")
	}
	rows.Close()

	for i, pid := range ids {
		deals, err := s.loadDeals(ctx, pid)
		if err != nil {
			return nil, err
		}
		cat.Portfolios[i].Deals = deals
	}
	return cat, nil
}

func (s *PostgresStore) loadDeals(ctx context.Context, portfolioID string) ([]model.Deal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM deals WHERE portfolio_id = $1 ORDER BY position`,
		portfolioID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query deals %s", portfolioID)
	}
	defer rows.Close()

	deals := []model.Deal{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan deal")
		}
		var d model.Deal
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal deal")
		}
		deals = append(deals, d)
	}
	return deals, eris.Wrap(rows.Err(), "postgres: iterate deals")
}
