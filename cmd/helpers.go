package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/catalog"
	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/internal/store"
	"github.com/dealscope/dealscope/pkg/agent"
)

// initStore opens the configured catalog store, or returns nil when no
// driver is configured.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initAgent constructs the configured research collaborator.
func initAgent() (agent.Invoker, error) {
	switch cfg.Agent.Mode {
	case "graph":
		return agent.NewGraphClient(cfg.Agent.GraphKey, agent.WithBaseURL(cfg.Agent.GraphURL)), nil
	case "claude":
		return agent.NewClaudeAgent(cfg.Agent.AnthropicKey, cfg.Agent.ClaudeModel), nil
	default:
		return nil, eris.Errorf("unknown agent mode %q", cfg.Agent.Mode)
	}
}

// loadCatalog resolves the session catalog: file candidates first, then the
// store as the last source when one is configured. The returned diagnostics
// are non-nil only when every source came up empty.
func loadCatalog(ctx context.Context) (*model.Catalog, *catalog.Diagnostics, error) {
	cat, diag := catalog.Load(cfg.Catalog.Path)
	if diag == nil {
		return cat, nil, nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, eris.Wrap(err, "init store")
	}
	if st == nil {
		return cat, diag, nil
	}
	defer st.Close()

	stored, err := st.LoadCatalog(ctx)
	if err != nil {
		zap.L().Warn("store catalog load failed", zap.Error(err))
		return cat, diag, nil
	}
	if len(stored.Portfolios) == 0 {
		return cat, diag, nil
	}

	zap.L().Info("catalog loaded from store",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("portfolios", len(stored.Portfolios)),
	)
	return stored, nil, nil
}
