package store

import (
	"context"

	"github.com/dealscope/dealscope/internal/model"
)

// Store persists an imported deal catalog so serve and report runs do not
// need the source JSON on disk. Generated reports are deliberately not
// stored; their lifecycle ends at the download.
type Store interface {
	// SaveCatalog atomically replaces the stored catalog.
	SaveCatalog(ctx context.Context, cat *model.Catalog) error
	// LoadCatalog returns the stored catalog, empty if nothing was imported.
	LoadCatalog(ctx context.Context) (*model.Catalog, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
