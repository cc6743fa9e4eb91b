package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/catalog"
	"github.com/dealscope/dealscope/internal/model"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the deal catalog JSON into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		src, diag := loadImportSource()
		if diag != nil {
			return eris.New(diag.Summary())
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		if err := st.SaveCatalog(ctx, src); err != nil {
			return eris.Wrap(err, "save catalog")
		}

		deals := 0
		for _, p := range src.Portfolios {
			deals += len(p.Deals)
		}
		zap.L().Info("catalog imported",
			zap.String("driver", cfg.Store.Driver),
			zap.Int("portfolios", len(src.Portfolios)),
			zap.Int("deals", deals),
		)
		return nil
	},
}

// loadImportSource reads the catalog from --file when given, otherwise from
// the usual candidate locations.
func loadImportSource() (*model.Catalog, *catalog.Diagnostics) {
	if importFile != "" {
		f, err := os.Open(importFile)
		if err != nil {
			return nil, &catalog.Diagnostics{Attempts: []catalog.Attempt{{Path: importFile, Reason: err.Error()}}}
		}
		defer f.Close()
		c, err := catalog.LoadReader(f)
		if err != nil {
			return nil, &catalog.Diagnostics{Attempts: []catalog.Attempt{{Path: importFile, Reason: err.Error()}}}
		}
		return c, nil
	}
	return catalog.Load(cfg.Catalog.Path)
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "catalog JSON file (default: configured candidates)")
	rootCmd.AddCommand(importCmd)
}
