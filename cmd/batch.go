package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/internal/report"
)

var (
	batchInvestor  string
	batchType      string
	batchDepth     string
	batchModel     string
	batchCitations string
	batchOutDir    string
	batchLimit     int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate reports for every deal of an investor",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		cat, diag, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		if diag != nil {
			return eris.New(diag.Summary())
		}

		portfolio := cat.FindPortfolio(batchInvestor)
		if portfolio == nil {
			return eris.Errorf("investor %q not found in catalog", batchInvestor)
		}

		inv, err := initAgent()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(batchOutDir, 0755); err != nil {
			return eris.Wrapf(err, "create output dir %s", batchOutDir)
		}

		deals := portfolio.Deals
		if batchLimit > 0 && len(deals) > batchLimit {
			deals = deals[:batchLimit]
		}

		return processBatch(ctx, report.NewGenerator(inv), portfolio, deals)
	},
}

// processBatch fans the portfolio's deals across a bounded worker group,
// pacing agent calls with a shared rate limiter. Individual failures are
// logged and do not abort the batch.
func processBatch(ctx context.Context, gen *report.Generator, portfolio *model.Portfolio, deals []model.Deal) error {
	if len(deals) == 0 {
		zap.L().Info("no deals to process", zap.String("investor", portfolio.Investor))
		return nil
	}

	zap.L().Info("processing batch",
		zap.String("investor", portfolio.Investor),
		zap.Int("deals", len(deals)),
		zap.Int("concurrency", cfg.Batch.MaxConcurrentReports),
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.Batch.AgentRequestsPerMinute/60.0), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.MaxConcurrentReports)

	var succeeded, failed atomic.Int64

	for i := range deals {
		deal := &deals[i]
		g.Go(func() error {
			log := zap.L().With(zap.String("company", deal.TargetCompanyName))

			if err := limiter.Wait(gctx); err != nil {
				return eris.Wrap(err, "rate limit wait")
			}

			req := model.ReportRequest{
				Type:      model.ReportType(batchType),
				Sections:  report.Sections(model.ReportType(batchType)),
				Citations: model.CitationMode(strings.ToLower(batchCitations)),
				Model:     batchModelOrDefault(),
				Depth:     model.ResearchDepth(batchDepthOrDefault()),
			}

			result, err := gen.Generate(gctx, req, portfolio, deal)
			if err != nil {
				failed.Add(1)
				log.Error("report generation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			out := filepath.Join(batchOutDir, report.Filename(deal.TargetCompanyName, req.Type))
			if err := os.WriteFile(out, []byte(report.Artifact(result)), 0644); err != nil {
				failed.Add(1)
				log.Error("report write failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("report complete",
				zap.String("title", result.Title),
				zap.String("file", out),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func batchModelOrDefault() string {
	if batchModel != "" {
		return batchModel
	}
	return cfg.Report.DefaultModel
}

func batchDepthOrDefault() string {
	if batchDepth != "" {
		return batchDepth
	}
	return cfg.Report.DefaultDepth
}

func init() {
	batchCmd.Flags().StringVar(&batchInvestor, "investor", "", "investor portfolio name (required)")
	batchCmd.Flags().StringVar(&batchType, "type", string(model.ReportDealSummary), "report type")
	batchCmd.Flags().StringVar(&batchDepth, "depth", "", "research depth: Basic, Standard or Comprehensive")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "reasoning model identifier")
	batchCmd.Flags().StringVar(&batchCitations, "citations", "summary", "citation mode: none, summary or detailed")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "reports", "directory for generated reports")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max deals to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("investor")
	rootCmd.AddCommand(batchCmd)
}
