package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/internal/report"
)

var (
	reportInvestor  string
	reportCompany   string
	reportType      string
	reportDepth     string
	reportModel     string
	reportSections  []string
	reportCitations string
	reportOut       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a research report for a single deal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("report"); err != nil {
			return err
		}

		cat, diag, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		if diag != nil {
			return eris.New(diag.Summary())
		}

		portfolio := cat.FindPortfolio(reportInvestor)
		if portfolio == nil {
			return eris.Errorf("investor %q not found in catalog", reportInvestor)
		}
		deal := portfolio.FindDeal(reportCompany)
		if deal == nil {
			return eris.Errorf("deal %q not found for investor %q", reportCompany, reportInvestor)
		}

		req := buildRequest()

		inv, err := initAgent()
		if err != nil {
			return err
		}

		result, err := report.NewGenerator(inv).Generate(ctx, req, portfolio, deal)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = report.Filename(deal.TargetCompanyName, req.Type)
		}
		if err := os.WriteFile(out, []byte(report.Artifact(result)), 0644); err != nil {
			return eris.Wrapf(err, "write report %s", out)
		}

		zap.L().Info("report written",
			zap.String("title", result.Title),
			zap.String("file", out),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"title": result.Title,
			"file":  out,
		})
	},
}

// buildRequest assembles a ReportRequest from flags, filling defaults from
// config and the section catalog.
func buildRequest() model.ReportRequest {
	t := model.ReportType(reportType)

	sections := reportSections
	if len(sections) == 0 {
		sections = report.Sections(t)
	}

	depth := reportDepth
	if depth == "" {
		depth = cfg.Report.DefaultDepth
	}
	mdl := reportModel
	if mdl == "" {
		mdl = cfg.Report.DefaultModel
	}

	return model.ReportRequest{
		Type:      t,
		Sections:  sections,
		Citations: model.CitationMode(strings.ToLower(reportCitations)),
		Model:     mdl,
		Depth:     model.ResearchDepth(depth),
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportInvestor, "investor", "", "investor portfolio name (required)")
	reportCmd.Flags().StringVar(&reportCompany, "company", "", "target company name (required)")
	reportCmd.Flags().StringVar(&reportType, "type", string(model.ReportDealSummary), "report type")
	reportCmd.Flags().StringVar(&reportDepth, "depth", "", "research depth: Basic, Standard or Comprehensive")
	reportCmd.Flags().StringVar(&reportModel, "model", "", "reasoning model identifier")
	reportCmd.Flags().StringSliceVar(&reportSections, "sections", nil, "section keys to include (default: all for the type)")
	reportCmd.Flags().StringVar(&reportCitations, "citations", "summary", "citation mode: none, summary or detailed")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default: derived from company and type)")
	_ = reportCmd.MarkFlagRequired("investor")
	_ = reportCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(reportCmd)
}
