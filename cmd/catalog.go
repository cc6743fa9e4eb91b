package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/internal/report"
)

var (
	catalogFormat       string
	catalogShowInvestor string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the deal catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List investors and their deal counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, diag, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if diag != nil {
			fmt.Fprintln(os.Stderr, diag.Summary())
		}

		type row struct {
			Investor     string `json:"investor" yaml:"investor"`
			PortfolioURL string `json:"portfolio_url,omitempty" yaml:"portfolio_url,omitempty"`
			Deals        int    `json:"deals" yaml:"deals"`
		}
		rows := make([]row, len(cat.Portfolios))
		for i, p := range cat.Portfolios {
			rows[i] = row{Investor: p.Investor, PortfolioURL: p.PortfolioURL, Deals: len(p.Deals)}
		}
		return emit(rows)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the deals of one investor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, diag, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if diag != nil {
			return eris.New(diag.Summary())
		}

		portfolio := cat.FindPortfolio(catalogShowInvestor)
		if portfolio == nil {
			return eris.Errorf("investor %q not found in catalog", catalogShowInvestor)
		}
		return emit(portfolio)
	},
}

// emit renders v to stdout in the selected output format.
func emit(v any) error {
	switch catalogFormat {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return eris.Wrap(err, "marshal yaml")
		}
		_, err = os.Stdout.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return eris.Errorf("unknown format %q", catalogFormat)
	}
}

// reportTypesCmd prints the fixed report type and section catalog.
var reportTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List report types and their sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(reportTypeRows())
	},
}

type reportTypeRow struct {
	Type     model.ReportType `json:"report_type" yaml:"report_type"`
	Sections []string         `json:"sections" yaml:"sections"`
}

func reportTypeRows() []reportTypeRow {
	rows := make([]reportTypeRow, 0, len(model.ReportTypes))
	for _, t := range model.ReportTypes {
		rows = append(rows, reportTypeRow{Type: t, Sections: report.Sections(t)})
	}
	return rows
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogFormat, "format", "json", "output format: json or yaml")
	catalogShowCmd.Flags().StringVar(&catalogShowInvestor, "investor", "", "investor portfolio name (required)")
	_ = catalogShowCmd.MarkFlagRequired("investor")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(reportTypesCmd)
	rootCmd.AddCommand(catalogCmd)
}
