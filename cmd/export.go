package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/model"
)

var exportOut string

// Excel rejects sheet names longer than 31 characters.
const maxSheetName = 31

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the deal catalog to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, diag, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if diag != nil {
			return eris.New(diag.Summary())
		}

		f := xlsx.NewFile()
		for _, p := range cat.Portfolios {
			if err := addPortfolioSheet(f, p); err != nil {
				return err
			}
		}

		if err := f.Save(exportOut); err != nil {
			return eris.Wrapf(err, "save workbook %s", exportOut)
		}

		zap.L().Info("catalog exported",
			zap.String("file", exportOut),
			zap.Int("portfolios", len(cat.Portfolios)),
		)
		return nil
	},
}

var exportHeader = []string{
	"Target Company", "Sectors", "Location", "Country", "Description",
	"Investment Date", "Investment Type", "Investment Amount",
	"Turnover", "Employees", "Deal URL",
}

func addPortfolioSheet(f *xlsx.File, p model.Portfolio) error {
	name := p.Investor
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "add sheet %s", name)
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().Value = h
	}

	for _, d := range p.Deals {
		row := sheet.AddRow()
		for _, v := range []string{
			d.TargetCompanyName,
			strings.Join(d.TargetSectors, ", "),
			d.TargetLocation,
			strings.Join(d.TargetCountry, ", "),
			d.BusinessDescription,
			d.InvestmentDate,
			d.InvestmentType,
			d.InvestmentAmount,
			d.Turnover,
			d.EmployeeCount,
			d.DealURL,
		} {
			row.AddCell().Value = v
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "deal_catalog.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
