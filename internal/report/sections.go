package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dealscope/dealscope/internal/model"
)

// sectionCatalog fixes the selectable sections per report type. Order is
// part of the contract: prompt bullets are emitted in this order for
// whichever sections the request keeps.
var sectionCatalog = map[model.ReportType][]string{
	model.ReportDealSummary: {
		"deal_overview",
		"transaction_details",
		"market_analysis",
		"competitors",
	},
	model.ReportTargetAnalysis: {
		"company_profile",
		"products_services",
		"management_team",
		"financial_performance",
		"competitors",
	},
	model.ReportPortCoAnalysis: {
		"portco_profile",
		"acquisition_strategy",
		"integration_synergies",
		"competitors",
	},
	model.ReportInvestmentThesis: {
		"investment_rationale",
		"value_creation_plan",
		"exit_strategy",
		"competitors",
	},
}

// Sections returns the fixed section keys for a report type, in catalog
// order. All of them default to selected in the user surface.
func Sections(t model.ReportType) []string {
	keys := sectionCatalog[t]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

var titleCaser = cases.Title(language.BritishEnglish)

// HumanizeSection turns a section key into its display label:
// underscores to spaces, title-cased.
func HumanizeSection(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// normalizeSections keeps only sections belonging to the type's catalog, in
// catalog order, and drops the synthetic "sources" flag some callers still
// send alongside real sections.
func normalizeSections(t model.ReportType, selected []string) []string {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		if s != "sources" {
			want[s] = true
		}
	}
	out := []string{}
	for _, key := range sectionCatalog[t] {
		if want[key] {
			out = append(out, key)
		}
	}
	return out
}
