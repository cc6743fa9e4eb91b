package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealscope/dealscope/internal/model"
)

func TestSections(t *testing.T) {
	assert.Equal(t,
		[]string{"deal_overview", "transaction_details", "market_analysis", "competitors"},
		Sections(model.ReportDealSummary),
	)
	assert.Equal(t,
		[]string{"company_profile", "products_services", "management_team", "financial_performance", "competitors"},
		Sections(model.ReportTargetAnalysis),
	)
	assert.Equal(t,
		[]string{"portco_profile", "acquisition_strategy", "integration_synergies", "competitors"},
		Sections(model.ReportPortCoAnalysis),
	)
	assert.Equal(t,
		[]string{"investment_rationale", "value_creation_plan", "exit_strategy", "competitors"},
		Sections(model.ReportInvestmentThesis),
	)
}

func TestSectionsReturnsCopy(t *testing.T) {
	s := Sections(model.ReportDealSummary)
	s[0] = "mutated"
	assert.Equal(t, "deal_overview", Sections(model.ReportDealSummary)[0])
}

func TestHumanizeSection(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"deal_overview", "Deal Overview"},
		{"products_services", "Products Services"},
		{"portco_profile", "Portco Profile"},
		{"competitors", "Competitors"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanizeSection(tt.key))
	}
}

func TestNormalizeSections(t *testing.T) {
	got := normalizeSections(model.ReportDealSummary, []string{"sources", "market_analysis", "deal_overview", "bogus"})
	assert.Equal(t, []string{"deal_overview", "market_analysis"}, got)

	assert.Empty(t, normalizeSections(model.ReportDealSummary, nil))
	assert.Empty(t, normalizeSections(model.ReportDealSummary, []string{"sources"}))
}
