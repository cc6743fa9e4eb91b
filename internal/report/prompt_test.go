package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscope/dealscope/internal/model"
)

func testPortfolio() *model.Portfolio {
	return &model.Portfolio{
		Investor:     "BGF",
		PortfolioURL: "https://bgf.example/portfolio",
	}
}

func testDeal() *model.Deal {
	return &model.Deal{
		TargetCompanyName:   "Anstey Horne",
		TargetSectors:       []string{"Surveying"},
		TargetCountry:       model.StringList{"United Kingdom"},
		BusinessDescription: "Specialist surveying firm",
		InvestmentAmount:    "£6.5M",
	}
}

func fullRequest(t model.ReportType) model.ReportRequest {
	return model.ReportRequest{
		Type:      t,
		Sections:  Sections(t),
		Citations: model.CitationsNone,
		Model:     "gemini-2.5-flash-preview-04-17",
		Depth:     model.DepthStandard,
	}
}

func TestValidateEmptySections(t *testing.T) {
	req := fullRequest(model.ReportDealSummary)
	req.Sections = nil
	assert.ErrorIs(t, Validate(req), ErrNoSections)
}

func TestValidateSourcesOnly(t *testing.T) {
	// The synthetic sources flag does not count as a section.
	req := fullRequest(model.ReportDealSummary)
	req.Sections = []string{"sources"}
	assert.ErrorIs(t, Validate(req), ErrNoSections)
}

func TestValidateUnknownType(t *testing.T) {
	req := fullRequest(model.ReportDealSummary)
	req.Type = "Weekly Digest"
	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report type")
}

func TestValidateOK(t *testing.T) {
	for _, rt := range model.ReportTypes {
		assert.NoError(t, Validate(fullRequest(rt)), string(rt))
	}
}

// sectionBullets extracts the emitted section bullets, which sit between
// the "following sections:" line and the next block.
func sectionBullets(t *testing.T, prompt string) []string {
	t.Helper()
	_, rest, found := strings.Cut(prompt, "with the following sections:\n")
	require.True(t, found, "sections header missing")
	bullets := []string{}
	for _, line := range strings.Split(rest, "\n") {
		if strings.HasPrefix(line, "- ") {
			bullets = append(bullets, strings.TrimPrefix(line, "- "))
			continue
		}
		if line != "" {
			break
		}
	}
	return bullets
}

func TestBuildPromptBulletsPerType(t *testing.T) {
	tests := []struct {
		reportType model.ReportType
		want       []string
	}{
		{model.ReportDealSummary, []string{"Deal Overview", "Transaction Details", "Market Analysis", "Competitors"}},
		{model.ReportTargetAnalysis, []string{"Company Profile", "Products Services", "Management Team", "Financial Performance", "Competitors"}},
		{model.ReportPortCoAnalysis, []string{"Portco Profile", "Acquisition Strategy", "Integration Synergies", "Competitors"}},
		{model.ReportInvestmentThesis, []string{"Investment Rationale", "Value Creation Plan", "Exit Strategy", "Competitors"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.reportType), func(t *testing.T) {
			prompt, err := BuildPrompt(fullRequest(tt.reportType), testPortfolio(), testDeal())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sectionBullets(t, prompt))
		})
	}
}

func TestBuildPromptSubsetKeepsCatalogOrder(t *testing.T) {
	req := fullRequest(model.ReportDealSummary)
	// Deliberately scrambled and partial.
	req.Sections = []string{"competitors", "deal_overview"}

	prompt, err := BuildPrompt(req, testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.Equal(t, []string{"Deal Overview", "Competitors"}, sectionBullets(t, prompt))
	assert.NotContains(t, prompt, "- Transaction Details")
	assert.NotContains(t, prompt, "- Market Analysis")
}

func TestBuildPromptLanguageDirectiveAlwaysTwice(t *testing.T) {
	for _, rt := range model.ReportTypes {
		for _, cm := range []model.CitationMode{model.CitationsNone, model.CitationsSummary, model.CitationsDetailed} {
			req := fullRequest(rt)
			req.Citations = cm
			prompt, err := BuildPrompt(req, testPortfolio(), testDeal())
			require.NoError(t, err)

			assert.Contains(t, prompt, mandatoryLanguageStyle)
			assert.Contains(t, prompt, highestPriorityLanguageStyle)
			assert.Equal(t, 1, strings.Count(prompt, "MANDATORY LANGUAGE STYLE:"))
			assert.Equal(t, 1, strings.Count(prompt, "HIGHEST PRIORITY REQUIREMENT:"))
		}
	}
}

func TestBuildPromptLanguageDirectiveOrder(t *testing.T) {
	prompt, err := BuildPrompt(fullRequest(model.ReportTargetAnalysis), testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.Less(t,
		strings.Index(prompt, "MANDATORY LANGUAGE STYLE:"),
		strings.Index(prompt, "HIGHEST PRIORITY REQUIREMENT:"),
	)
}

func TestBuildPromptDealSummaryDetailBlock(t *testing.T) {
	prompt, err := BuildPrompt(fullRequest(model.ReportDealSummary), testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.Contains(t, prompt, dealSummaryDetail)

	for _, rt := range []model.ReportType{model.ReportTargetAnalysis, model.ReportPortCoAnalysis, model.ReportInvestmentThesis} {
		prompt, err := BuildPrompt(fullRequest(rt), testPortfolio(), testDeal())
		require.NoError(t, err)
		assert.NotContains(t, prompt, "products and services portfolio with specifications", string(rt))
	}
}

func TestBuildPromptEmbedsDealJSON(t *testing.T) {
	deal := testDeal()
	prompt, err := BuildPrompt(fullRequest(model.ReportDealSummary), testPortfolio(), deal)
	require.NoError(t, err)

	dealJSON, err := json.MarshalIndent(deal, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, prompt, string(dealJSON))
}

func TestBuildPromptInvestorLine(t *testing.T) {
	prompt, err := BuildPrompt(fullRequest(model.ReportDealSummary), testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.Contains(t, prompt, "For the investor BGF, with portfolio URL: https://bgf.example/portfolio")
}

func TestBuildPromptPortfolioURLNotAvailable(t *testing.T) {
	p := testPortfolio()
	p.PortfolioURL = ""
	prompt, err := BuildPrompt(fullRequest(model.ReportDealSummary), p, testDeal())
	require.NoError(t, err)
	assert.Contains(t, prompt, "with portfolio URL: Not available")
}

func TestBuildPromptTitleInstruction(t *testing.T) {
	prompt, err := BuildPrompt(fullRequest(model.ReportDealSummary), testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Generate a detailed Deal Summary Report for the company Anstey Horne."))
	assert.Contains(t, prompt, `"[Investor Name] [Action/Deal Type] [Target Company] [Deal Value/Size if available]"`)
	assert.Contains(t, prompt, "BGF Backs Specialist Surveying Firm Anstey Horne in £6.5M Growth Deal")
}

func TestBuildPromptCitations(t *testing.T) {
	base := fullRequest(model.ReportTargetAnalysis)

	t.Run("none", func(t *testing.T) {
		prompt, err := BuildPrompt(base, testPortfolio(), testDeal())
		require.NoError(t, err)
		assert.NotContains(t, prompt, "cite your sources")
		assert.NotContains(t, prompt, `"Sources" section`)
	})

	t.Run("summary", func(t *testing.T) {
		req := base
		req.Citations = model.CitationsSummary
		prompt, err := BuildPrompt(req, testPortfolio(), testDeal())
		require.NoError(t, err)
		assert.Contains(t, prompt, "List all sources with their URLs at the end of the report in a dedicated Sources section.")
		assert.Contains(t, prompt, `dedicated "Sources" section at the end with numbered references`)
		assert.NotContains(t, prompt, "publication date, author, and reliability assessment")
	})

	t.Run("detailed", func(t *testing.T) {
		req := base
		req.Citations = model.CitationsDetailed
		prompt, err := BuildPrompt(req, testPortfolio(), testDeal())
		require.NoError(t, err)
		assert.Contains(t, prompt, "publication date, author, and reliability assessment")
		assert.Contains(t, prompt, `dedicated "Sources" section at the end with numbered references`)
	})
}

func TestBuildPromptDeterministic(t *testing.T) {
	req := fullRequest(model.ReportInvestmentThesis)
	req.Citations = model.CitationsDetailed

	a, err := BuildPrompt(req, testPortfolio(), testDeal())
	require.NoError(t, err)
	b, err := BuildPrompt(req, testPortfolio(), testDeal())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
