package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/dealscope/dealscope/internal/model"
)

// ErrNoSections rejects a submission with an empty selected-sections set.
// This is checked locally; the agent is never called for such a request.
var ErrNoSections = eris.New("report: no sections selected")

const titleInstruction = `START WITH A DESCRIPTIVE DEAL TITLE: Create a compelling title that includes both the investor name and key deal information.
The title should follow this format: "[Investor Name] [Action/Deal Type] [Target Company] [Deal Value/Size if available]"

Examples of good titles:
- "BGF Backs Specialist Surveying Firm Anstey Horne in £6.5M Growth Deal"
- "Tikehau Capital's Buyout of French IT Services Provider BT2i"
- "Galiena Capital Acquires Medical Device Manufacturer 3DISC in Strategic Expansion"`

const dealSummaryDetail = `IMPORTANT: Please ensure you include detailed information about:
- The company's products and services portfolio with specifications
- The company's unique value proposition and market differentiation
- All industry sectors the company operates in, including primary and niche markets
- The strategic context and rationale of the deal`

// The language directive is deliberately emitted twice, second time with
// higher emphasis. Both blocks are fixed text and appear in every prompt.
const mandatoryLanguageStyle = `MANDATORY LANGUAGE STYLE: All reports MUST be written in British English spelling, grammar and terminology.
This includes:
- Use of 's' instead of 'z' in words like 'organisation', 'specialisation'
- Spelling patterns like 'colour', 'centre', 'programme', 'catalogue'
- British business terminology such as 'turnover' instead of 'revenue'
- DD/MM/YYYY date format
- £ symbol for GBP currency when relevant

DO NOT use American English spelling or terminology under any circumstances.`

const highestPriorityLanguageStyle = `HIGHEST PRIORITY REQUIREMENT: ALL OUTPUT MUST BE IN BRITISH ENGLISH ONLY.

This is not optional but an absolute requirement. The entire report must use:
- British spelling conventions: 'organisation' not 'organization', 'specialise' not 'specialize'
- British terminology: 'turnover' not 'revenue', 'managing director' not 'CEO' where appropriate
- British date format: DD/MM/YYYY format (e.g., 15/06/2025)
- British currency notation: £ for pounds sterling
- British punctuation and quotation conventions

Treat this as the most critical instruction that overrides all default language settings.
ANY use of American English spelling or terminology will render the report unacceptable.`

const citationHeader = `IMPORTANT: For each fact or piece of information, please cite your sources and include the full URLs.`

const citationSummaryDetail = `List all sources with their URLs at the end of the report in a dedicated Sources section.`

const citationDetailedDetail = `Include detailed information about each source, such as publication date, author, and reliability assessment.`

const citationFooter = `The final report MUST include a dedicated "Sources" section at the end with numbered references and clickable links to all sources used.`

// Validate checks the request preconditions that must hold before any
// external call is attempted.
func Validate(req model.ReportRequest) error {
	if !req.Type.Valid() {
		return eris.Errorf("report: unknown report type %q", req.Type)
	}
	if len(normalizeSections(req.Type, req.Sections)) == 0 {
		return ErrNoSections
	}
	return nil
}

// BuildPrompt deterministically assembles the research instruction for one
// report request. Block order is fixed and observable behaviour; changing
// it changes what the agent produces.
func BuildPrompt(req model.ReportRequest, portfolio *model.Portfolio, deal *model.Deal) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	dealJSON, err := json.MarshalIndent(deal, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "report: marshal deal")
	}

	portfolioURL := portfolio.PortfolioURL
	if portfolioURL == "" {
		portfolioURL = "Not available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed %s for the company %s.\n\n", req.Type, deal.TargetCompanyName)
	b.WriteString(titleInstruction)
	b.WriteString("\n\nHere is the data we have about the deal:\n")
	b.Write(dealJSON)
	fmt.Fprintf(&b, "\n\nFor the investor %s, with portfolio URL: %s\n\n", portfolio.Investor, portfolioURL)
	fmt.Fprintf(&b, "Based on this information and additional research, please provide a comprehensive %s with the following sections:\n", strings.ToLower(string(req.Type)))

	for _, key := range normalizeSections(req.Type, req.Sections) {
		fmt.Fprintf(&b, "\n- %s", HumanizeSection(key))
	}
	b.WriteString("\n")

	if req.Type == model.ReportDealSummary {
		b.WriteString("\n")
		b.WriteString(dealSummaryDetail)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mandatoryLanguageStyle)
	b.WriteString("\n\n")
	b.WriteString(highestPriorityLanguageStyle)
	b.WriteString("\n")

	if req.Citations != model.CitationsNone {
		detail := citationSummaryDetail
		if req.Citations == model.CitationsDetailed {
			detail = citationDetailedDetail
		}
		b.WriteString("\n")
		b.WriteString(citationHeader)
		b.WriteString("\n")
		b.WriteString(detail)
		b.WriteString("\n\n")
		b.WriteString(citationFooter)
		b.WriteString("\n")
	}

	return b.String(), nil
}
