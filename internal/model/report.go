package model

// ReportType identifies one of the four fixed report templates.
type ReportType string

const (
	ReportDealSummary      ReportType = "Deal Summary Report"
	ReportTargetAnalysis   ReportType = "Target Company Analysis"
	ReportPortCoAnalysis   ReportType = "PortCo Company Analysis"
	ReportInvestmentThesis ReportType = "Investment Thesis & Value Creation Strategy"
)

// ReportTypes lists the selectable report types in display order.
var ReportTypes = []ReportType{
	ReportDealSummary,
	ReportTargetAnalysis,
	ReportPortCoAnalysis,
	ReportInvestmentThesis,
}

// Valid reports whether t is one of the four fixed report types.
func (t ReportType) Valid() bool {
	for _, rt := range ReportTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// CitationMode controls how the prompt asks the agent to source its claims.
type CitationMode string

const (
	CitationsNone     CitationMode = "none"
	CitationsSummary  CitationMode = "summary"
	CitationsDetailed CitationMode = "detailed"
)

// ResearchDepth is the three-level research effort selector.
type ResearchDepth string

const (
	DepthBasic         ResearchDepth = "Basic"
	DepthStandard      ResearchDepth = "Standard"
	DepthComprehensive ResearchDepth = "Comprehensive"
)

// Params returns the (initial search query count, max research loop) pair
// for this depth. Unknown values fall back to Standard.
func (d ResearchDepth) Params() (queries, loops int) {
	switch d {
	case DepthBasic:
		return 2, 2
	case DepthComprehensive:
		return 6, 10
	default:
		return 4, 5
	}
}

// ReasoningModels lists the selectable agent model identifiers. The first
// entry is the default.
var ReasoningModels = []string{
	"gemini-2.5-flash-preview-04-17",
	"gemini-2.0-flash",
	"gemini-2.5-pro-preview-05-06",
}

// ReportRequest holds the parameters governing one report generation. It is
// recreated on every interaction and never persisted.
type ReportRequest struct {
	Type      ReportType    `json:"report_type"`
	Sections  []string      `json:"sections"`
	Citations CitationMode  `json:"citations"`
	Model     string        `json:"model"`
	Depth     ResearchDepth `json:"depth"`
}

// ReportResult is the post-processed agent response, alive for a single
// render cycle only.
type ReportResult struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
