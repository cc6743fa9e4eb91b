package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthParams(t *testing.T) {
	tests := []struct {
		depth       ResearchDepth
		wantQueries int
		wantLoops   int
	}{
		{DepthBasic, 2, 2},
		{DepthStandard, 4, 5},
		{DepthComprehensive, 6, 10},
		{ResearchDepth("bogus"), 4, 5}, // unknown falls back to Standard
		{ResearchDepth(""), 4, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			queries, loops := tt.depth.Params()
			assert.Equal(t, tt.wantQueries, queries)
			assert.Equal(t, tt.wantLoops, loops)
		})
	}
}

func TestReportTypeValid(t *testing.T) {
	for _, rt := range ReportTypes {
		assert.True(t, rt.Valid(), string(rt))
	}
	assert.False(t, ReportType("Quarterly Newsletter").Valid())
	assert.False(t, ReportType("").Valid())
}

func TestReportTypesOrder(t *testing.T) {
	assert.Equal(t, []ReportType{
		ReportDealSummary,
		ReportTargetAnalysis,
		ReportPortCoAnalysis,
		ReportInvestmentThesis,
	}, ReportTypes)
}

func TestReasoningModels(t *testing.T) {
	assert.Len(t, ReasoningModels, 3)
	assert.Equal(t, "gemini-2.5-flash-preview-04-17", ReasoningModels[0])
}
