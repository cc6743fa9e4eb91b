package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealscope/dealscope/internal/model"
)

func TestArtifact(t *testing.T) {
	result := &model.ReportResult{
		Title: "BGF Backs Anstey Horne",
		Body:  "The transaction completed in June.",
	}
	assert.Equal(t,
		"# BGF Backs Anstey Horne\n\nThe transaction completed in June.",
		Artifact(result),
	)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		company string
		rt      model.ReportType
		want    string
	}{
		{"Anstey Horne", model.ReportDealSummary, "Anstey Horne_Deal_Summary_Report.md"},
		{"BT2i", model.ReportTargetAnalysis, "BT2i_Target_Company_Analysis.md"},
		{"3DISC", model.ReportPortCoAnalysis, "3DISC_PortCo_Company_Analysis.md"},
		{"Widget Co", model.ReportInvestmentThesis, "Widget Co_Investment_Thesis_&_Value_Creation_Strategy.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.company, tt.rt))
	}
}
