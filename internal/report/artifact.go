package report

import (
	"fmt"
	"strings"

	"github.com/dealscope/dealscope/internal/model"
)

// Artifact composes the downloadable markdown document: the chosen title as
// a heading followed by the report body.
func Artifact(result *model.ReportResult) string {
	return fmt.Sprintf("# %s\n\n%s", result.Title, result.Body)
}

// Filename names the download artifact as {company}_{report_type}.md with
// spaces in the report type replaced by underscores.
func Filename(company string, t model.ReportType) string {
	return fmt.Sprintf("%s_%s.md", company, strings.ReplaceAll(string(t), " ", "_"))
}
