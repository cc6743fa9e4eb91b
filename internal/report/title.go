package report

import (
	"strings"
	"unicode"
)

// titleScanLines bounds how far into the response the title search looks.
const titleScanLines = 5

// ExtractTitle scans the first few lines of the report body for a line that
// looks like a title: a markdown heading, a fully upper-case line, or a
// line mentioning the investor. Heading markers are stripped from the
// winner. When nothing qualifies the fallback (the target company name) is
// returned unchanged.
func ExtractTitle(body, investor, fallback string) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "# ") || isUpper(line) || (investor != "" && strings.Contains(line, investor)) {
			title := strings.ReplaceAll(line, "# ", "")
			title = strings.ReplaceAll(title, "#", "")
			return strings.TrimSpace(title)
		}
	}
	return fallback
}

// isUpper reports whether s contains at least one letter and no lower-case
// letters, mirroring how a fully upper-case headline reads.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
