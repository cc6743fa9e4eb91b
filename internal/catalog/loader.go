package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/model"
)

// DefaultCandidates is the fixed fallback order tried after the configured
// path. The relative locations exist as a migration aid for datasets laid
// out the way the original scraper left them; new deployments should set
// catalog.path explicitly.
var DefaultCandidates = []string{
	"scraped_companies_final.json",
	"data/scraped_companies_final.json",
	"../data/scraped_companies_final.json",
}

// Attempt records one candidate location that failed to yield a catalog.
type Attempt struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Diagnostics describes why no candidate location produced a catalog. It is
// surfaced to the user together with the manual-upload fallback.
type Diagnostics struct {
	Attempts []Attempt `json:"attempts"`
}

// Summary renders the diagnostics as a single user-visible message.
func (d *Diagnostics) Summary() string {
	var b strings.Builder
	b.WriteString("could not load deal data from any candidate location:")
	for _, a := range d.Attempts {
		fmt.Fprintf(&b, "\n  %s: %s", a.Path, a.Reason)
	}
	b.WriteString("\nsupply the file manually or set catalog.path")
	return b.String()
}

// Load reads the deal catalog, trying the configured path first and then
// each entry of DefaultCandidates in order. The first location that parses
// wins. Load never fails: when every candidate is exhausted it returns an
// empty catalog together with non-nil Diagnostics listing what was tried.
func Load(path string) (*model.Catalog, *Diagnostics) {
	candidates := make([]string, 0, len(DefaultCandidates)+1)
	if path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, DefaultCandidates...)

	diag := &Diagnostics{}
	for _, p := range candidates {
		f, err := os.Open(p)
		if err != nil {
			diag.Attempts = append(diag.Attempts, Attempt{Path: p, Reason: err.Error()})
			continue
		}
		cat, err := LoadReader(f)
		f.Close()
		if err != nil {
			diag.Attempts = append(diag.Attempts, Attempt{Path: p, Reason: err.Error()})
			continue
		}
		zap.L().Info("catalog loaded",
			zap.String("path", p),
			zap.Int("portfolios", len(cat.Portfolios)),
		)
		return cat, nil
	}

	zap.L().Warn("catalog load failed, falling back to empty catalog",
		zap.Int("candidates_tried", len(diag.Attempts)),
	)
	return &model.Catalog{Portfolios: []model.Portfolio{}}, diag
}

// LoadReader decodes a catalog from r. This is the manual-supply path used
// when automatic loading fails; a parse error here leaves any previously
// loaded catalog untouched.
func LoadReader(r io.Reader) (*model.Catalog, error) {
	var cat model.Catalog
	if err := json.NewDecoder(r).Decode(&cat); err != nil {
		return nil, eris.Wrap(err, "catalog: decode")
	}
	if cat.Portfolios == nil {
		cat.Portfolios = []model.Portfolio{}
	}
	return &cat, nil
}
