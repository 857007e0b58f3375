package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
)

// CSVHeader is the results export header.
var CSVHeader = []string{"CutScore", "Group", "Total", "Selected", "SelectionRate", "AdverseImpactRatio", "FourFifthsRule"}

// CSV exports one row per group per result. CutScore is blank for binary results and the ratio
// is blank when not applicable.
func CSV(results []analysis.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		cut := ""
		if r.HasCutScore() {
			cut = FormatCutScore(r.CutScore)
		}
		for _, g := range r.Groups {
			ratio := ""
			if finite(g.AdverseImpactRatio) {
				ratio = FormatRatio(g.AdverseImpactRatio)
			}
			rec := []string{
				cut,
				g.Label,
				strconv.Itoa(g.Total),
				strconv.Itoa(g.Selected),
				strconv.FormatFloat(g.SelectionRate, 'f', 4, 64),
				ratio,
				RuleText(g.Rule),
			}
			if err := w.Write(rec); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
