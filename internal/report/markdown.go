package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
)

// Disclaimer closes every report.
const Disclaimer = "This report applies the EEOC 4/5ths rule as a screening heuristic. " +
	"Statistical tests and legal review may be required for compliance."

// Markdown renders results as a Markdown document. Chi-square values use two decimals.
func Markdown(results []analysis.Result) string {
	return document(results, 2)
}

// document renders the shared Markdown body; HTML reuses it with more chi-square precision.
func document(results []analysis.Result, chiDecimals int) string {
	var b strings.Builder
	b.WriteString("# Adverse Impact Analysis Report\n\n")
	if len(results) == 0 {
		b.WriteString("No results.\n")
		return b.String()
	}
	base := results[0]
	selected := notAvailable
	if len(base.SelectedValues) > 0 {
		selected = strings.Join(base.SelectedValues, ", ")
	}
	reference := base.ReferenceGroup
	if reference == "" {
		reference = "Highest selection rate"
	}
	if !base.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("- Generated: %s\n", base.GeneratedAt.Format("2006-01-02 15:04:05")))
	}
	if base.Source != "" {
		b.WriteString(fmt.Sprintf("- File: %s\n", base.Source))
	}
	b.WriteString(fmt.Sprintf("- Rows analyzed: %d / %d\n", base.RowsUsed, base.RowsTotal))
	b.WriteString(fmt.Sprintf("- Demographic column: %s\n", base.GroupColumn))
	b.WriteString(fmt.Sprintf("- Decision column: %s\n", base.DecisionColumn))
	b.WriteString(fmt.Sprintf("- Decision type: %s\n", decisionType(base.Mode)))
	b.WriteString(fmt.Sprintf("- Selected values: %s\n", selected))
	b.WriteString(fmt.Sprintf("- Reference group: %s\n", reference))

	for _, r := range results {
		b.WriteString("\n## " + Heading(r) + "\n\n")
		b.WriteString(fmt.Sprintf("- Max selection rate: %s\n", FormatPercent(r.MaxSelectionRate)))
		b.WriteString(fmt.Sprintf("- Chi-square: %s (df=%s)\n", FormatFixed(r.Chi2, chiDecimals), FormatFixed(r.DF, 0)))
		b.WriteString(fmt.Sprintf("- P-value (chi-square): %s\n\n", FormatPValue(r.PValue)))

		if len(r.Groups) == 0 {
			b.WriteString("No rows with both a group and a decision value.\n")
			continue
		}
		b.WriteString("| Group | Total | Selected | Selection Rate | Adverse Impact Ratio | 4/5ths Rule |\n")
		b.WriteString("|---|---:|---:|---:|---:|---|\n")
		var small []string
		for _, g := range r.Groups {
			label := safeCell(g.Label)
			if g.IsReference {
				label += " (reference)"
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s |\n",
				label, g.Total, g.Selected, FormatPercent(g.SelectionRate), FormatRatio(g.AdverseImpactRatio), RuleText(g.Rule)))
			if g.SmallSample {
				small = append(small, g.Label)
			}
		}
		if len(small) > 0 {
			b.WriteString(fmt.Sprintf("\nSmall sample (n < %d): %s. Interpret these ratios with caution.\n",
				r.SmallSampleMin, strings.Join(small, ", ")))
		}
	}
	b.WriteString("\n---\n\n" + Disclaimer + "\n")
	return b.String()
}
