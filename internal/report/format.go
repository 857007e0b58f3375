// Package report renders analysis results for people and spreadsheets.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
)

const notAvailable = "N/A"

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// FormatPercent renders a rate as a percentage with one decimal, or N/A.
func FormatPercent(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatPValue renders only which side of 0.05 the p-value falls on.
func FormatPValue(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	if v < 0.05 {
		return "p < 0.05"
	}
	return "p > 0.05"
}

// FormatRatio renders an adverse impact ratio with two decimals, or N/A.
func FormatRatio(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatFixed renders v with the given decimals, or N/A.
func FormatFixed(v float64, decimals int) string {
	if !finite(v) {
		return notAvailable
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatCutScore renders a cut score in its shortest form (80, 77.5).
func FormatCutScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RuleText is the display form of a 4/5ths outcome.
func RuleText(s analysis.RuleStatus) string {
	switch s {
	case analysis.RulePass:
		return "Pass"
	case analysis.RuleFail:
		return "Fail"
	default:
		return notAvailable
	}
}

// Heading names one result: the binary rule or its cut score.
func Heading(r analysis.Result) string {
	if r.HasCutScore() {
		return "Cut score: " + FormatCutScore(r.CutScore)
	}
	return "Binary decision"
}

func decisionType(m analysis.DecisionMode) string {
	if m == analysis.ModeScoreThreshold {
		return "Score / cut score"
	}
	return "Binary decision"
}

func safeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
