package report

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []analysis.Result {
	cs := analysis.ChiSquareTest([]analysis.Group{
		{Label: "Male", Total: 50, Selected: 40},
		{Label: "Female", Total: 50, Selected: 30},
	})
	return []analysis.Result{{
		RunID:            "run-1",
		Source:           "hiring.csv",
		GroupColumn:      "Gender",
		DecisionColumn:   "Decision",
		Mode:             analysis.ModeBinary,
		SelectedValues:   []string{"Hired", "Offer"},
		RowsTotal:        104,
		RowsUsed:         100,
		MaxSelectionRate: 0.8,
		SmallSampleMin:   30,
		ReferenceRate:    0.8,
		ChiSquare:        cs,
		GeneratedAt:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Groups: []analysis.Group{
			{Label: "Male", Total: 50, Selected: 40, SelectionRate: 0.8, AdverseImpactRatio: 1, Rule: analysis.RulePass, IsReference: true},
			{Label: "Female", Total: 50, Selected: 30, SelectionRate: 0.6, AdverseImpactRatio: 0.75, Rule: analysis.RuleFail},
			{Label: "Other|Unknown", Total: 4, Selected: 0, SelectionRate: 0, AdverseImpactRatio: math.NaN(), Rule: analysis.RuleNotApplicable, SmallSample: true},
		},
	}}
}

func thresholdResults() []analysis.Result {
	base := sampleResults()[0]
	base.Mode = analysis.ModeScoreThreshold
	base.SelectedValues = nil
	a, b := base, base
	a.CutScore = 77.5
	b.CutScore = 80
	b.Groups = nil
	b.ChiSquare = analysis.ChiSquare{Chi2: math.NaN(), DF: math.NaN(), PValue: math.NaN()}
	return []analysis.Result{a, b}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "75.0%", FormatPercent(0.75))
	assert.Equal(t, "66.7%", FormatPercent(2.0/3))
	assert.Equal(t, "N/A", FormatPercent(math.NaN()))
	assert.Equal(t, "N/A", FormatPercent(math.Inf(1)))

	assert.Equal(t, "p < 0.05", FormatPValue(0.0291))
	assert.Equal(t, "p > 0.05", FormatPValue(0.05))
	assert.Equal(t, "p > 0.05", FormatPValue(1))
	assert.Equal(t, "N/A", FormatPValue(math.NaN()))

	assert.Equal(t, "0.75", FormatRatio(0.75))
	assert.Equal(t, "1.33", FormatRatio(0.8/0.6))
	assert.Equal(t, "N/A", FormatRatio(math.NaN()))

	assert.Equal(t, "4.762", FormatFixed(50.0/35+50.0/15, 3))
	assert.Equal(t, "77.5", FormatCutScore(77.5))
	assert.Equal(t, "80", FormatCutScore(80))

	assert.Equal(t, "Pass", RuleText(analysis.RulePass))
	assert.Equal(t, "Fail", RuleText(analysis.RuleFail))
	assert.Equal(t, "N/A", RuleText(analysis.RuleNotApplicable))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResults())
	for _, want := range []string{
		"# Adverse Impact Analysis Report",
		"- File: hiring.csv",
		"- Rows analyzed: 100 / 104",
		"- Demographic column: Gender",
		"- Decision type: Binary decision",
		"- Selected values: Hired, Offer",
		"- Reference group: Highest selection rate",
		"## Binary decision",
		"- Max selection rate: 80.0%",
		"- Chi-square: 4.76 (df=1)",
		"- P-value (chi-square): p < 0.05",
		"| Male (reference) | 50 | 40 | 80.0% | 1.00 | Pass |",
		"| Female | 50 | 30 | 60.0% | 0.75 | Fail |",
		"| Other\\|Unknown | 4 | 0 | 0.0% | N/A | N/A |",
		"Small sample (n < 30): Other|Unknown.",
		Disclaimer,
	} {
		assert.Contains(t, md, want)
	}
}

func TestMarkdown_Thresholds(t *testing.T) {
	md := Markdown(thresholdResults())
	assert.Contains(t, md, "- Decision type: Score / cut score")
	assert.Contains(t, md, "- Selected values: N/A")
	assert.Contains(t, md, "## Cut score: 77.5")
	assert.Contains(t, md, "## Cut score: 80")
	assert.Contains(t, md, "- Chi-square: N/A (df=N/A)")
	assert.Contains(t, md, "No rows with both a group and a decision value.")
	assert.Less(t, strings.Index(md, "Cut score: 77.5"), strings.Index(md, "Cut score: 80"))
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Contains(t, Markdown(nil), "No results.")
}

func TestHTML(t *testing.T) {
	results := sampleResults()
	results[0].Groups[1].Label = "<b>Female</b>"
	page := string(HTML(results))
	assert.Contains(t, page, "<title>Adverse Impact Report</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "Chi-square: 4.762 (df=1)")
	assert.Contains(t, page, "EEOC 4/5ths rule")
	assert.NotContains(t, page, "<b>Female</b>")
}

func TestCSV(t *testing.T) {
	b, err := CSV(sampleResults())
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, CSVHeader, recs[0])
	assert.Equal(t, []string{"", "Male", "50", "40", "0.8000", "1.00", "Pass"}, recs[1])
	assert.Equal(t, []string{"", "Female", "50", "30", "0.6000", "0.75", "Fail"}, recs[2])
	assert.Equal(t, []string{"", "Other|Unknown", "4", "0", "0.0000", "", "N/A"}, recs[3])

	b, err = CSV(thresholdResults())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "77.5,Male,"))
}

func TestJSON_NonFiniteIsNull(t *testing.T) {
	b, err := JSON(thresholdResults())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 77.5, decoded[0]["cut_score"])
	assert.Equal(t, true, decoded[0]["significant"])
	groups := decoded[0]["groups"].([]any)
	require.Len(t, groups, 3)
	assert.Nil(t, groups[2].(map[string]any)["adverse_impact_ratio"])
	assert.Equal(t, "n/a", groups[2].(map[string]any)["four_fifths_rule"])

	assert.Nil(t, decoded[1]["chi2"])
	assert.Equal(t, "N/A", decoded[1]["p_value"])
	assert.Empty(t, decoded[1]["groups"])

	b, err = JSON(sampleResults())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"cut_score": null`)
}

func TestJSON_PValueLabelAndRoundedChi2(t *testing.T) {
	b, err := JSON(sampleResults())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "p < 0.05", decoded[0]["p_value"])
	assert.Equal(t, 4.762, decoded[0]["chi2"])
	assert.Equal(t, true, decoded[0]["significant"])
	assert.NotContains(t, string(b), "0.029")
}

func TestParseFormatAndRender(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "html": FormatHTML, "csv": FormatCSV, " json ": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, analysis.IsConfigError(err))
	assert.Equal(t, "md", FormatMarkdown.Extension())
	assert.Equal(t, "json", FormatJSON.Extension())

	for _, f := range []Format{FormatMarkdown, FormatHTML, FormatCSV, FormatJSON} {
		b, err := Render(f, sampleResults())
		require.NoError(t, err)
		assert.NotEmpty(t, b)
	}
}
