package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/adimpact-cli/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowsFor returns total rows for label, the first selected of them marked "Hired".
func rowsFor(label string, total, selected int) []parser.Record {
	out := make([]parser.Record, 0, total)
	for i := 0; i < total; i++ {
		decision := "Rejected"
		if i < selected {
			decision = "Hired"
		}
		out = append(out, parser.Record{"Gender": label, "Decision": decision})
	}
	return out
}

func concat(parts ...[]parser.Record) []parser.Record {
	var out []parser.Record
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func byLabel(t *testing.T, groups []Group, label string) Group {
	t.Helper()
	for _, g := range groups {
		if g.Label == label {
			return g
		}
	}
	t.Fatalf("group %q not found in %+v", label, groups)
	return Group{}
}

var hired = SelectedIn([]string{"hired"})

func TestAggregate_FourFifthsAgainstHighestRate(t *testing.T) {
	rows := concat(rowsFor("F", 50, 30), rowsFor("M", 50, 40))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	refRate, matched := ag.ApplyReference(agg.Groups, "")

	assert.False(t, matched)
	assert.Equal(t, 100, agg.RowsUsed)
	assert.InDelta(t, 0.8, agg.MaxSelectionRate, 1e-12)
	assert.InDelta(t, 0.8, refRate, 1e-12)

	require.Len(t, agg.Groups, 2)
	m, f := agg.Groups[0], agg.Groups[1]
	assert.Equal(t, "M", m.Label, "reference group sorts first")
	assert.True(t, m.IsReference)
	assert.Equal(t, 1.0, m.AdverseImpactRatio)
	assert.Equal(t, RulePass, m.Rule)

	assert.Equal(t, "F", f.Label)
	assert.False(t, f.IsReference)
	assert.InDelta(t, 0.75, f.AdverseImpactRatio, 1e-12)
	assert.Equal(t, RuleFail, f.Rule)
	pass, ok := f.Passes()
	assert.True(t, ok)
	assert.False(t, pass)
}

func TestApplyReference_ExplicitLabel(t *testing.T) {
	rows := concat(rowsFor("M", 50, 40), rowsFor("F", 50, 30))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	refRate, matched := ag.ApplyReference(agg.Groups, "F")

	assert.True(t, matched)
	assert.InDelta(t, 0.6, refRate, 1e-12)
	assert.Equal(t, "F", agg.Groups[0].Label)
	assert.True(t, agg.Groups[0].IsReference)
	assert.Equal(t, 1.0, agg.Groups[0].AdverseImpactRatio)
	assert.False(t, agg.Groups[1].IsReference)
	assert.InDelta(t, 0.8/0.6, agg.Groups[1].AdverseImpactRatio, 1e-12)
	assert.Equal(t, RulePass, agg.Groups[1].Rule)
}

func TestApplyReference_UnknownLabelFallsBackToMax(t *testing.T) {
	rows := concat(rowsFor("M", 10, 5), rowsFor("F", 10, 4))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	refRate, matched := ag.ApplyReference(agg.Groups, "Nonbinary")

	assert.False(t, matched)
	assert.InDelta(t, 0.5, refRate, 1e-12)
	assert.True(t, byLabel(t, agg.Groups, "M").IsReference)
	assert.False(t, byLabel(t, agg.Groups, "F").IsReference)
}

func TestApplyReference_TiesAreAllMarked(t *testing.T) {
	rows := concat(rowsFor("B", 2, 1), rowsFor("C", 3, 0), rowsFor("A", 4, 2))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	ag.ApplyReference(agg.Groups, "")

	labels := []string{agg.Groups[0].Label, agg.Groups[1].Label, agg.Groups[2].Label}
	assert.Equal(t, []string{"A", "B", "C"}, labels)
	assert.True(t, agg.Groups[0].IsReference)
	assert.True(t, agg.Groups[1].IsReference)
	assert.False(t, agg.Groups[2].IsReference)
	assert.Equal(t, 0.0, agg.Groups[2].AdverseImpactRatio)
	assert.Equal(t, RuleFail, agg.Groups[2].Rule)
}

func TestApplyReference_ZeroRateIsNotApplicable(t *testing.T) {
	rows := concat(rowsFor("M", 5, 0), rowsFor("F", 3, 0))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	refRate, _ := ag.ApplyReference(agg.Groups, "")

	assert.Equal(t, 0.0, refRate)
	for _, g := range agg.Groups {
		assert.True(t, math.IsNaN(g.AdverseImpactRatio), g.Label)
		assert.Equal(t, RuleNotApplicable, g.Rule)
		_, ok := g.Passes()
		assert.False(t, ok)
	}

	// An explicit reference with a zero rate is also not applicable.
	rows = concat(rowsFor("M", 5, 2), rowsFor("F", 3, 0))
	agg = ag.Aggregate(rows, "Gender", "Decision", hired)
	refRate, matched := ag.ApplyReference(agg.Groups, "F")
	assert.True(t, matched)
	assert.Equal(t, 0.0, refRate)
	assert.Equal(t, RuleNotApplicable, byLabel(t, agg.Groups, "M").Rule)
}

func TestAggregate_BlankCellsExcluded(t *testing.T) {
	rows := []parser.Record{
		{"Gender": "F", "Decision": "Hired"},
		{"Gender": "", "Decision": "Hired"},
		{"Gender": "M", "Decision": "  "},
		{"Gender": " M ", "Decision": "hired"},
		{"Gender": "M", "Decision": "Rejected"},
		{"Other": "x"},
	}
	agg := Aggregate(rows, "Gender", "Decision", hired)

	assert.Equal(t, 3, agg.RowsUsed)
	sum := 0
	for _, g := range agg.Groups {
		sum += g.Total
		assert.GreaterOrEqual(t, g.Selected, 0)
		assert.LessOrEqual(t, g.Selected, g.Total)
		assert.Positive(t, g.Total)
		assert.InDelta(t, float64(g.Selected)/float64(g.Total), g.SelectionRate, 1e-12)
	}
	assert.Equal(t, agg.RowsUsed, sum)
	assert.LessOrEqual(t, agg.RowsUsed, len(rows))

	m := byLabel(t, agg.Groups, "M")
	assert.Equal(t, 2, m.Total)
	assert.Equal(t, 1, m.Selected, "binary match ignores case")
}

func TestAggregate_SmallSampleIsInformational(t *testing.T) {
	rows := concat(rowsFor("M", 30, 15), rowsFor("F", 29, 15))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	ag.ApplyReference(agg.Groups, "")

	m, f := byLabel(t, agg.Groups, "M"), byLabel(t, agg.Groups, "F")
	assert.False(t, m.SmallSample)
	assert.True(t, f.SmallSample)
	assert.Equal(t, RulePass, f.Rule)
}

func TestAggregate_BoundaryIsInclusive(t *testing.T) {
	rows := concat(rowsFor("M", 10, 5), rowsFor("F", 10, 4))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	ag.ApplyReference(agg.Groups, "")
	f := byLabel(t, agg.Groups, "F")
	assert.InDelta(t, 0.8, f.AdverseImpactRatio, 1e-12)
	assert.Equal(t, RulePass, f.Rule)
}

func TestAggregate_OrderIsStableByTotal(t *testing.T) {
	rows := concat(rowsFor("Z", 5, 5), rowsFor("Y", 2, 0), rowsFor("X", 2, 0), rowsFor("W", 7, 1))
	ag := NewAggregator(DefaultOptions())
	agg := ag.Aggregate(rows, "Gender", "Decision", hired)
	ag.ApplyReference(agg.Groups, "")

	var labels []string
	for _, g := range agg.Groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"Z", "W", "Y", "X"}, labels)
}

func TestAggregate_NoRows(t *testing.T) {
	agg := Aggregate(nil, "Gender", "Decision", hired)
	assert.Empty(t, agg.Groups)
	assert.Equal(t, 0, agg.RowsUsed)
	assert.Equal(t, 0.0, agg.MaxSelectionRate)
}

func TestAtLeast_MonotoneInThreshold(t *testing.T) {
	var rows []parser.Record
	scores := []string{"55", "61", "68", "70", "74", "79", "80", "85", "91", "n/a", "97.5"}
	for i, s := range scores {
		label := "A"
		if i%2 == 1 {
			label = "B"
		}
		rows = append(rows, parser.Record{"Gender": label, "Decision": s})
	}
	prev := map[string]int{"A": math.MaxInt, "B": math.MaxInt}
	for _, cut := range []float64{50, 60, 70, 75, 80, 90, 100} {
		agg := Aggregate(rows, "Gender", "Decision", AtLeast(cut))
		for _, g := range agg.Groups {
			assert.LessOrEqual(t, g.Selected, prev[g.Label], "cut %v group %s", cut, g.Label)
			prev[g.Label] = g.Selected
		}
	}

	agg := Aggregate(rows, "Gender", "Decision", AtLeast(0))
	assert.Equal(t, len(scores), agg.RowsUsed, "non-numeric decisions still count in totals")
	b := byLabel(t, agg.Groups, "B")
	assert.Equal(t, b.Total-1, b.Selected)
}
