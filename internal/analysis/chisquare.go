package analysis

import (
	"math"

	"github.com/KaramelBytes/adimpact-cli/internal/specfunc"
)

// ChiSquare is the outcome of the selected / not-selected by group test.
// All fields are NaN when there are no rows.
type ChiSquare struct {
	Chi2   float64
	DF     float64
	PValue float64
}

// Significant reports whether the p-value is below 0.05. NaN is never significant.
func (c ChiSquare) Significant() bool {
	return !math.IsNaN(c.PValue) && c.PValue < 0.05
}

// ChiSquareTest builds the 2xk table from groups and tests it against equal selection rates.
// Terms with a zero expected count are skipped. df is max(k-1, 1).
func ChiSquareTest(groups []Group) ChiSquare {
	var total, selected int
	for _, g := range groups {
		total += g.Total
		selected += g.Selected
	}
	if total == 0 {
		return ChiSquare{Chi2: math.NaN(), DF: math.NaN(), PValue: math.NaN()}
	}
	notSelected := total - selected

	chi2 := 0.0
	for _, g := range groups {
		obsSel := float64(g.Selected)
		obsNot := float64(g.Total - g.Selected)
		expSel := float64(g.Total) * float64(selected) / float64(total)
		expNot := float64(g.Total) * float64(notSelected) / float64(total)
		if expSel > 0 {
			chi2 += (obsSel - expSel) * (obsSel - expSel) / expSel
		}
		if expNot > 0 {
			chi2 += (obsNot - expNot) * (obsNot - expNot) / expNot
		}
	}
	df := float64(max(len(groups)-1, 1))
	return ChiSquare{Chi2: chi2, DF: df, PValue: specfunc.ChiSquareSurvival(chi2, df)}
}
