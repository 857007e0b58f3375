package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Rounding selects how candidate cut scores are placed on the step grid.
type Rounding string

const (
	// RoundingSnap clamps candidates to the observed score range, then snaps to the step.
	RoundingSnap Rounding = "snap"
	// RoundingSimple rounds candidates to the step without clamping.
	RoundingSimple Rounding = "round"
)

// Default steps for each rounding profile.
const (
	DefaultSnapStep  = 2.5
	DefaultRoundStep = 0.1
)

// ParseRounding accepts "snap" (default) and "round".
func ParseRounding(s string) (Rounding, bool) {
	switch s {
	case "", string(RoundingSnap):
		return RoundingSnap, true
	case string(RoundingSimple):
		return RoundingSimple, true
	default:
		return "", false
	}
}

// CutScoreSuggestion is the advisor output with the statistics it was derived from.
type CutScoreSuggestion struct {
	Scores []float64
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// SuggestCutScores proposes mean, mean±1 SD and mean±2 SD as cut scores, placed on the step grid,
// deduplicated and sorted descending. Non-numeric values are ignored.
func SuggestCutScores(values []string, step float64, rounding Rounding) ([]float64, error) {
	s, err := AdviseCutScores(values, step, rounding)
	if err != nil {
		return nil, err
	}
	return s.Scores, nil
}

// AdviseCutScores is SuggestCutScores plus the underlying score statistics.
func AdviseCutScores(values []string, step float64, rounding Rounding) (CutScoreSuggestion, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return CutScoreSuggestion{}, &ConfigError{Field: "cut step", Reason: fmt.Sprintf("%v (must be > 0)", step)}
	}
	scores := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := parseFinite(v); ok {
			scores = append(scores, f)
		}
	}
	if len(scores) == 0 {
		return CutScoreSuggestion{}, ErrNoNumericData
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return CutScoreSuggestion{}, fmt.Errorf("mean: %w", err)
	}
	sd := 0.0
	if len(scores) > 1 {
		if sd, err = stats.StandardDeviationSample(scores); err != nil {
			return CutScoreSuggestion{}, fmt.Errorf("standard deviation: %w", err)
		}
	}
	lo, err := stats.Min(scores)
	if err != nil {
		return CutScoreSuggestion{}, fmt.Errorf("min: %w", err)
	}
	hi, err := stats.Max(scores)
	if err != nil {
		return CutScoreSuggestion{}, fmt.Errorf("max: %w", err)
	}

	candidates := []float64{mean - 2*sd, mean - sd, mean, mean + sd, mean + 2*sd}
	seen := map[float64]struct{}{}
	out := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if rounding != RoundingSimple {
			c = math.Min(math.Max(c, lo), hi)
		}
		c = snap(c, step)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return CutScoreSuggestion{Scores: out, N: len(scores), Mean: mean, StdDev: sd, Min: lo, Max: hi}, nil
}

// snap rounds to the nearest multiple of step (halves up), then to 2 decimals.
func snap(v, step float64) float64 {
	s := math.Floor(v/step+0.5) * step
	return math.Floor(s*100+0.5) / 100
}
