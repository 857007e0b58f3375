package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/parser"
)

// DecisionMode selects how a decision cell is turned into selected / not selected.
type DecisionMode string

const (
	// ModeBinary selects rows whose decision value is one of SelectedValues (case-insensitive).
	ModeBinary DecisionMode = "binary"
	// ModeScoreThreshold selects rows whose numeric decision value is >= the cut score.
	ModeScoreThreshold DecisionMode = "score-threshold"
)

// ParseMode accepts the canonical mode names plus the short aliases "score" and "threshold".
func ParseMode(s string) (DecisionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary":
		return ModeBinary, true
	case "score-threshold", "score", "threshold":
		return ModeScoreThreshold, true
	default:
		return "", false
	}
}

// Options controls one analysis invocation.
type Options struct {
	GroupColumn    string
	DecisionColumn string
	Mode           DecisionMode
	// SelectedValues are the decision values counted as selected in binary mode.
	SelectedValues []string
	// Thresholds are cut scores for score-threshold mode; one Result per entry.
	Thresholds []float64
	// ReferenceGroup is the group whose rate is the ratio denominator. Empty means highest rate.
	ReferenceGroup string
	// FourFifths is the inclusive pass boundary for the adverse impact ratio.
	FourFifths float64
	// SmallSampleMin flags groups with fewer rows as small samples.
	SmallSampleMin int
}

// DefaultOptions returns the standard 4/5ths screening configuration.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeBinary,
		FourFifths:     0.8,
		SmallSampleMin: 30,
	}
}

// Validate checks the options against a dataset header and returns the normalized options.
// A nil header skips the column existence check.
func (o Options) Validate(header []string) (Options, error) {
	o.GroupColumn = strings.TrimSpace(o.GroupColumn)
	o.DecisionColumn = strings.TrimSpace(o.DecisionColumn)
	o.ReferenceGroup = strings.TrimSpace(o.ReferenceGroup)
	if o.GroupColumn == "" || o.DecisionColumn == "" {
		return o, &ConfigError{Reason: "please select both the group and decision columns"}
	}
	if header != nil {
		ds := parser.Dataset{Header: header}
		if !ds.HasColumn(o.GroupColumn) {
			return o, &ConfigError{Field: "group column", Reason: strconv.Quote(o.GroupColumn) + " is not in the header"}
		}
		if !ds.HasColumn(o.DecisionColumn) {
			return o, &ConfigError{Field: "decision column", Reason: strconv.Quote(o.DecisionColumn) + " is not in the header"}
		}
	}
	mode, ok := ParseMode(string(o.Mode))
	if !ok {
		return o, &ConfigError{Field: "decision mode", Reason: strconv.Quote(string(o.Mode)) + " (use binary or score-threshold)"}
	}
	o.Mode = mode
	if o.FourFifths <= 0 {
		o.FourFifths = 0.8
	}
	if o.SmallSampleMin <= 0 {
		o.SmallSampleMin = 30
	}
	switch o.Mode {
	case ModeBinary:
		o.SelectedValues = NormalizeSelectedValues(o.SelectedValues)
		if len(o.SelectedValues) == 0 {
			return o, &ConfigError{Field: "selected values", Reason: "please select at least one selected value"}
		}
		o.Thresholds = nil
	case ModeScoreThreshold:
		valid := make([]float64, 0, len(o.Thresholds))
		for _, t := range o.Thresholds {
			if !math.IsNaN(t) && !math.IsInf(t, 0) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			return o, &ConfigError{Field: "cut scores", Reason: "please enter at least one cut score (e.g. 75; 77.5; 80)"}
		}
		o.Thresholds = valid
		o.SelectedValues = nil
	}
	return o, nil
}

// NormalizeSelectedValues trims, drops blanks and removes duplicates, keeping first occurrence.
func NormalizeSelectedValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParseThresholds reads a "75; 77.5; 80" list. Blank and non-numeric entries are skipped.
func ParseThresholds(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if f, ok := parseFinite(part); ok {
			out = append(out, f)
		}
	}
	return out
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
