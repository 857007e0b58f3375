package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/parser"
)

// RuleStatus is the 4/5ths outcome for one group.
type RuleStatus string

const (
	RulePass          RuleStatus = "pass"
	RuleFail          RuleStatus = "fail"
	RuleNotApplicable RuleStatus = "n/a" // reference rate is zero
)

// Group holds the selection counts and ratios for one value of the grouping column.
type Group struct {
	Label         string
	Total         int
	Selected      int
	SelectionRate float64
	// AdverseImpactRatio is NaN when the reference rate is zero.
	AdverseImpactRatio float64
	Rule               RuleStatus
	IsReference        bool
	// SmallSample is informational; it never changes Rule.
	SmallSample bool
}

// Passes reports whether the group passes the 4/5ths rule. ok is false when not applicable.
func (g Group) Passes() (pass bool, ok bool) {
	switch g.Rule {
	case RulePass:
		return true, true
	case RuleFail:
		return false, true
	default:
		return false, false
	}
}

// Aggregation is the output of one pass over the rows.
type Aggregation struct {
	Groups           []Group
	RowsUsed         int
	MaxSelectionRate float64
}

// Aggregator applies the ratio thresholds. The zero value is not useful; use NewAggregator.
type Aggregator struct {
	FourFifths     float64
	SmallSampleMin int
}

// NewAggregator builds an Aggregator from analysis options.
func NewAggregator(opt Options) Aggregator {
	ag := Aggregator{FourFifths: opt.FourFifths, SmallSampleMin: opt.SmallSampleMin}
	if ag.FourFifths <= 0 {
		ag.FourFifths = 0.8
	}
	if ag.SmallSampleMin <= 0 {
		ag.SmallSampleMin = 30
	}
	return ag
}

// Aggregate uses the default 0.8 boundary and 30-row small sample flag.
func Aggregate(rows []parser.Record, groupColumn, decisionColumn string, isSelected Predicate) Aggregation {
	return NewAggregator(DefaultOptions()).Aggregate(rows, groupColumn, decisionColumn, isSelected)
}

// Aggregate partitions rows by the grouping column. Rows with a blank grouping or decision cell
// are skipped entirely. Ratios are computed against the highest selection rate; ApplyReference
// replaces them.
func (ag Aggregator) Aggregate(rows []parser.Record, groupColumn, decisionColumn string, isSelected Predicate) Aggregation {
	type bucket struct {
		total, selected int
	}
	counts := map[string]*bucket{}
	var order []string
	var used int
	for _, row := range rows {
		label := strings.TrimSpace(row[groupColumn])
		decision := strings.TrimSpace(row[decisionColumn])
		if label == "" || decision == "" {
			continue
		}
		used++
		b := counts[label]
		if b == nil {
			b = &bucket{}
			counts[label] = b
			order = append(order, label)
		}
		b.total++
		if isSelected(decision) {
			b.selected++
		}
	}

	groups := make([]Group, 0, len(order))
	maxRate := 0.0
	for _, label := range order {
		b := counts[label]
		g := Group{Label: label, Total: b.total, Selected: b.selected, SmallSample: b.total < ag.SmallSampleMin}
		if b.total > 0 {
			g.SelectionRate = float64(b.selected) / float64(b.total)
		}
		if g.SelectionRate > maxRate {
			maxRate = g.SelectionRate
		}
		groups = append(groups, g)
	}
	for i := range groups {
		ag.rate(&groups[i], maxRate)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total > groups[j].Total })
	return Aggregation{Groups: groups, RowsUsed: used, MaxSelectionRate: maxRate}
}

// ApplyReference recomputes ratios against the reference rate and orders reference groups first,
// then by descending total. If label names a group, that group's rate is the reference and only
// it is marked. Otherwise the highest rate is used and every group at that rate is marked.
// It returns the reference rate and whether label matched a group.
func (ag Aggregator) ApplyReference(groups []Group, label string) (float64, bool) {
	label = strings.TrimSpace(label)
	refIdx := -1
	if label != "" {
		for i := range groups {
			if groups[i].Label == label {
				refIdx = i
				break
			}
		}
	}
	refRate := 0.0
	if refIdx >= 0 {
		refRate = groups[refIdx].SelectionRate
	} else {
		for _, g := range groups {
			if g.SelectionRate > refRate {
				refRate = g.SelectionRate
			}
		}
	}
	for i := range groups {
		g := &groups[i]
		ag.rate(g, refRate)
		if refIdx >= 0 {
			g.IsReference = i == refIdx
		} else {
			g.IsReference = g.SelectionRate == refRate
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].IsReference != groups[j].IsReference {
			return groups[i].IsReference
		}
		return groups[i].Total > groups[j].Total
	})
	return refRate, refIdx >= 0
}

func (ag Aggregator) rate(g *Group, refRate float64) {
	if refRate > 0 {
		g.AdverseImpactRatio = g.SelectionRate / refRate
		if g.AdverseImpactRatio >= ag.FourFifths {
			g.Rule = RulePass
		} else {
			g.Rule = RuleFail
		}
		return
	}
	g.AdverseImpactRatio = math.NaN()
	g.Rule = RuleNotApplicable
}
