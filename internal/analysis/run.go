package analysis

import (
	"time"

	"github.com/KaramelBytes/adimpact-cli/internal/parser"
	"github.com/google/uuid"
)

// Result is one evaluated decision rule: the binary rule, or a single cut score.
// Results are built in one pass and not modified afterwards.
type Result struct {
	RunID          string
	Source         string
	GroupColumn    string
	DecisionColumn string
	Mode           DecisionMode
	// CutScore is set in score-threshold mode only.
	CutScore         float64
	SelectedValues   []string
	RowsTotal        int
	RowsUsed         int
	Groups           []Group
	MaxSelectionRate float64
	SmallSampleMin   int
	// ReferenceGroup is empty when the highest selection rate was used.
	ReferenceGroup string
	ReferenceRate  float64
	ChiSquare
	GeneratedAt time.Time
}

// HasCutScore reports whether the result belongs to a score-threshold run.
func (r Result) HasCutScore() bool { return r.Mode == ModeScoreThreshold }

// Run validates opt against the dataset and evaluates every decision rule. Binary mode yields
// exactly one Result; score-threshold mode yields one per threshold in the given order.
// All results of one call share a RunID.
func Run(ds *parser.Dataset, opt Options) ([]Result, error) {
	opt, err := opt.Validate(ds.Header)
	if err != nil {
		return nil, err
	}
	ag := NewAggregator(opt)
	runID := uuid.NewString()
	now := time.Now()

	evaluate := func(isSelected Predicate, cut float64) Result {
		agg := ag.Aggregate(ds.Rows, opt.GroupColumn, opt.DecisionColumn, isSelected)
		refRate, matched := ag.ApplyReference(agg.Groups, opt.ReferenceGroup)
		res := Result{
			RunID:            runID,
			Source:           ds.Name,
			GroupColumn:      opt.GroupColumn,
			DecisionColumn:   opt.DecisionColumn,
			Mode:             opt.Mode,
			CutScore:         cut,
			SelectedValues:   opt.SelectedValues,
			RowsTotal:        len(ds.Rows),
			RowsUsed:         agg.RowsUsed,
			Groups:           agg.Groups,
			MaxSelectionRate: agg.MaxSelectionRate,
			SmallSampleMin:   ag.SmallSampleMin,
			ReferenceRate:    refRate,
			ChiSquare:        ChiSquareTest(agg.Groups),
			GeneratedAt:      now,
		}
		if matched {
			res.ReferenceGroup = opt.ReferenceGroup
		}
		return res
	}

	if opt.Mode == ModeBinary {
		return []Result{evaluate(SelectedIn(opt.SelectedValues), 0)}, nil
	}
	results := make([]Result, 0, len(opt.Thresholds))
	for _, cut := range opt.Thresholds {
		results = append(results, evaluate(AtLeast(cut), cut))
	}
	return results, nil
}
