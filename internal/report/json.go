package report

import (
	"math"
	"time"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/utils"
)

type jsonGroup struct {
	Label              string   `json:"label"`
	Total              int      `json:"total"`
	Selected           int      `json:"selected"`
	SelectionRate      float64  `json:"selection_rate"`
	AdverseImpactRatio *float64 `json:"adverse_impact_ratio"`
	Rule               string   `json:"four_fifths_rule"`
	IsReference        bool     `json:"is_reference"`
	SmallSample        bool     `json:"small_sample"`
}

type jsonResult struct {
	RunID            string      `json:"run_id"`
	Source           string      `json:"source,omitempty"`
	GroupColumn      string      `json:"group_column"`
	DecisionColumn   string      `json:"decision_column"`
	Mode             string      `json:"mode"`
	CutScore         *float64    `json:"cut_score"`
	SelectedValues   []string    `json:"selected_values,omitempty"`
	RowsTotal        int         `json:"rows_total"`
	RowsUsed         int         `json:"rows_used"`
	MaxSelectionRate float64     `json:"max_selection_rate"`
	ReferenceGroup   string      `json:"reference_group,omitempty"`
	ReferenceRate    float64     `json:"reference_rate"`
	Chi2             *float64    `json:"chi2"`
	DF               *float64    `json:"df"`
	PValue           string      `json:"p_value"`
	Significant      bool        `json:"significant"`
	GeneratedAt      time.Time   `json:"generated_at"`
	Groups           []jsonGroup `json:"groups"`
}

// nullable maps non-finite values to JSON null.
func nullable(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

// rounded keeps three decimals of a finite statistic.
func rounded(v float64) *float64 {
	p := nullable(v)
	if p != nil {
		*p = math.Round(*p*1000) / 1000
	}
	return p
}

// JSON renders results as an indented array. Non-finite numbers become null;
// the p-value is reported as its significance label, like the other formats.
func JSON(results []analysis.Result) ([]byte, error) {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			RunID:            r.RunID,
			Source:           r.Source,
			GroupColumn:      r.GroupColumn,
			DecisionColumn:   r.DecisionColumn,
			Mode:             string(r.Mode),
			SelectedValues:   r.SelectedValues,
			RowsTotal:        r.RowsTotal,
			RowsUsed:         r.RowsUsed,
			MaxSelectionRate: r.MaxSelectionRate,
			ReferenceGroup:   r.ReferenceGroup,
			ReferenceRate:    r.ReferenceRate,
			Chi2:             rounded(r.Chi2),
			DF:               nullable(r.DF),
			PValue:           FormatPValue(r.PValue),
			Significant:      r.Significant(),
			GeneratedAt:      r.GeneratedAt,
			Groups:           make([]jsonGroup, 0, len(r.Groups)),
		}
		if r.HasCutScore() {
			jr.CutScore = nullable(r.CutScore)
		}
		for _, g := range r.Groups {
			jr.Groups = append(jr.Groups, jsonGroup{
				Label:              g.Label,
				Total:              g.Total,
				Selected:           g.Selected,
				SelectionRate:      g.SelectionRate,
				AdverseImpactRatio: nullable(g.AdverseImpactRatio),
				Rule:               string(g.Rule),
				IsReference:        g.IsReference,
				SmallSample:        g.SmallSample,
			})
		}
		out = append(out, jr)
	}
	return utils.PrettyJSON(out)
}
