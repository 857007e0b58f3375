package analysis

import (
	"sort"
	"strings"
)

// Header keywords used to preselect columns.
var (
	GroupKeywords    = []string{"gender", "sex"}
	DecisionKeywords = []string{"decision", "status", "outcome", "hire", "selected"}
)

// positiveTokens are decision values that usually mean "selected", in preference order.
var positiveTokens = []string{"hired", "hire", "selected", "yes", "y", "1", "true", "offer", "pass"}

// GuessColumn returns the first header whose lower-cased name contains any keyword, or "".
func GuessColumn(header []string, keywords []string) string {
	for _, h := range header {
		lower := strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return h
			}
		}
	}
	return ""
}

// GuessSelectedValues returns the known positive tokens present among values, ignoring case.
func GuessSelectedValues(values []string) []string {
	present := make(map[string]struct{}, len(values))
	for _, v := range values {
		present[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	var out []string
	for _, tok := range positiveTokens {
		if _, ok := present[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// DistinctSorted returns the distinct non-blank values in ascending order.
func DistinctSorted(values []string) []string {
	out := DistinctFirstSeen(values, 0)
	sort.Strings(out)
	return out
}

// DistinctFirstSeen returns distinct non-blank values in first-seen order, capped at limit
// when limit > 0.
func DistinctFirstSeen(values []string, limit int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
