package analysis

import "strings"

// Predicate decides whether a trimmed, non-blank decision value counts as selected.
type Predicate func(decision string) bool

// SelectedIn matches decision values against a set, ignoring case.
func SelectedIn(values []string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return func(decision string) bool {
		_, ok := set[strings.ToLower(decision)]
		return ok
	}
}

// AtLeast selects numeric decision values >= cut. Non-numeric values are never selected.
func AtLeast(cut float64) Predicate {
	return func(decision string) bool {
		score, ok := parseFinite(decision)
		return ok && score >= cut
	}
}
