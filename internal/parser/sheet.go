package parser

import (
	"strings"

	"github.com/spf13/cast"
)

// FromSheet converts a generic sheet (header row followed by data rows of arbitrary scalar cells)
// into a Dataset. Cells are coerced to trimmed strings; nil becomes "". Blank rows are dropped
// the same way the text scanner drops them.
func FromSheet(cells [][]any) *Dataset {
	rows := make([][]string, 0, len(cells))
	for _, r := range cells {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = strings.TrimSpace(cast.ToString(v))
		}
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return NewDataset(rows)
}
