package parser

import "strings"

// Record maps a column name to its trimmed cell value. Every header column is present;
// missing cells map to "".
type Record map[string]string

// Dataset is a header plus the ordered records decoded from one table.
type Dataset struct {
	Name   string
	Header []string
	Rows   []Record
}

// NewDataset builds a Dataset from raw rows. The first row becomes the trimmed header and each
// later row is keyed by header position. Short rows are padded with "", extra cells are ignored.
// Duplicate header names are kept; the rightmost column wins in the record.
func NewDataset(rows [][]string) *Dataset {
	if len(rows) == 0 {
		return &Dataset{Header: []string{}, Rows: []Record{}}
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, h := range header {
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			rec[h] = val
		}
		records = append(records, rec)
	}
	return &Dataset{Header: header, Rows: records}
}

// HasColumn reports whether name is one of the header columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, h := range d.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Values returns the non-blank values of a column in row order.
func (d *Dataset) Values(column string) []string {
	var out []string
	for _, r := range d.Rows {
		if v := r[column]; v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
