package parser

import "strings"

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt")
}

func (csvParser) Parse(content []byte, _ Options) (*Dataset, error) {
	return NewDataset(scanRows(trimBOM(content), ',')), nil
}

type tsvParser struct{}

func (tsvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".tsv")
}

func (tsvParser) Parse(content []byte, _ Options) (*Dataset, error) {
	return NewDataset(scanRows(trimBOM(content), '\t')), nil
}

// trimBOM drops a leading UTF-8 byte-order mark, as written by spreadsheet "CSV UTF-8" exports.
func trimBOM(content []byte) string {
	return strings.TrimPrefix(string(content), "\ufeff")
}

// ParseText splits comma-delimited text into a header and records.
// Empty input yields an empty header and no rows.
func ParseText(text string) ([]string, []Record) {
	ds := NewDataset(scanRows(text, ','))
	return ds.Header, ds.Rows
}

// scanRows is a single pass with one in-quotes flag. A doubled quote inside a quoted field is a
// literal quote; any other quote toggles quoting. "\n", "\r" and "\r\n" end a row outside quotes.
// Rows whose cells are all blank are dropped. An unterminated quote swallows the rest of the input.
func scanRows(text string, delim byte) [][]string {
	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)
	endRow := func() {
		row = append(row, cell.String())
		cell.Reset()
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			row = append(row, cell.String())
			cell.Reset()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			cell.WriteByte(c)
		}
	}
	if cell.Len() > 0 || len(row) > 0 {
		endRow()
	}
	return rows
}
