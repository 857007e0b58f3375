package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parser decodes one tabular container format into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (*Dataset, error)
}

// Options carries decoder-specific selection settings.
type Options struct {
	// SheetName selects a workbook sheet by name (case-insensitive). XLSX only.
	SheetName string
	// SheetIndex is the 1-based sheet position used when SheetName is empty. XLSX only.
	SheetIndex int
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and decodes the file into a Dataset.
// Files with no matching parser are scanned as comma-delimited text.
func ParseFile(path string, opt Options) (*Dataset, error) {
	if ext := strings.ToLower(filepath.Ext(path)); unsupported[ext] {
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), ext, ErrUnsupported)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	p := lookup(path)
	ds, err := p.Parse(data, opt)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	ds.Name = filepath.Base(path)
	if len(ds.Header) == 0 {
		return nil, fmt.Errorf("parse %s: %w", ds.Name, ErrEmptyHeader)
	}
	return ds, nil
}

// DecoderName reports which registered decoder handles the given filename.
func DecoderName(path string) string {
	switch lookup(path).(type) {
	case xlsxParser:
		return "xlsx"
	case tsvParser:
		return "tsv"
	default:
		return "csv"
	}
}

func lookup(path string) Parser {
	for _, p := range registry {
		if p.CanParse(path) {
			return p
		}
	}
	return csvParser{}
}

func init() {
	Register(xlsxParser{})
	Register(tsvParser{})
	Register(csvParser{})
}

// unsupported are binary formats that must not fall through to the text scanner.
var unsupported = map[string]bool{".xls": true, ".ods": true, ".numbers": true, ".pdf": true, ".docx": true}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported tabular format")

// ErrEmptyHeader indicates no header row could be found. Analysis must not proceed.
var ErrEmptyHeader = errors.New("could not parse headers; check the file format")
