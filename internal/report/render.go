package report

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
)

// Format names an output rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names plus "md" and "htm".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &analysis.ConfigError{Field: "output format", Reason: strconv.Quote(s) + " (use markdown, html, csv or json)"}
	}
}

// Extension is the file extension used for batch outputs.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Render produces the report bytes for f.
func Render(f Format, results []analysis.Result) ([]byte, error) {
	switch f {
	case FormatHTML:
		return HTML(results), nil
	case FormatCSV:
		return CSV(results)
	case FormatJSON:
		return JSON(results)
	default:
		return []byte(Markdown(results)), nil
	}
}
