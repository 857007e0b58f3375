package report

import (
	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// Title of the standalone HTML page.
const Title = "Adverse Impact Report"

// HTML renders the Markdown report as a complete page. Raw HTML in cell values is dropped.
func HTML(results []analysis.Result) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CompletePage | html.SkipHTML,
		Title: Title,
	})
	return markdown.ToHTML([]byte(document(results, 3)), p, r)
}
