package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goterm/domain/enrich"
)

// Markdown renders the result as a markdown document with a summary header
// and one table of hypotheses.
func Markdown(r *enrich.Result, alpha float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Enrichment run %s\n\n", r.RunID)
	fmt.Fprintf(&b, "- Aspect: %s\n", r.Aspect)
	fmt.Fprintf(&b, "- Mode: %s\n", r.Mode)
	fmt.Fprintf(&b, "- Correction: %s (factor %d)\n", r.Correction, r.CorrectionFactor)
	fmt.Fprintf(&b, "- Query size: %d of %d\n\n", r.QuerySize, r.PopulationSize)

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "- `%s`: %s\n", d.Code, d.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Hypotheses\n\n")
	if len(r.Hypotheses) == 0 {
		b.WriteString("No hypotheses were tested.\n")
		return b.String()
	}

	b.WriteString("| Category | Name | Raw p | Corrected p | Query | Background |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, h := range r.Hypotheses {
		name := h.Category.Name
		if h.CorrectedP < alpha {
			name = "**" + name + "**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d |\n",
			h.Category.ID, name, formatP(h.RawP), formatP(h.CorrectedP),
			h.QueryCount, h.BackgroundCount)
	}
	fmt.Fprintf(&b, "\n%d of %d significant at corrected p < %g.\n",
		len(r.Significant(alpha)), len(r.Hypotheses), alpha)
	return b.String()
}

// WriteHTML renders the markdown report to a standalone HTML fragment.
func WriteHTML(w io.Writer, r *enrich.Result, alpha float64) error {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML([]byte(Markdown(r, alpha)), p, renderer)
	_, err := w.Write(out)
	return err
}
