// Package report renders enrichment results for people. Three formats are
// supported: plain tab-delimited text, a markdown summary (optionally
// rendered to HTML), and an xlsx workbook.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"goterm/domain/core"
	"goterm/domain/enrich"
)

// WriteText writes the result as tab-delimited rows, one hypothesis per
// line, ordered as in the result. The Alpha threshold only affects the
// trailing summary line, never which rows are written.
func WriteText(w io.Writer, r *enrich.Result, alpha float64) error {
	header := []string{
		"category", "name", "raw_p", "corrected_p",
		"query_count", "background_count", "items",
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, h := range r.Hypotheses {
		row := []string{
			string(h.Category.ID),
			h.Category.Name,
			formatP(h.RawP),
			formatP(h.CorrectedP),
			strconv.Itoa(h.QueryCount),
			strconv.Itoa(h.BackgroundCount),
			joinItems(h.Items),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "# run %s: %d of %d hypotheses significant at corrected p < %g (factor %d)\n",
		r.RunID, len(r.Significant(alpha)), len(r.Hypotheses), alpha, r.CorrectionFactor)
	return err
}

func formatP(p float64) string {
	return strconv.FormatFloat(p, 'g', 6, 64)
}

func joinItems(items []core.ItemID) string {
	parts := make([]string, len(items))
	for i, id := range items {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
