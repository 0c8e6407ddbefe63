package report

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"goterm/domain/enrich"
)

// WriteXLSX writes the result as a workbook with a Summary sheet and a
// Hypotheses sheet.
func WriteXLSX(path string, r *enrich.Result, alpha float64) error {
	f := excelize.NewFile()

	sheet := "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Run", string(r.RunID)},
		{"Aspect", r.Aspect},
		{"Mode", string(r.Mode)},
		{"Correction", string(r.Correction)},
		{"Correction factor", r.CorrectionFactor},
		{"Query size", r.QuerySize},
		{"Population size", r.PopulationSize},
		{"Hypotheses", len(r.Hypotheses)},
		{"Significant", len(r.Significant(alpha))},
		{"Alpha", alpha},
	}
	for i, row := range summary {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	hyp := "Hypotheses"
	idx, err := f.NewSheet(hyp)
	if err != nil {
		return err
	}
	headers := []string{
		"Category", "Name", "Raw p", "Corrected p",
		"Query count", "Background count", "Items",
	}
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(hyp, cell, h); err != nil {
			return err
		}
	}
	for i, h := range r.Hypotheses {
		row := []interface{}{
			string(h.Category.ID), h.Category.Name, h.RawP, h.CorrectedP,
			h.QueryCount, h.BackgroundCount, joinItems(h.Items),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			if err := f.SetCellValue(hyp, cell, v); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(idx)

	if len(r.Diagnostics) > 0 {
		diag := "Diagnostics"
		if _, err := f.NewSheet(diag); err != nil {
			return err
		}
		for i, d := range r.Diagnostics {
			cellA, _ := excelize.CoordinatesToCellName(1, i+1)
			cellB, _ := excelize.CoordinatesToCellName(2, i+1)
			if err := f.SetCellValue(diag, cellA, string(d.Code)); err != nil {
				return err
			}
			if err := f.SetCellValue(diag, cellB, d.Message); err != nil {
				return err
			}
		}
	}

	if !strings.HasSuffix(path, ".xlsx") {
		path += ".xlsx"
	}
	return f.SaveAs(path)
}
