package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
)

// writeXLSX saves all three tables as named sheets of one workbook.
func writeXLSX(path string, t *batch.Tables) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetPCR, pcrHeader, pcrRows(t)},
		{SheetConstruction, constructionHeader, constructionRows(t)},
		{SheetPrimers, primersHeader, primerRows(t)},
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.name, err)
		}

		header := make([]any, len(sheet.header))
		for i, h := range sheet.header {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write %q header: %w", sheet.name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(sheet.header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.name, "A1", last, bold); err != nil {
			return fmt.Errorf("failed to style %q header: %w", sheet.name, err)
		}

		for i, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %q row %d: %w", sheet.name, i+1, err)
			}
		}
	}

	// the workbook opens on the PCR sheet, not excelize's default
	index, err := f.GetSheetIndex(SheetPCR)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
