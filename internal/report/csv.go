package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
)

// writeCSV saves one file per table, named <stem>.pcr.csv,
// <stem>.construction.csv and <stem>.primers.csv.
func writeCSV(path string, t *batch.Tables) error {
	stem := strings.TrimSuffix(path, ".csv")

	files := []struct {
		path   string
		header []string
		rows   [][]any
	}{
		{stem + ".pcr.csv", pcrHeader, pcrRows(t)},
		{stem + ".construction.csv", constructionHeader, constructionRows(t)},
		{stem + ".primers.csv", primersHeader, primerRows(t)},
	}

	for _, file := range files {
		if err := writeCSVFile(file.path, file.header, file.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, header []string, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
