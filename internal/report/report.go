// Package report materializes the combined tables as a spreadsheet,
// CSV files or a JSON document; the format follows the output path's
// extension.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
	"github.com/MinTTT/snapgene-history-exporter/internal/history"
)

// sheet names and column orders are part of the output contract
const (
	SheetPCR          = "PCR fragments"
	SheetConstruction = "Construction fragments"
	SheetPrimers      = "Primers"
)

var (
	pcrHeader = []string{
		"File", "Construct", "Fragment", "Length", "Template",
		"Fwd Primer", "Fwd Sequence", "Fwd Annealed", "Fwd Tm",
		"Rev Primer", "Rev Sequence", "Rev Annealed", "Rev Tm",
	}
	constructionHeader = []string{"File", "Construct", "Fragment", "Length", "Operation"}
	primersHeader      = []string{"Primer", "Sequence", "Used By"}
)

// Write persists the tables to path in the format its extension names:
// .xlsx, .csv (one file per table) or .json.
func Write(path string, t *batch.Tables, s *batch.Summary) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(path, t)
	case ".csv":
		return writeCSV(path, t)
	case ".json":
		return writeJSON(path, t, s)
	default:
		return fmt.Errorf("unsupported output format %q (use .xlsx, .csv or .json)", filepath.Ext(path))
	}
}

// cell values: string, int, float64 or nil for an absent optional
func pcrRows(t *batch.Tables) [][]any {
	rows := make([][]any, 0, len(t.PCR))
	for _, r := range t.PCR {
		row := []any{r.File, r.Construct, r.Fragment, r.Length, r.Template}
		row = append(row, primerCells(r.Fwd)...)
		row = append(row, primerCells(r.Rev)...)
		rows = append(rows, row)
	}
	return rows
}

func primerCells(site *history.BindingSite) []any {
	if site == nil {
		return []any{nil, nil, nil, nil}
	}
	cells := []any{site.Name, nil, site.Annealed, nil}
	if site.Seq != nil {
		cells[1] = *site.Seq
	}
	if site.Tm != nil {
		cells[3] = *site.Tm
	}
	return cells
}

func constructionRows(t *batch.Tables) [][]any {
	rows := make([][]any, 0, len(t.Construction))
	for _, r := range t.Construction {
		rows = append(rows, []any{r.File, r.Construct, r.Fragment, r.Length, r.Operation})
	}
	return rows
}

func primerRows(t *batch.Tables) [][]any {
	rows := make([][]any, 0, len(t.Primers))
	for _, r := range t.Primers {
		var seq any
		if r.Seq != nil {
			seq = *r.Seq
		}
		rows = append(rows, []any{r.Name, seq, usedBy(r.Uses)})
	}
	return rows
}

func usedBy(uses []history.Usage) string {
	parts := make([]string, len(uses))
	for i, u := range uses {
		if u.File == "" {
			parts[i] = u.Fragment
		} else {
			parts[i] = u.File + ":" + u.Fragment
		}
	}
	return strings.Join(parts, "; ")
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
