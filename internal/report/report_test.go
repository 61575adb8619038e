package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
	"github.com/MinTTT/snapgene-history-exporter/internal/history"
)

func strptr(s string) *string { return &s }

func sampleTables() *batch.Tables {
	tm := 61.5
	return &batch.Tables{
		PCR: []batch.PCRRow{
			{
				File: "pA",
				PCRRow: history.PCRRow{
					Construct: "pA", Fragment: "insert", Length: 800, Template: "pTemplate",
					Fwd: &history.BindingSite{Name: "F1", Seq: strptr("ATGAAA"), Annealed: 6, Tm: &tm},
					// single-primer amplification: no reverse slot
				},
			},
		},
		Construction: []batch.ConstructionRow{
			{File: "pA", ConstructionRow: history.ConstructionRow{Construct: "pA", Fragment: "insert", Length: 800, Operation: "PCR"}},
			{File: "pA", ConstructionRow: history.ConstructionRow{Construct: "pA", Fragment: "backbone", Length: 4200}},
		},
		Primers: []history.PrimerRow{
			{Name: "F1", Base: "F1", Seq: strptr("ATGAAA"), Uses: []history.Usage{{File: "pA", Fragment: "insert"}}},
			{Name: "orphan", Base: "orphan", Uses: []history.Usage{{File: "pA", Fragment: "backbone"}}},
		},
	}
}

func sampleSummary() *batch.Summary {
	return &batch.Summary{
		RunID:     "run-1",
		Started:   time.Date(2026, 1, 5, 20, 41, 0, 0, time.UTC),
		Elapsed:   1500 * time.Millisecond,
		Files:     2,
		Processed: 1,
		Skipped:   []batch.FileError{{File: "bad", Reason: "no assembly history"}},
	}
}

func TestWrite_xlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(path, sampleTables(), sampleSummary()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPCR, SheetConstruction, SheetPrimers}, f.GetSheetList())

	rows, err := f.GetRows(SheetPCR)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, pcrHeader, rows[0])
	// the empty reverse-primer columns trail off the row
	assert.Equal(t, []string{"pA", "pA", "insert", "800", "pTemplate", "F1", "ATGAAA", "6", "61.5"}, rows[1])

	rows, err = f.GetRows(SheetConstruction)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, constructionHeader, rows[0])
	assert.Equal(t, []string{"pA", "pA", "insert", "800", "PCR"}, rows[1])
	// empty operation cell trails off
	assert.Equal(t, []string{"pA", "pA", "backbone", "4200"}, rows[2])

	rows, err = f.GetRows(SheetPrimers)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, primersHeader, rows[0])
	assert.Equal(t, "pA:insert", rows[1][2])
}

func TestWrite_csv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(filepath.Join(dir, "out.csv"), sampleTables(), sampleSummary()))

	readCSV := func(name string) [][]string {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	pcr := readCSV("out.pcr.csv")
	require.Len(t, pcr, 2)
	assert.Equal(t, pcrHeader, pcr[0])
	assert.Equal(t, []string{
		"pA", "pA", "insert", "800", "pTemplate",
		"F1", "ATGAAA", "6", "61.5",
		"", "", "", "",
	}, pcr[1])

	construction := readCSV("out.construction.csv")
	assert.Equal(t, constructionHeader, construction[0])
	assert.Len(t, construction, 3)

	primers := readCSV("out.primers.csv")
	assert.Equal(t, primersHeader, primers[0])
	// absent sequence stays an empty cell
	assert.Equal(t, []string{"orphan", "", "pA:backbone"}, primers[2])
}

func TestWrite_json(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, sampleTables(), sampleSummary()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		RunID     string  `json:"runId"`
		Time      string  `json:"time"`
		Execution float64 `json:"execution"`
		Tables    struct {
			PCR          []json.RawMessage `json:"pcr"`
			Construction []json.RawMessage `json:"construction"`
			Primers      []json.RawMessage `json:"primers"`
		} `json:"tables"`
		Skipped []batch.FileError `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "2026/01/05 20:41:00", doc.Time)
	assert.Equal(t, 1.5, doc.Execution)
	assert.Len(t, doc.Tables.PCR, 1)
	assert.Len(t, doc.Tables.Construction, 2)
	assert.Len(t, doc.Tables.Primers, 2)
	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, "bad", doc.Skipped[0].File)
}

func TestWrite_unknownFormat(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "out.txt"), sampleTables(), sampleSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
