package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
	"github.com/MinTTT/snapgene-history-exporter/internal/history"
)

// envelope is the JSON report document.
type envelope struct {
	// RunID identifies this extraction run
	RunID string `json:"runId"`

	// Time, ex: "2026/01/05 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds the run took
	Execution float64 `json:"execution"`

	Tables tables `json:"tables"`

	Skipped     []batch.FileError    `json:"skipped,omitempty"`
	Diagnostics []history.Diagnostic `json:"diagnostics,omitempty"`
}

type tables struct {
	PCR          []batch.PCRRow          `json:"pcr"`
	Construction []batch.ConstructionRow `json:"construction"`
	Primers      []history.PrimerRow     `json:"primers"`
}

// writeJSON saves everything, summary included, as one indented document.
func writeJSON(path string, t *batch.Tables, s *batch.Summary) error {
	started := s.Started
	doc := envelope{
		RunID: s.RunID,
		Time: fmt.Sprintf(
			"%d/%02d/%02d %02d:%02d:%02d",
			started.Year(), started.Month(), started.Day(),
			started.Hour(), started.Minute(), started.Second(),
		),
		Execution: s.Elapsed.Seconds(),
		Tables: tables{
			PCR:          t.PCR,
			Construction: t.Construction,
			Primers:      t.Primers,
		},
		Skipped:     s.Skipped,
		Diagnostics: s.Diagnostics,
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
