// Package batch runs the extraction pipeline over many .dna files:
// concurrent per-file build+flatten, then a single-owner aggregation
// that merges rows and re-deduplicates primers across files.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MinTTT/snapgene-history-exporter/internal/history"
	"github.com/MinTTT/snapgene-history-exporter/internal/snapgene"
)

// ErrNoHistory marks a file whose container parsed fine but records no
// assembly history. Such files are skipped, not failed.
var ErrNoHistory = errors.New("no assembly history")

// FileResult is one file's outcome from the parallel stage.
type FileResult struct {
	// File is the cleaned base name of the source file
	File string
	Path string

	// Flat is the flattened history; zero value when Err != nil
	Flat history.Result

	Err error
}

// FileError records a skipped file in the run summary.
type FileError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// PCRRow is a per-file PCR row tagged with its source file.
type PCRRow struct {
	File string `json:"file"`
	history.PCRRow
}

// ConstructionRow is a per-file construction row tagged with its
// source file.
type ConstructionRow struct {
	File string `json:"file"`
	history.ConstructionRow
}

// Tables is the batch's combined output.
type Tables struct {
	PCR          []PCRRow
	Construction []ConstructionRow

	// Primers deduplicated across every file; Uses carry (file, fragment)
	Primers []history.PrimerRow
}

// Summary describes one extraction run.
type Summary struct {
	RunID   string        `json:"runId"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed"`

	// Files discovered, Processed contributed rows
	Files     int `json:"files"`
	Processed int `json:"processed"`

	Skipped     []FileError          `json:"skipped,omitempty"`
	Diagnostics []history.Diagnostic `json:"diagnostics,omitempty"`
}

// Process builds and flattens every file concurrently, up to workers at
// a time. Results come back indexed by input position, so output order
// never depends on scheduling. A failing file yields a FileResult with
// Err set; it never stops its siblings.
func Process(ctx context.Context, paths []string, workers int, opts *history.Options, log *zap.Logger) []FileResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return nil
			}
			results[i] = processFile(path, opts, log)
			return nil
		})
	}
	g.Wait()

	return results
}

func processFile(path string, opts *history.Options, log *zap.Logger) FileResult {
	f, err := snapgene.Read(path)
	if err != nil {
		log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
		return FileResult{File: path, Path: path, Err: err}
	}

	res := FileResult{File: f.Name, Path: path}
	if f.History == nil {
		log.Debug("no assembly history", zap.String("file", f.Name))
		res.Err = ErrNoHistory
		return res
	}

	record, err := history.Build(f.History, opts)
	if err != nil {
		log.Warn("skipping malformed history", zap.String("file", f.Name), zap.Error(err))
		res.Err = err
		return res
	}

	res.Flat = history.Flatten(record)
	log.Debug("flattened history",
		zap.String("file", f.Name),
		zap.Int("pcr", len(res.Flat.PCR)),
		zap.Int("construction", len(res.Flat.Construction)),
		zap.Int("primers", len(res.Flat.Primers)))
	return res
}

// Aggregate reduces per-file results into the three combined tables.
// PCR and construction rows concatenate in input order, tagged with
// their file. Primer rows replay through a fresh accumulator so the
// dedup policy applies across files. Failed files land in
// Summary.Skipped; nothing aborts the batch.
func Aggregate(results []FileResult) (*Tables, *Summary) {
	tables := &Tables{}
	sum := &Summary{RunID: uuid.NewString(), Files: len(results)}

	acc := history.NewAccumulator()
	for _, res := range results {
		if res.Err != nil {
			sum.Skipped = append(sum.Skipped, FileError{File: res.File, Reason: res.Err.Error()})
			continue
		}
		sum.Processed++

		for _, row := range res.Flat.PCR {
			tables.PCR = append(tables.PCR, PCRRow{File: res.File, PCRRow: row})
		}
		for _, row := range res.Flat.Construction {
			tables.Construction = append(tables.Construction, ConstructionRow{File: res.File, ConstructionRow: row})
		}

		// replay primers by their pre-suffix name; conflict suffixes are
		// re-derived globally
		for _, row := range res.Flat.Primers {
			for _, use := range row.Uses {
				acc.Add(row.Base, row.Seq, history.Usage{File: res.File, Fragment: use.Fragment})
			}
		}

		// per-file conflict diagnostics are subsumed by the global pass
		for _, d := range res.Flat.Diagnostics {
			if d.Kind == history.DiagPrimerConflict {
				continue
			}
			d.File = res.File
			sum.Diagnostics = append(sum.Diagnostics, d)
		}
	}

	tables.Primers = acc.Rows()
	sum.Diagnostics = append(sum.Diagnostics, acc.Diagnostics()...)
	return tables, sum
}

// Run is the whole pipeline: discover, process, aggregate.
func Run(ctx context.Context, root string, recursive bool, workers int, opts *history.Options, log *zap.Logger) (*Tables, *Summary, error) {
	paths, err := Discover(root, recursive)
	if err != nil {
		return nil, nil, err
	}

	started := time.Now()
	results := Process(ctx, paths, workers, opts, log)
	tables, sum := Aggregate(results)
	sum.Started = started
	sum.Elapsed = time.Since(started)
	return tables, sum, nil
}
