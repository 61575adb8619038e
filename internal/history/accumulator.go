package history

import "fmt"

// Accumulator merges primer occurrences into deduplicated rows. The same
// policy runs twice: per file during Flatten, then again globally across
// files in the batch aggregator.
//
// Occurrences sharing a name merge when their sequences agree (equal, or
// one side absent); an absent sequence is filled by a later recorded one.
// A second distinct non-nil sequence under one name opens a new variant
// row named "name#K" and records one DiagPrimerConflict.
type Accumulator struct {
	byName map[string][]int // name -> indexes into rows, variant order
	rows   []*PrimerRow
	diags  []Diagnostic
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byName: make(map[string][]int)}
}

// Add merges one primer occurrence.
func (a *Accumulator) Add(name string, seq *string, use Usage) {
	variants := a.byName[name]

	for _, i := range variants {
		row := a.rows[i]
		if seq == nil || row.Seq == nil || *row.Seq == *seq {
			if row.Seq == nil {
				row.Seq = seq
			}
			addUse(row, use)
			return
		}
	}

	row := &PrimerRow{Name: name, Base: name, Seq: seq, Uses: []Usage{use}}
	if k := len(variants); k > 0 {
		row.Name = fmt.Sprintf("%s#%d", name, k+1)
		a.diags = append(a.diags, Diagnostic{
			Kind:     DiagPrimerConflict,
			File:     use.File,
			Fragment: use.Fragment,
			Primer:   name,
			Detail:   fmt.Sprintf("conflicting sequence kept as %q", row.Name),
		})
	}
	a.byName[name] = append(variants, len(a.rows))
	a.rows = append(a.rows, row)
}

func addUse(row *PrimerRow, use Usage) {
	for _, u := range row.Uses {
		if u == use {
			return
		}
	}
	row.Uses = append(row.Uses, use)
}

// Rows returns the merged rows in first-seen order.
func (a *Accumulator) Rows() []PrimerRow {
	out := make([]PrimerRow, len(a.rows))
	for i, r := range a.rows {
		out[i] = *r
	}
	return out
}

// Diagnostics returns the conflicts recorded so far.
func (a *Accumulator) Diagnostics() []Diagnostic {
	return a.diags
}
