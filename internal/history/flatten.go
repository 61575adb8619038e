package history

// Result is one file's flattened history: three row sets plus the
// non-fatal diagnostics collected along the way.
type Result struct {
	PCR          []PCRRow
	Construction []ConstructionRow
	Primers      []PrimerRow
	Diagnostics  []Diagnostic
}

// ConstructionRow is one fragment directly combined into the construct.
type ConstructionRow struct {
	Construct string `json:"construct"`
	Fragment  string `json:"fragment"`
	Length    int    `json:"length"`
	Operation string `json:"operation,omitempty"`
}

// PCRRow is one amplified fragment, wherever it sits in the tree.
// A nil primer slot means the amplification used a single primer
// (or none); that's data, not an error.
type PCRRow struct {
	Construct string       `json:"construct"`
	Fragment  string       `json:"fragment"`
	Length    int          `json:"length"`
	Template  string       `json:"template"`
	Fwd       *BindingSite `json:"fwd,omitempty"`
	Rev       *BindingSite `json:"rev,omitempty"`
}

// Usage is one place a primer was used. File is empty until the batch
// aggregator tags rows with their source file.
type Usage struct {
	File     string `json:"file,omitempty"`
	Fragment string `json:"fragment"`
}

// PrimerRow is one deduplicated primer.
type PrimerRow struct {
	// Name is the display name; conflicting sequences under one name
	// get a "#N" suffix
	Name string `json:"name"`

	// Base is the pre-suffix name, the key for cross-file dedup
	Base string `json:"-"`

	Seq *string `json:"seq,omitempty"`

	// Uses in first-seen order, set semantics
	Uses []Usage `json:"uses"`
}

// Flatten reduces a history tree to its three row sets. It is pure:
// calling it twice on the same tree yields identical output.
//
// Construction rows cover exactly the record's direct fragments, in
// stored order. PCR rows cover every amplified fragment at any depth,
// visited depth-first pre-order. Primer rows are the deduplicated
// primers and oligos seen during that same traversal.
func Flatten(r *Record) Result {
	f := flattener{acc: NewAccumulator()}

	for _, frag := range r.Fragments {
		f.res.Construction = append(f.res.Construction, ConstructionRow{
			Construct: r.Name,
			Fragment:  frag.Name,
			Length:    frag.SeqLength,
			Operation: frag.Operation,
		})
	}

	for _, frag := range r.Fragments {
		f.visit(r.Name, frag)
	}

	f.res.Primers = f.acc.Rows()
	f.res.Diagnostics = append(f.res.Diagnostics, f.acc.Diagnostics()...)
	return f.res
}

type flattener struct {
	res Result
	acc *Accumulator
}

func (f *flattener) visit(construct string, frag *Fragment) {
	switch frag.Shape {
	case ShapeAmplified:
		row := PCRRow{
			Construct: construct,
			Fragment:  frag.Name,
			Length:    frag.SeqLength,
			Template:  frag.Amp.Template,
		}
		for i := range frag.Amp.Primers {
			site := &frag.Amp.Primers[i]
			switch i {
			case 0:
				row.Fwd = site
			case 1:
				row.Rev = site
			}
			f.noteMissing(frag.Name, site.Name, site.Seq == nil, site.Tm == nil)
			f.acc.Add(site.Name, site.Seq, Usage{Fragment: frag.Name})
		}
		f.res.PCR = append(f.res.PCR, row)
	case ShapeTerminal:
		for _, o := range frag.Oligos {
			f.noteMissing(frag.Name, o.Name, o.Seq == nil, false)
			f.acc.Add(o.Name, o.Seq, Usage{Fragment: frag.Name})
		}
	case ShapeComposite:
		for _, sub := range frag.Fragments {
			f.visit(construct, sub)
		}
	}
}

// noteMissing records DiagMissingField notes for absent optionals.
func (f *flattener) noteMissing(fragment, primer string, noSeq, noTm bool) {
	if noSeq {
		f.res.Diagnostics = append(f.res.Diagnostics, Diagnostic{
			Kind: DiagMissingField, Fragment: fragment, Primer: primer, Field: "sequence",
		})
	}
	if noTm {
		f.res.Diagnostics = append(f.res.Diagnostics, Diagnostic{
			Kind: DiagMissingField, Fragment: fragment, Primer: primer, Field: "meltingTemperature",
		})
	}
}
