package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strptr(s string) *string { return &s }

// a two-fragment construct: an amplified insert and a terminal backbone
func exampleRecord() *Record {
	return &Record{
		Name:      "Construct",
		SeqLength: 5000,
		Operation: "Gibson",
		Fragments: []*Fragment{
			{
				Name:      "InsertA",
				SeqLength: 800,
				Operation: "PCR",
				Shape:     ShapeAmplified,
				Amp: &Amplification{
					Template: "pTemplate",
					Primers: []BindingSite{
						{Name: "F1", Seq: strptr("ATGAAA"), Annealed: 6, Tm: ptrFloat(55)},
						{Name: "R1", Seq: strptr("TTTCAT"), Annealed: 6, Tm: ptrFloat(54)},
					},
				},
			},
			{Name: "Backbone", SeqLength: 4200, Shape: ShapeTerminal},
		},
	}
}

func ptrFloat(f float64) *float64 { return &f }

func TestFlatten_example(t *testing.T) {
	res := Flatten(exampleRecord())

	wantConstruction := []ConstructionRow{
		{Construct: "Construct", Fragment: "InsertA", Length: 800, Operation: "PCR"},
		{Construct: "Construct", Fragment: "Backbone", Length: 4200},
	}
	if diff := cmp.Diff(wantConstruction, res.Construction); diff != "" {
		t.Errorf("construction rows mismatch (-want +got):\n%s", diff)
	}

	if len(res.PCR) != 1 {
		t.Fatalf("got %d PCR rows, want 1", len(res.PCR))
	}
	row := res.PCR[0]
	if row.Fragment != "InsertA" || row.Template != "pTemplate" {
		t.Errorf("PCR row = %+v", row)
	}
	if row.Fwd == nil || row.Fwd.Name != "F1" || row.Rev == nil || row.Rev.Name != "R1" {
		t.Errorf("primer slots = %+v / %+v", row.Fwd, row.Rev)
	}

	wantPrimers := []PrimerRow{
		{Name: "F1", Base: "F1", Seq: strptr("ATGAAA"), Uses: []Usage{{Fragment: "InsertA"}}},
		{Name: "R1", Base: "R1", Seq: strptr("TTTCAT"), Uses: []Usage{{Fragment: "InsertA"}}},
	}
	if diff := cmp.Diff(wantPrimers, res.Primers); diff != "" {
		t.Errorf("primer rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_idempotent(t *testing.T) {
	rec := exampleRecord()

	first := Flatten(rec)
	second := Flatten(rec)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated flatten differs (-first +second):\n%s", diff)
	}
}

// deepRecord nests an amplified fragment two levels below the root.
func deepRecord() *Record {
	return &Record{
		Name:      "Final",
		SeqLength: 9000,
		Fragments: []*Fragment{
			{
				Name:      "Cassette",
				SeqLength: 2000,
				Shape:     ShapeComposite,
				Fragments: []*Fragment{
					{
						Name:      "Promoter",
						SeqLength: 200,
						Shape:     ShapeAmplified,
						Amp: &Amplification{
							Template: "genome",
							Primers:  []BindingSite{{Name: "prom-F", Annealed: 20}},
						},
					},
					{Name: "ORF", SeqLength: 1800, Shape: ShapeTerminal},
				},
			},
			{
				Name:      "Vector",
				SeqLength: 7000,
				Operation: "PCR",
				Shape:     ShapeAmplified,
				Amp: &Amplification{
					Template: "pUC19",
					Primers: []BindingSite{
						{Name: "vec-F", Seq: strptr("GGGAAA"), Annealed: 6},
						{Name: "vec-R", Seq: strptr("CCCTTT"), Annealed: 6},
					},
				},
			},
		},
	}
}

func TestFlatten_deepPCRRows(t *testing.T) {
	res := Flatten(deepRecord())

	// every amplified fragment appears exactly once, pre-order
	var got []string
	for _, row := range res.PCR {
		got = append(got, row.Fragment)
	}
	want := []string{"Promoter", "Vector"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PCR fragment order mismatch (-want +got):\n%s", diff)
	}

	// single-primer amplification leaves the reverse slot nil
	if res.PCR[0].Rev != nil {
		t.Errorf("promoter rev slot = %+v, want nil", res.PCR[0].Rev)
	}
}

func TestFlatten_constructionRowsTopLevelOnly(t *testing.T) {
	res := Flatten(deepRecord())

	var got []string
	for _, row := range res.Construction {
		got = append(got, row.Fragment)
	}
	// Promoter is amplified but nested, so it never reaches the
	// construction table
	want := []string{"Cassette", "Vector"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("construction rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_missingFieldDiagnostics(t *testing.T) {
	res := Flatten(deepRecord())

	var fields []string
	for _, d := range res.Diagnostics {
		if d.Kind == DiagMissingField && d.Primer == "prom-F" {
			fields = append(fields, d.Field)
		}
	}
	want := []string{"sequence", "meltingTemperature"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("prom-F diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulator_dedup(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("F1", strptr("ATG"), Usage{Fragment: "a"})
	acc.Add("F1", nil, Usage{Fragment: "b"})       // absent seq merges
	acc.Add("F1", strptr("ATG"), Usage{Fragment: "a"}) // duplicate use ignored
	acc.Add("R1", nil, Usage{Fragment: "a"})
	acc.Add("R1", strptr("TTT"), Usage{Fragment: "c"}) // fills the absent seq

	rows := acc.Rows()
	want := []PrimerRow{
		{Name: "F1", Base: "F1", Seq: strptr("ATG"), Uses: []Usage{{Fragment: "a"}, {Fragment: "b"}}},
		{Name: "R1", Base: "R1", Seq: strptr("TTT"), Uses: []Usage{{Fragment: "a"}, {Fragment: "c"}}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(acc.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", acc.Diagnostics())
	}
}

func TestAccumulator_conflict(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("T7", strptr("TAATACGACTCACTATAG"), Usage{Fragment: "a"})
	acc.Add("T7", strptr("TAATACGACTCACTATAGGG"), Usage{Fragment: "b"})
	acc.Add("T7", strptr("TAATACGACTCACTATAG"), Usage{Fragment: "c"}) // back to variant 1

	rows := acc.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Name != "T7" || rows[1].Name != "T7#2" {
		t.Errorf("row names = %q, %q", rows[0].Name, rows[1].Name)
	}
	if rows[0].Base != "T7" || rows[1].Base != "T7" {
		t.Errorf("row bases = %q, %q", rows[0].Base, rows[1].Base)
	}
	wantUses := []Usage{{Fragment: "a"}, {Fragment: "c"}}
	if diff := cmp.Diff(wantUses, rows[0].Uses); diff != "" {
		t.Errorf("variant 1 uses mismatch (-want +got):\n%s", diff)
	}

	diags := acc.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Kind != DiagPrimerConflict || diags[0].Primer != "T7" {
		t.Errorf("diagnostic = %+v", diags[0])
	}
}
