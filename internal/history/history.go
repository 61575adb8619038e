// Package history holds the assembly-history tree model for a SnapGene
// construct and the traversal that flattens it into relational rows:
// PCR fragments, construction fragments and deduplicated primers.
//
// A tree is built once from the generic XML document (see Build), is never
// mutated afterwards, and is discarded after Flatten.
package history

import "strings"

// Record is the root of one file's assembly history: the final construct
// and the fragments directly combined to produce it.
type Record struct {
	// Name of the final construct, cleaned of spaces and file suffixes
	Name string

	// SeqLength is the construct's length in bp
	SeqLength int

	// Operation is the assembly method, e.g. "Gibson", "Restriction/Ligation"
	Operation string

	// Fragments directly combined into the construct, in construction order
	Fragments []*Fragment
}

// Shape discriminates the three fragment variants. A fragment is in
// exactly one shape; Build rejects nodes that mix them.
type Shape int

const (
	// ShapeTerminal is a fragment with no recorded sub-history
	// (starting material), possibly carrying raw oligos
	ShapeTerminal Shape = iota

	// ShapeAmplified is a fragment produced by PCR from a template
	ShapeAmplified

	// ShapeComposite is a fragment that is itself a sub-assembly
	// of further fragments
	ShapeComposite
)

// String returns the shape's display tag.
func (s Shape) String() string {
	switch s {
	case ShapeTerminal:
		return "terminal"
	case ShapeAmplified:
		return "amplified"
	case ShapeComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Fragment is one piece of DNA in the assembly history. Which of Oligos,
// Amp and Fragments is populated depends on Shape.
type Fragment struct {
	Name      string
	SeqLength int

	// Operation that produced this fragment ("" when the file records none)
	Operation string

	Shape Shape

	// Oligos on a terminal fragment (may be empty)
	Oligos []Oligo

	// Amp describes the PCR for an amplified fragment
	Amp *Amplification

	// Fragments are the sub-assembly parts of a composite fragment
	Fragments []*Fragment
}

// Amplification records the PCR that produced a fragment.
type Amplification struct {
	// Template is the name of the template sequence. It is a weak
	// reference: the template may be a sibling fragment or a sequence
	// the file never describes.
	Template string

	// Primers in document order, conventionally forward then reverse.
	// Zero, one or two entries.
	Primers []BindingSite
}

// BindingSite is a primer together with its annealing metrics.
type BindingSite struct {
	Name string `json:"name"`

	// Seq is the primer sequence, nil when the file records none
	Seq *string `json:"seq,omitempty"`

	// Annealed is the number of bases in the annealing region
	Annealed int `json:"annealed"`

	// Tm is the melting temperature in degrees, nil when absent
	Tm *float64 `json:"tm,omitempty"`
}

// Oligo is a raw synthesized oligo recorded on a terminal fragment.
type Oligo struct {
	Name string
	Seq  *string
}

// Options adjusts how names are cleaned during Build. A nil Options
// uses SnapGene's own suffixes.
type Options struct {
	// StripSuffixes are the file extensions removed from node names,
	// without the leading dot
	StripSuffixes []string
}

var defaultSuffixes = []string{"dna", "gb"}

func (o *Options) suffixes() []string {
	if o == nil || len(o.StripSuffixes) == 0 {
		return defaultSuffixes
	}
	return o.StripSuffixes
}

// cleanName strips all spaces from a node name and then at most one
// trailing file suffix, mirroring how SnapGene records sequence names.
func cleanName(name string, suffixes []string) string {
	name = strings.ReplaceAll(name, " ", "")
	for _, s := range suffixes {
		if trimmed, ok := strings.CutSuffix(name, "."+s); ok {
			return trimmed
		}
	}
	return name
}
