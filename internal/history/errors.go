package history

import (
	"fmt"
	"strings"
)

// MalformedError means a history node's shape or attributes don't match
// any recognized fragment variant. The file it came from is skipped.
type MalformedError struct {
	// Node is the name of the offending node ("" when the name itself
	// is what's missing)
	Node string

	// Reason describes what didn't match
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("malformed history: %s", e.Reason)
	}
	return fmt.Sprintf("malformed history at %q: %s", e.Node, e.Reason)
}

// CycleError means a node's name reappeared on its own ancestor path.
// The source format doesn't guarantee acyclicity, so this is checked
// during Build rather than trusted.
type CycleError struct {
	// Node is the repeated name
	Node string

	// Path is the ancestor chain from the root down to the repeat
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic history: %q is its own ancestor (%s)", e.Node, strings.Join(e.Path, " > "))
}

// DiagKind classifies a non-fatal diagnostic.
type DiagKind int

const (
	// DiagPrimerConflict is recorded when one primer name carries two
	// different sequences; both rows are kept, disambiguated
	DiagPrimerConflict DiagKind = iota

	// DiagMissingField is recorded when an optional field (melting
	// temperature, primer sequence) is absent and defaulted
	DiagMissingField
)

// String returns the diagnostic kind's display tag.
func (k DiagKind) String() string {
	switch k {
	case DiagPrimerConflict:
		return "primer conflict"
	case DiagMissingField:
		return "missing field"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal data-quality note accumulated during
// flattening and aggregation. Diagnostics never abort processing.
type Diagnostic struct {
	Kind DiagKind `json:"kind"`

	// File is filled in by the batch aggregator
	File     string `json:"file,omitempty"`
	Fragment string `json:"fragment,omitempty"`
	Primer   string `json:"primer,omitempty"`

	// Field names the defaulted field for DiagMissingField
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	parts := []string{d.Kind.String()}
	if d.File != "" {
		parts = append(parts, "file="+d.File)
	}
	if d.Fragment != "" {
		parts = append(parts, "fragment="+d.Fragment)
	}
	if d.Primer != "" {
		parts = append(parts, "primer="+d.Primer)
	}
	if d.Field != "" {
		parts = append(parts, "field="+d.Field)
	}
	if d.Detail != "" {
		parts = append(parts, d.Detail)
	}
	return strings.Join(parts, " ")
}
