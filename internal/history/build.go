package history

import (
	"strconv"

	"github.com/MinTTT/snapgene-history-exporter/internal/xmldoc"
)

// Build translates a generic history document into a typed Record.
//
// The document is either the "HistoryTree" wrapper element (whose single
// "Node" child is the construct) or a construct "Node" directly. Every
// node needs a non-empty name and a non-negative seqLen; unknown
// attributes and elements are ignored. A name reappearing on its own
// ancestor path fails with a CycleError.
func Build(doc *xmldoc.Node, opts *Options) (*Record, error) {
	if doc == nil {
		return nil, &MalformedError{Reason: "empty document"}
	}

	root := doc
	if doc.XMLName == "HistoryTree" {
		if root = doc.Child("Node"); root == nil {
			return nil, &MalformedError{Node: "HistoryTree", Reason: "no construct node"}
		}
	}

	suffixes := opts.suffixes()

	name, seqLen, operation, err := nodeAttrs(root, suffixes)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Name:      name,
		SeqLength: seqLen,
		Operation: operation,
	}

	// the construct's parts are its sub-fragment children; an
	// amplification record directly under the root describes the root
	// itself and carries no construction fragments
	ancestors := []string{name}
	for _, sub := range splitChildren(root).subs {
		frag, err := buildFragment(sub, suffixes, ancestors)
		if err != nil {
			return nil, err
		}
		record.Fragments = append(record.Fragments, frag)
	}

	return record, nil
}

// childSplit separates a node's "Node" children into amplification
// records (those holding a "Primers" child) and sub-fragments.
type childSplit struct {
	amps []*xmldoc.Node
	subs []*xmldoc.Node
}

func splitChildren(n *xmldoc.Node) childSplit {
	var split childSplit
	for _, c := range n.Children("Node") {
		if c.Child("Primers") != nil {
			split.amps = append(split.amps, c)
		} else {
			split.subs = append(split.subs, c)
		}
	}
	return split
}

func buildFragment(n *xmldoc.Node, suffixes, ancestors []string) (*Fragment, error) {
	name, seqLen, operation, err := nodeAttrs(n, suffixes)
	if err != nil {
		return nil, err
	}

	for _, a := range ancestors {
		if a == name {
			return nil, &CycleError{Node: name, Path: append(append([]string{}, ancestors...), name)}
		}
	}

	frag := &Fragment{
		Name:      name,
		SeqLength: seqLen,
		Operation: operation,
	}

	split := splitChildren(n)
	switch {
	case len(split.amps) == 1 && len(split.subs) == 0:
		frag.Shape = ShapeAmplified
		if frag.Amp, err = buildAmplification(split.amps[0], suffixes); err != nil {
			return nil, err
		}
	case len(split.amps) == 0 && len(split.subs) > 0:
		frag.Shape = ShapeComposite
		path := append(ancestors, name)
		for _, sub := range split.subs {
			child, err := buildFragment(sub, suffixes, path)
			if err != nil {
				return nil, err
			}
			frag.Fragments = append(frag.Fragments, child)
		}
	case len(split.amps) == 0 && len(split.subs) == 0:
		frag.Shape = ShapeTerminal
		for _, o := range n.Children("Oligo") {
			oligoName, ok := o.Attr("name")
			if !ok || oligoName == "" {
				return nil, &MalformedError{Node: name, Reason: "oligo without a name"}
			}
			frag.Oligos = append(frag.Oligos, Oligo{Name: oligoName, Seq: optAttr(o, "sequence")})
		}
	default:
		return nil, &MalformedError{Node: name, Reason: "mixes amplification and sub-fragment children"}
	}

	return frag, nil
}

func buildAmplification(n *xmldoc.Node, suffixes []string) (*Amplification, error) {
	template, _ := n.Attr("name")
	// template names carry two suffixes in files SnapGene re-exported,
	// so they're stripped twice
	template = cleanName(cleanName(template, suffixes), suffixes)

	amp := &Amplification{Template: template}

	for _, p := range n.Child("Primers").Children("Primer") {
		name, ok := p.Attr("name")
		if !ok || name == "" {
			return nil, &MalformedError{Node: template, Reason: "primer without a name"}
		}

		site := BindingSite{Name: name, Seq: optAttr(p, "sequence")}
		if bs := p.Child("BindingSite"); bs != nil {
			if v, ok := bs.Attr("annealedBases"); ok {
				// either a base count or the annealed bases themselves
				if count, err := strconv.Atoi(v); err == nil && count >= 0 {
					site.Annealed = count
				} else {
					site.Annealed = len(v)
				}
			}
			if v, ok := bs.Attr("meltingTemperature"); ok {
				if tm, err := strconv.ParseFloat(v, 64); err == nil {
					site.Tm = &tm
				}
			}
		}
		amp.Primers = append(amp.Primers, site)
	}

	if len(amp.Primers) > 2 {
		return nil, &MalformedError{Node: template, Reason: "more than two primers on one amplification"}
	}
	return amp, nil
}

// nodeAttrs reads the attributes every history node must carry.
func nodeAttrs(n *xmldoc.Node, suffixes []string) (name string, seqLen int, operation string, err error) {
	raw, ok := n.Attr("name")
	if !ok {
		return "", 0, "", &MalformedError{Reason: "node without a name"}
	}
	if name = cleanName(raw, suffixes); name == "" {
		return "", 0, "", &MalformedError{Reason: "node without a name"}
	}

	rawLen, ok := n.Attr("seqLen")
	if !ok {
		return "", 0, "", &MalformedError{Node: name, Reason: "missing seqLen"}
	}
	if seqLen, err = strconv.Atoi(rawLen); err != nil || seqLen < 0 {
		return "", 0, "", &MalformedError{Node: name, Reason: "seqLen is not a non-negative integer"}
	}

	operation, _ = n.Attr("operation")
	return name, seqLen, operation, nil
}

func optAttr(n *xmldoc.Node, key string) *string {
	if v, ok := n.Attr(key); ok && v != "" {
		return &v
	}
	return nil
}
