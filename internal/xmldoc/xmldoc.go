// Package xmldoc is a generic attributed tree decoded from the XML blocks
// embedded in SnapGene files. It only preserves what downstream consumers
// need: element names, attributes in document order, ordered children and
// trimmed character data.
package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is a single attribute on a Node, in document order.
type Attr struct {
	Key   string
	Value string
}

// Node is one element of the tree.
type Node struct {
	// XMLName is the element name, e.g. "HistoryTree"
	XMLName string

	// Attrs in document order
	Attrs []Attr

	// Nodes are the child elements in document order
	Nodes []*Node

	// Text is the element's character data, whitespace-trimmed
	Text string
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Nodes {
		if c.XMLName == name {
			return c
		}
	}
	return nil
}

// Children returns every child element with the given name, in document order.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for _, c := range n.Nodes {
		if c.XMLName == name {
			out = append(out, c)
		}
	}
	return out
}

// Parse decodes an XML document into its root Node. A document with
// no element, or more than one top-level element, is an error.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{XMLName: t.Name.Local}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Key: a.Name.Local, Value: a.Value})
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse XML: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Nodes = append(parent.Nodes, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("failed to parse XML: no root element")
	}
	return root, nil
}
