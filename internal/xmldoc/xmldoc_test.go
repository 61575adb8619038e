package xmldoc

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	doc := `<HistoryTree>
	<Node name="pLac-GFP" seqLen="5248" operation="Gibson">
		<Node name="GFP insert" seqLen="720" operation="PCR"/>
		<Node name="backbone" seqLen="4528"/>
	</Node>
</HistoryTree>`

	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	if root.XMLName != "HistoryTree" {
		t.Errorf("root name = %q, want HistoryTree", root.XMLName)
	}

	construct := root.Child("Node")
	if construct == nil {
		t.Fatal("missing Node child")
	}
	if name, ok := construct.Attr("name"); !ok || name != "pLac-GFP" {
		t.Errorf("name attr = %q, %t", name, ok)
	}
	if _, ok := construct.Attr("missing"); ok {
		t.Error("Attr() found an attribute that isn't there")
	}

	frags := construct.Children("Node")
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	// child order is document order
	if name, _ := frags[0].Attr("name"); name != "GFP insert" {
		t.Errorf("first fragment = %q, want GFP insert", name)
	}
	if name, _ := frags[1].Attr("name"); name != "backbone" {
		t.Errorf("second fragment = %q, want backbone", name)
	}
}

func TestParse_attrOrder(t *testing.T) {
	root, err := Parse(strings.NewReader(`<Primer name="F1" sequence="ATG" dateAdded="2020-04-02"/>`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	want := []string{"name", "sequence", "dateAdded"}
	if len(root.Attrs) != len(want) {
		t.Fatalf("got %d attrs, want %d", len(root.Attrs), len(want))
	}
	for i, key := range want {
		if root.Attrs[i].Key != key {
			t.Errorf("attr %d = %q, want %q", i, root.Attrs[i].Key, key)
		}
	}
}

func TestParse_text(t *testing.T) {
	root, err := Parse(strings.NewReader(`<Notes>
	<Description> lacZ reporter plasmid </Description>
</Notes>`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	desc := root.Child("Description")
	if desc == nil {
		t.Fatal("missing Description child")
	}
	if desc.Text != "lacZ reporter plasmid" {
		t.Errorf("text = %q, want trimmed value", desc.Text)
	}
}

func TestParse_errors(t *testing.T) {
	for _, doc := range []string{
		"",
		"<a><b></a>",
		"<a/><b/>",
	} {
		if _, err := Parse(strings.NewReader(doc)); err == nil {
			t.Errorf("Parse(%q) expected error", doc)
		}
	}
}
