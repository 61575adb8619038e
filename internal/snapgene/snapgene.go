// Package snapgene reads the SnapGene .dna container: a TLV packet
// stream (1-byte block type, 4-byte big-endian size, payload) holding
// the sequence, its primers, notes and the assembly history tree.
//
// Only the blocks this tool consumes are decoded; everything else is
// skipped, so files from newer SnapGene versions still read.
package snapgene

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/MinTTT/snapgene-history-exporter/internal/xmldoc"
)

// block types of the .dna container
const (
	blockSequence byte = 0
	blockPrimers  byte = 5
	blockNotes    byte = 6
	blockHistory  byte = 7
)

// the container opens with a type-9 block: size 14, payload "SnapGene"
// plus three version words
const magicTitle = "SnapGene"

// Primer is one entry of the file-level primer list (block 5).
type Primer struct {
	Name        string
	Sequence    string
	Description string
}

// File is the decoded container.
type File struct {
	// Name is the file's base name without its .dna/.gb suffix
	Name string
	Path string

	// Topology is "circular" or "linear"
	Topology string

	// Stranded is "double" or "single"
	Stranded string

	DamMethylated   bool
	DcmMethylated   bool
	EcoKIMethylated bool

	// Length of the sequence in bp
	Length int
	Seq    string

	Primers []Primer

	// History is the assembly history tree, nil when the file never
	// recorded one
	History *xmldoc.Node

	notes *xmldoc.Node
}

// Description returns the file's description note, "" when absent.
func (f *File) Description() string {
	if f.notes == nil {
		return ""
	}
	if d := f.notes.Child("Description"); d != nil {
		return d.Text
	}
	return ""
}

// CleanName strips all spaces from a sequence name and then one of the
// listed file suffixes, the way SnapGene records names.
func CleanName(name string, suffixes []string) string {
	name = strings.ReplaceAll(name, " ", "")
	for _, s := range suffixes {
		if trimmed, ok := strings.CutSuffix(name, "."+s); ok {
			return trimmed
		}
	}
	return name
}

// Read opens and parses a .dna file.
func Read(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	f, err := Parse(r, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes a .dna container. name is the source file's base name,
// used for File.Name after suffix stripping.
func Parse(r io.Reader, name string) (*File, error) {
	if err := readPreamble(r); err != nil {
		return nil, err
	}

	f := &File{Name: CleanName(name, []string{"dna", "gb"})}

	for {
		blockType, payload, err := readBlock(r)
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, err
		}

		switch blockType {
		case blockSequence:
			if len(payload) < 1 {
				return nil, fmt.Errorf("sequence block too short")
			}
			props := payload[0]
			f.Topology = "linear"
			if props&0x01 != 0 {
				f.Topology = "circular"
			}
			f.Stranded = "single"
			if props&0x02 != 0 {
				f.Stranded = "double"
			}
			f.DamMethylated = props&0x04 != 0
			f.DcmMethylated = props&0x08 != 0
			f.EcoKIMethylated = props&0x10 != 0
			f.Seq = string(payload[1:])
			f.Length = len(f.Seq)
		case blockPrimers:
			if err := f.readPrimers(payload); err != nil {
				return nil, err
			}
		case blockNotes:
			notes, err := xmldoc.Parse(bytes.NewReader(payload))
			if err != nil {
				return nil, fmt.Errorf("failed to parse notes block: %w", err)
			}
			f.notes = notes
		case blockHistory:
			history, err := readHistory(payload)
			if err != nil {
				return nil, err
			}
			f.History = history
		}
	}
}

// readPreamble checks the opening block: type '\t', size 14, the
// literal title, then three version words we don't need.
func readPreamble(r io.Reader) error {
	var head [5]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return fmt.Errorf("not a SnapGene file: %w", err)
	}
	if head[0] != '\t' || binary.BigEndian.Uint32(head[1:]) != 14 {
		return fmt.Errorf("not a SnapGene file")
	}

	var payload [14]byte
	if _, err := io.ReadFull(r, payload[:]); err != nil {
		return fmt.Errorf("not a SnapGene file: %w", err)
	}
	if string(payload[:8]) != magicTitle {
		return fmt.Errorf("not a SnapGene file")
	}
	return nil
}

func readBlock(r io.Reader) (byte, []byte, error) {
	var head [5]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("failed to read block header: %w", err)
	}

	size := binary.BigEndian.Uint32(head[1:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("truncated block %d: %w", head[0], err)
	}
	return head[0], payload, nil
}

func (f *File) readPrimers(payload []byte) error {
	doc, err := xmldoc.Parse(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to parse primers block: %w", err)
	}

	for _, p := range doc.Children("Primer") {
		name, _ := p.Attr("name")
		seq, _ := p.Attr("sequence")
		desc, _ := p.Attr("description")
		f.Primers = append(f.Primers, Primer{Name: name, Sequence: seq, Description: desc})
	}
	return nil
}

var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// readHistory parses the history block. SnapGene before 5.0 wrote the
// XML plain; newer versions compress it with LZMA (lzma-alone, or the
// xz container in some exports).
func readHistory(payload []byte) (*xmldoc.Node, error) {
	var r io.Reader = bytes.NewReader(payload)

	switch {
	case len(payload) > 0 && payload[0] == '<':
		// plain XML
	case bytes.HasPrefix(payload, xzMagic):
		xr, err := xz.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to open xz history block: %w", err)
		}
		r = xr
	default:
		lr, err := lzma.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to open lzma history block: %w", err)
		}
		r = lr
	}

	doc, err := xmldoc.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history block: %w", err)
	}
	return doc, nil
}
