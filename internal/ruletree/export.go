package ruletree

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"hexturmite/internal/hexrule"
	"hexturmite/internal/turmite"
)

// FormatVersion is bumped whenever Document changes shape.
const FormatVersion = 1

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Document is the on-disk form of a compiled rule.
type Document struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Digest   string    `json:"digest"`
	Spec     string    `json:"spec"`
	Geometry string    `json:"geometry"`
	States   int       `json:"states"`
	Colors   int       `json:"colors"`
	Alphabet int       `json:"alphabet"`
	Seed     int       `json:"seed"`
	Rules    []RuleDoc `json:"rules"`
	Tree     TreeDoc   `json:"tree"`
}

// RuleDoc is a transition with its symbol sets spelled out.
type RuleDoc struct {
	Kind      string              `json:"kind"`
	Center    []int               `json:"center"`
	Neighbors [turmite.Dirs][]int `json:"neighbors"`
	Output    int                 `json:"output"`
}

// TreeDoc is the node table of a Tree.
type TreeDoc struct {
	Root  int     `json:"root"`
	Nodes [][]int `json:"nodes"`
	// Levels[i] is the level of Nodes[i].
	Levels []int `json:"levels"`
}

// NewDocument packages a compiled rule and its tree.
func NewDocument(c *hexrule.Compiled, t *Tree) Document {
	doc := Document{
		Version:  FormatVersion,
		Name:     c.Name,
		Digest:   c.Digest,
		Spec:     c.Spec.String(),
		Geometry: c.Geometry,
		States:   c.Spec.States(),
		Colors:   c.Spec.Colors(),
		Alphabet: c.Alphabet(),
		Seed:     int(c.Seed()),
		Rules:    make([]RuleDoc, len(c.Rules)),
		Tree:     TreeDoc{Root: t.Root, Nodes: make([][]int, len(t.Nodes)), Levels: make([]int, len(t.Nodes))},
	}
	for i, r := range c.Rules {
		rd := RuleDoc{Kind: r.Kind.String(), Center: ints(r.Center), Output: int(r.Output)}
		for j, n := range r.Neighbors {
			rd.Neighbors[j] = ints(n)
		}
		doc.Rules[i] = rd
	}
	for i, n := range t.Nodes {
		doc.Tree.Nodes[i] = n.Next
		doc.Tree.Levels[i] = n.Level
	}
	return doc
}

func ints(s hexrule.SymbolSet) []int {
	syms := s.Symbols()
	out := make([]int, len(syms))
	for i, v := range syms {
		out[i] = int(v)
	}
	return out
}

// RuleTree rebuilds an evaluable tree from the document, checking that every
// edge points at a node of the next level.
func (d Document) RuleTree() (*Tree, error) {
	nodes := d.Tree.Nodes
	if len(d.Tree.Levels) != len(nodes) {
		return nil, fmt.Errorf("tree has %d nodes but %d levels", len(nodes), len(d.Tree.Levels))
	}
	if d.Tree.Root < 0 || d.Tree.Root >= len(nodes) || d.Tree.Levels[d.Tree.Root] != 0 {
		return nil, fmt.Errorf("bad tree root %d", d.Tree.Root)
	}
	t := &Tree{Geometry: d.Geometry, Alphabet: d.Alphabet, Root: d.Tree.Root, Nodes: make([]Node, len(nodes))}
	for i, next := range nodes {
		level := d.Tree.Levels[i]
		if len(next) != d.Alphabet {
			return nil, fmt.Errorf("node %d has %d branches, want %d", i, len(next), d.Alphabet)
		}
		for v, target := range next {
			if level == Vars-1 {
				if target < 0 || target >= d.Alphabet {
					return nil, fmt.Errorf("node %d branch %d outputs %d outside alphabet", i, v, target)
				}
				continue
			}
			if target < 0 || target >= len(nodes) || d.Tree.Levels[target] != level+1 {
				return nil, fmt.Errorf("node %d branch %d points at bad node %d", i, v, target)
			}
		}
		t.Nodes[i] = Node{Level: level, Next: next}
	}
	return t, nil
}

// Write stores the document as JSON, zstd-compressed when compress is set.
// The file is written under a temporary name and renamed into place, so a
// failed write never leaves a partial artifact at path.
func Write(path string, doc Document, compress bool) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var enc *zstd.Encoder
	if compress {
		enc, err = zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}
		w = enc
	}
	if err = json.NewEncoder(w).Encode(doc); err != nil {
		return err
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return err
		}
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Read loads a document written by Write. Compression is detected from the
// zstd frame magic, not the file name.
func Read(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return Document{}, err
		}
		defer dec.Close()
		raw, err = dec.DecodeAll(raw, nil)
		if err != nil {
			return Document{}, fmt.Errorf("%s: zstd: %w", path, err)
		}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Version != FormatVersion {
		return Document{}, fmt.Errorf("%s: unsupported format version %d", path, doc.Version)
	}
	return doc, nil
}
