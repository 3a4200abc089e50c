// Package ruletree turns a transition list into a decision DAG that maps a
// center symbol and its six neighbours to the next center symbol.
package ruletree

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hexturmite/internal/hexrule"
	"hexturmite/internal/turmite"
)

// Vars is the number of inputs per lookup: the center plus its neighbours.
const Vars = 1 + turmite.Dirs

var (
	// ErrUnmatched means some neighbourhood is not covered by any rule.
	ErrUnmatched = errors.New("neighbourhood matched by no rule")
	// ErrGeometry is returned for neighbourhoods other than hexagonal.
	ErrGeometry = errors.New("unsupported geometry")
)

// Tree is a reduced decision DAG. Level 0 branches on the center symbol and
// level i (1..6) on neighbour i-1. Nodes at the last level hold output
// symbols instead of child indexes. Identical subtrees are shared.
type Tree struct {
	Geometry string
	Alphabet int
	// Nodes[i].Next has Alphabet entries.
	Nodes []Node
	Root  int
}

// Node is one branching point of the tree.
type Node struct {
	Level int
	Next  []int
}

// Eval returns the next value of a center cell given its neighbours.
func (t *Tree) Eval(center hexrule.Symbol, nbrs [turmite.Dirs]hexrule.Symbol) hexrule.Symbol {
	n := t.Nodes[t.Root]
	n = t.Nodes[n.Next[center]]
	for i := 0; i < turmite.Dirs-1; i++ {
		n = t.Nodes[n.Next[nbrs[i]]]
	}
	return hexrule.Symbol(n.Next[nbrs[turmite.Dirs-1]])
}

type builder struct {
	alphabet int
	rules    []hexrule.Rule
	nodes    []Node
	byCands  map[string]int
	byBody   map[string]int
	path     [Vars]hexrule.Symbol
}

// Build compiles rules into a Tree. Rules are tried most specific first:
// a rule with fewer unconstrained neighbours beats one with more, and ties
// keep their list order. Build fails with ErrUnmatched if any combination of
// inputs is not covered.
func Build(geometry string, alphabet int, rules []hexrule.Rule) (*Tree, error) {
	if geometry != hexrule.Geometry {
		return nil, fmt.Errorf("%w: %q", ErrGeometry, geometry)
	}
	if alphabet < 1 {
		return nil, fmt.Errorf("alphabet size %d must be positive", alphabet)
	}
	ordered := append([]hexrule.Rule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return wildcards(ordered[i]) < wildcards(ordered[j])
	})

	b := &builder{
		alphabet: alphabet,
		rules:    ordered,
		byCands:  map[string]int{},
		byBody:   map[string]int{},
	}
	all := make([]int, len(ordered))
	for i := range all {
		all[i] = i
	}
	root, err := b.build(0, all)
	if err != nil {
		return nil, err
	}
	return &Tree{Geometry: geometry, Alphabet: alphabet, Nodes: b.nodes, Root: root}, nil
}

func wildcards(r hexrule.Rule) int {
	n := 0
	for _, s := range r.Neighbors {
		if s.Full() {
			n++
		}
	}
	return n
}

func (b *builder) input(r hexrule.Rule, level int) hexrule.SymbolSet {
	if level == 0 {
		return r.Center
	}
	return r.Neighbors[level-1]
}

func candKey(level int, cands []int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(level))
	for _, c := range cands {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// build returns the node for the given level when only cands (in priority
// order) are still consistent with the inputs chosen so far.
func (b *builder) build(level int, cands []int) (int, error) {
	key := candKey(level, cands)
	if id, ok := b.byCands[key]; ok {
		return id, nil
	}
	next := make([]int, b.alphabet)
	for v := 0; v < b.alphabet; v++ {
		b.path[level] = hexrule.Symbol(v)
		var kept []int
		for _, c := range cands {
			if b.input(b.rules[c], level).Has(hexrule.Symbol(v)) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			return 0, fmt.Errorf("%w: %s", ErrUnmatched, b.describe(level))
		}
		if level == Vars-1 {
			next[v] = int(b.rules[kept[0]].Output)
			continue
		}
		child, err := b.build(level+1, kept)
		if err != nil {
			return 0, err
		}
		next[v] = child
	}

	body := candKey(level, next)
	id, ok := b.byBody[body]
	if !ok {
		id = len(b.nodes)
		b.nodes = append(b.nodes, Node{Level: level, Next: next})
		b.byBody[body] = id
	}
	b.byCands[key] = id
	return id, nil
}

func (b *builder) describe(level int) string {
	parts := make([]string, 0, level+1)
	for i := 0; i <= level; i++ {
		name := "center"
		if i > 0 {
			name = "n" + strconv.Itoa(i-1)
		}
		parts = append(parts, fmt.Sprintf("%s=%d", name, b.path[i]))
	}
	return strings.Join(parts, " ")
}
