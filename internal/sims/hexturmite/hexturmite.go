package hexturmite

import (
	"context"
	"fmt"
	"strconv"

	"hexturmite/internal/core"
	"hexturmite/internal/hexrule"
	"hexturmite/internal/ruletree"
	"hexturmite/internal/turmite"
)

// Config holds parameters for the compiled turmite automaton.
type Config struct {
	Width         int
	Height        int
	Spec          string
	AlphabetLimit int
}

// DefaultConfig returns the default configuration: hexagonal Langton's ant.
func DefaultConfig() Config {
	return Config{Width: 128, Height: 128, Spec: "{{{1,4,0},{0,2,0}}}", AlphabetLimit: hexrule.DefaultAlphabetLimit}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["spec"]; ok && v != "" {
		c.Spec = v
	}
	if v, ok := cfg["alphabet_limit"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.AlphabetLimit = parsed
		}
	}
	return c
}

// Automaton steps a compiled turmite rule over a toroidal hex grid.
type Automaton struct {
	rule *hexrule.Compiled
	tree *ruletree.Tree
	cur  *core.ByteGrid
	nxt  *core.ByteGrid
	gen  int
}

// New compiles the spec in cfg and returns an automaton holding a single
// turmite in the middle of the grid.
func New(cfg Config) (*Automaton, error) {
	rule, err := hexrule.CompileString(context.Background(), cfg.Spec, hexrule.Options{AlphabetLimit: cfg.AlphabetLimit})
	if err != nil {
		return nil, err
	}
	return NewFromRule(rule, cfg.Width, cfg.Height)
}

// NewFromRule builds an automaton for an already compiled rule.
func NewFromRule(rule *hexrule.Compiled, w, h int) (*Automaton, error) {
	if rule.Alphabet() > 256 {
		return nil, fmt.Errorf("alphabet %d does not fit a byte grid", rule.Alphabet())
	}
	tree, err := ruletree.Build(rule.Geometry, rule.Alphabet(), rule.Rules)
	if err != nil {
		return nil, err
	}
	a := &Automaton{rule: rule, tree: tree, cur: core.NewByteGrid(w, h), nxt: core.NewByteGrid(w, h)}
	a.Reset(0)
	return a, nil
}

// Name returns the simulation identifier.
func (a *Automaton) Name() string { return "hexturmite" }

// Size returns the simulation grid dimensions.
func (a *Automaton) Size() core.Size { return core.Size{W: a.cur.W, H: a.cur.H} }

// Cells exposes the current symbols.
func (a *Automaton) Cells() []uint8 { return a.cur.Cells() }

// Rule returns the compiled rule being run.
func (a *Automaton) Rule() *hexrule.Compiled { return a.rule }

// Generation counts steps since the last Reset.
func (a *Automaton) Generation() int { return a.gen }

// Reset clears the grid to color 0 and places one turmite in the middle.
// The seed is unused; the start pattern is fixed.
func (a *Automaton) Reset(seed int64) {
	a.cur.Clear()
	a.cur.Set(a.cur.W/2, a.cur.H/2, uint8(a.rule.Seed()))
	a.gen = 0
}

// Step advances every cell by one generation.
func (a *Automaton) Step() {
	var nb [turmite.Dirs]uint8
	var syms [turmite.Dirs]hexrule.Symbol
	w, h := a.cur.W, a.cur.H
	cells, next := a.cur.Cells(), a.nxt.Cells()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a.cur.HexNeighbors(x, y, &nb)
			for i, v := range nb {
				syms[i] = hexrule.Symbol(v)
			}
			idx := a.cur.Index(x, y)
			next[idx] = uint8(a.tree.Eval(hexrule.Symbol(cells[idx]), syms))
		}
	}
	a.cur, a.nxt = a.nxt, a.cur
	a.gen++
}

// Agents counts cells currently holding a turmite.
func (a *Automaton) Agents() int {
	n := 0
	for _, v := range a.cur.Cells() {
		if int(v) >= a.rule.Spec.Colors() {
			n++
		}
	}
	return n
}

func init() {
	core.Register("hexturmite", func(cfg map[string]string) (core.Sim, error) {
		a, err := New(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return a, nil
	})
}
