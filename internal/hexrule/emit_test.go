package hexrule

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hexturmite/internal/turmite"
)

var emitSpecs = []string{
	"{{{1,4,0},{0,2,0}}}",
	"{{{1,16,0},{0,8,0}}}",
	"{{{1,8,1},{1,1,0}},{{1,8,0},{1,2,0}}}",
	"{{{1,1,2},{1,4,2}},{{1,2,0},{1,1,2}},{{1,32,0},{1,1,1}}}",
	"{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}",
	"{{{1,6,1},{0,63,0}},{{0,16,0},{1,1,1}}}",
	"{{{0,1,0}}}",
}

func compile(t *testing.T, src string) *Compiled {
	t.Helper()
	c, err := CompileString(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("compile %s: %v", src, err)
	}
	return c
}

func overlap(a, b Rule) bool {
	if !a.Center.Intersects(b.Center) {
		return false
	}
	for i := range a.Neighbors {
		if !a.Neighbors[i].Intersects(b.Neighbors[i]) {
			return false
		}
	}
	return true
}

func TestLangtonCompiles(t *testing.T) {
	c := compile(t, "{{{1,4,0},{0,2,0}}}")
	if c.Alphabet() != 14 {
		t.Fatalf("alphabet = %d, want 14", c.Alphabet())
	}
	if len(c.Rules) != 6*2+2 {
		t.Fatalf("rule count = %d, want 14", len(c.Rules))
	}
	if c.Name != "HexTurmite_1_4_0_0_2_0" {
		t.Fatalf("name = %s", c.Name)
	}
	if c.Seed() != 2 {
		t.Fatalf("seed = %d, want 2", c.Seed())
	}
	if c.Geometry != "hexagonal" {
		t.Fatalf("geometry = %s", c.Geometry)
	}
}

func TestCenterCoverage(t *testing.T) {
	for _, src := range emitSpecs {
		c := compile(t, src)
		covered := NewSymbolSet(c.Alphabet())
		for _, r := range c.Rules {
			covered.Union(r.Center)
		}
		if !covered.Full() {
			t.Fatalf("%s: centers cover %d of %d symbols", src, covered.Len(), c.Alphabet())
		}
	}
}

func TestDefaultRulesCoverEverything(t *testing.T) {
	for _, src := range emitSpecs {
		c := compile(t, src)
		union := NewSymbolSet(c.Alphabet())
		defaults := 0
		for _, r := range c.Rules {
			if r.Kind != Default {
				if defaults > 0 {
					t.Fatalf("%s: arrival rule after a default rule", src)
				}
				continue
			}
			defaults++
			for i, n := range r.Neighbors {
				if !n.Full() {
					t.Fatalf("%s: default rule for color %d constrains neighbour %d", src, r.Color, i)
				}
			}
			if r.Output != Symbol(r.Color) {
				t.Fatalf("%s: default rule outputs %d for color %d", src, r.Output, r.Color)
			}
			union.Union(r.Center)
		}
		if defaults != c.Spec.Colors() || !union.Full() {
			t.Fatalf("%s: %d default rules covering %d symbols", src, defaults, union.Len())
		}
	}
}

func TestArrivalRulesNeverOverlap(t *testing.T) {
	for _, src := range emitSpecs {
		c := compile(t, src)
		var arrivals []Rule
		for _, r := range c.Rules {
			if r.Kind == Arrival {
				arrivals = append(arrivals, r)
			}
		}
		for i := range arrivals {
			for j := i + 1; j < len(arrivals); j++ {
				if overlap(arrivals[i], arrivals[j]) {
					a, b := arrivals[i], arrivals[j]
					t.Fatalf("%s: arrival (s=%d d=%d c=%d) overlaps (s=%d d=%d c=%d)",
						src, a.State, a.Dir, a.Color, b.State, b.Dir, b.Color)
				}
			}
		}
	}
}

func TestArrivalOutputs(t *testing.T) {
	c := compile(t, "{{{1,8,1},{1,1,0}},{{1,8,0},{1,2,0}}}")
	for _, r := range c.Rules {
		if r.Kind != Arrival {
			continue
		}
		dec, err := c.Encoder.Decode(r.Output)
		if err != nil {
			t.Fatalf("decode output: %v", err)
		}
		want := Decoded{Color: r.Color, State: r.State, Dir: r.Dir, Occupied: true}
		if dec != want {
			t.Fatalf("rule output %+v, want %+v", dec, want)
		}
		if !r.Center.Equal(c.Reach.LeavesBehind[r.Color]) {
			t.Fatalf("center of arrival into color %d is not LeavesBehind", r.Color)
		}
		for i, n := range r.Neighbors {
			if turmite.Direction(i) == r.Dir {
				continue
			}
			if !n.Equal(c.Reach.NeverArrives[i]) {
				t.Fatalf("neighbour %d of arrival from %d not constrained to NeverArrives", i, r.Dir)
			}
		}
	}
}

func TestUnreachableStateEmitsNoArrivals(t *testing.T) {
	// Nothing ever switches into state 1.
	c := compile(t, "{{{1,4,0},{0,2,0}},{{1,4,0},{0,2,0}}}")
	for _, r := range c.Rules {
		if r.Kind == Arrival && r.State == 1 {
			t.Fatalf("unexpected arrival into unreachable state: %+v", r)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	for _, src := range emitSpecs {
		a, b := compile(t, src), compile(t, src)
		if a.Name != b.Name || a.Digest != b.Digest {
			t.Fatalf("%s: identifiers differ", src)
		}
		if !reflect.DeepEqual(a.Rules, b.Rules) {
			t.Fatalf("%s: rule lists differ between runs", src)
		}
	}
}

func TestCompileCeiling(t *testing.T) {
	actions := func(n int) [][]turmite.Action {
		out := make([][]turmite.Action, n)
		for s := range out {
			out[s] = make([]turmite.Action, n)
			for c := range out[s] {
				out[s][c] = turmite.Action{
					NewColor: (c + 1) % n,
					Turn:     turmite.TurnMask(turmite.Turns[(s+c)%len(turmite.Turns)]),
					NewState: (s + 1) % n,
				}
			}
		}
		return out
	}

	c, err := Compile(context.Background(), turmite.MustNew(actions(5)), Options{})
	if err != nil {
		t.Fatalf("5x5 compile: %v", err)
	}
	if c.Alphabet() != 155 {
		t.Fatalf("5x5 alphabet = %d, want 155", c.Alphabet())
	}

	c, err = Compile(context.Background(), turmite.MustNew(actions(10)), Options{})
	if !errors.Is(err, ErrAlphabetOverflow) {
		t.Fatalf("10x10 err = %v, want ErrAlphabetOverflow", err)
	}
	if c != nil {
		t.Fatal("no compiled output expected on overflow")
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileString(ctx, "{{{1,4,0},{0,2,0}}}", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
