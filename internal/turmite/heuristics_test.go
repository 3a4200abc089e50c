package turmite

import (
	"slices"
	"testing"
)

func TestEvaluateInterestingRules(t *testing.T) {
	for _, src := range []string{
		"{{{1,16,0},{0,8,0}}}",
		"{{{1,8,1},{1,1,0}},{{1,8,0},{1,2,0}}}",
		"{{{1,1,2},{1,4,2}},{{1,2,0},{1,1,2}},{{1,32,0},{1,1,1}}}",
		"{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}",
	} {
		a := Evaluate(MustParse(src))
		if !a.OK() {
			t.Fatalf("%s should be acceptable, failed: %v", src, a.Failed())
		}
	}
}

func TestEvaluateDullRules(t *testing.T) {
	a := Evaluate(MustParse("{{{0,4,0},{1,2,0}}}"))
	if a.ChangesColor || a.OK() {
		t.Fatalf("identity painter should fail ChangesColor: %+v", a)
	}

	a = Evaluate(MustParse("{{{1,4,0},{0,2,0},{0,2,0}}}"))
	if !slices.Equal(a.UnwrittenColors, []int{2}) {
		t.Fatalf("UnwrittenColors = %v, want [2]", a.UnwrittenColors)
	}

	a = Evaluate(MustParse("{{{1,1,0},{0,32,0}}}"))
	if a.Turns {
		t.Fatal("forward/u-turn only rule should fail Turns")
	}

	a = Evaluate(MustParse("{{{1,4,0},{0,32,0}}}"))
	if !a.Turns {
		t.Fatal("right turn should count as turning")
	}

	a = Evaluate(MustParse("{{{1,4,0},{1,32,0}}}"))
	if len(a.Wobbles) != 1 || a.Wobbles[0] != (Cell{State: 0, Color: 1}) {
		t.Fatalf("Wobbles = %v, want [{0 1}]", a.Wobbles)
	}
	if len(a.Failed()) == 0 {
		t.Fatal("Failed should describe the wobble")
	}
}

func TestEvaluateTrapSets(t *testing.T) {
	// State 2 only ever returns to itself; states 0 and 1 reach everything.
	s := MustParse("{{{1,2,1},{0,4,2}},{{1,4,0},{0,2,0}},{{1,2,2},{0,4,2}}}")
	a := Evaluate(s)
	if len(a.TrapSets) != 1 || !slices.Equal(a.TrapSets[0], []int{2}) {
		t.Fatalf("TrapSets = %v, want [[2]]", a.TrapSets)
	}

	// Two disjoint traps are both reported.
	s = MustParse("{{{1,2,0},{0,4,0}},{{1,4,1},{0,2,1}},{{1,2,0},{0,4,1}}}")
	a = Evaluate(s)
	if len(a.TrapSets) != 2 {
		t.Fatalf("TrapSets = %v, want two disjoint traps", a.TrapSets)
	}

	// A single state can never be trapped in a proper subset.
	if got := Evaluate(MustParse("{{{1,4,0},{0,2,0}}}")).TrapSets; len(got) != 0 {
		t.Fatalf("TrapSets = %v, want none", got)
	}
}
