package hexrule

import (
	"testing"

	"hexturmite/internal/turmite"
)

func analyze(t *testing.T, src string) (turmite.Spec, Encoder, Reachability) {
	t.Helper()
	spec := turmite.MustParse(src)
	enc, err := NewEncoder(spec.Colors(), spec.States(), 0)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	r, err := Analyze(spec, enc)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return spec, enc, r
}

func TestArrivalSetsPartitionAlphabet(t *testing.T) {
	for _, src := range []string{
		"{{{1,4,0},{0,2,0}}}",
		"{{{1,6,1},{0,63,0}},{{0,16,0},{1,1,1}}}",
		"{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}",
	} {
		_, enc, r := analyze(t, src)
		for d := 0; d < turmite.Dirs; d++ {
			for v := Symbol(0); int(v) < enc.Total(); v++ {
				could, never := r.CouldArrive[d].Has(v), r.NeverArrives[d].Has(v)
				if could == never {
					t.Fatalf("%s: dir %d symbol %d could=%v never=%v", src, d, v, could, never)
				}
			}
			for c := 0; c < enc.Colors(); c++ {
				if !r.NeverArrives[d].Has(Symbol(c)) {
					t.Fatalf("%s: empty color %d must never arrive from %d", src, c, d)
				}
			}
		}
	}
}

func TestArrivalSetsLangton(t *testing.T) {
	_, enc, r := analyze(t, "{{{1,4,0},{0,2,0}}}")
	// Color 0 turns right, so an arrival from d was previously from d-1.
	// Color 1 turns left, so it was previously from d+1.
	for d := turmite.Direction(0); d < turmite.Dirs; d++ {
		c0, _ := enc.Encode(0, 0, turmite.Right.Rotate(d))
		c1, _ := enc.Encode(1, 0, turmite.Left.Rotate(d))
		want := SetOf(enc.Total(), c0, c1)
		if !r.CouldArrive[d].Equal(want) {
			t.Fatalf("CouldArrive[%d] = %s, want %s", d, r.CouldArrive[d], want)
		}
	}
}

func TestLeavesBehindPartition(t *testing.T) {
	spec, enc, r := analyze(t, "{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}")
	owner := make([]int, enc.Total())
	for i := range owner {
		owner[i] = -1
	}
	for c, set := range r.LeavesBehind {
		if !set.Has(Symbol(c)) {
			t.Fatalf("LeavesBehind[%d] must contain the empty cell %d", c, c)
		}
		for _, v := range set.Symbols() {
			if owner[v] != -1 {
				t.Fatalf("symbol %d in LeavesBehind[%d] and [%d]", v, owner[v], c)
			}
			owner[v] = c
		}
	}
	for v, c := range owner {
		if c == -1 {
			t.Fatalf("symbol %d leaves no color behind", v)
		}
		dec, _ := enc.Decode(Symbol(v))
		if dec.Occupied {
			if want := spec.Action(dec.State, dec.Color).NewColor; c != want {
				t.Fatalf("symbol %d leaves %d, want %d", v, c, want)
			}
		}
	}
}
