package turmite

import (
	"errors"
	"testing"
)

func TestParseLangtonsAnt(t *testing.T) {
	s, err := Parse("{{{1, 4, 0}, {0, 2, 0}}}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.States() != 1 || s.Colors() != 2 {
		t.Fatalf("dimensions = %dx%d, want 1x2", s.States(), s.Colors())
	}
	want := Action{NewColor: 1, Turn: TurnMask(Right), NewState: 0}
	if got := s.Action(0, 0); got != want {
		t.Fatalf("action(0,0) = %+v, want %+v", got, want)
	}
	want = Action{NewColor: 0, Turn: TurnMask(Left), NewState: 0}
	if got := s.Action(0, 1); got != want {
		t.Fatalf("action(0,1) = %+v, want %+v", got, want)
	}
}

func TestParseSquareBracketsAndWhitespace(t *testing.T) {
	curly := MustParse("{{{1,8,1},{1,1,0}},{{1,8,0},{1,2,0}}}")
	square, err := Parse(" [ [ [1, 8, 1] ,[1,1,0]],\n\t[[1,8,0],[1,2,0]] ] ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !curly.Equal(square) {
		t.Fatalf("bracket styles disagree: %s vs %s", curly, square)
	}
}

func TestParseCanonicalRoundTrip(t *testing.T) {
	src := "{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}"
	s := MustParse(src)
	if s.String() != src {
		t.Fatalf("String() = %s, want %s", s.String(), src)
	}
	again := MustParse(s.String())
	if !again.Equal(s) {
		t.Fatal("reparsed spec differs")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"no states":       "{}",
		"empty row":       "{{}}",
		"ragged":          "{{{1,4,0},{0,2,0}},{{1,4,0}}}",
		"pair not triple": "{{{1,4},{0,2,0}}}",
		"quad":            "{{{1,4,0,0},{0,2,0}}}",
		"mismatched":      "{{{1,4,0}]}",
		"unterminated":    "{{{1,4,0}",
		"trailing":        "{{{1,4,0}}} x",
		"nested field":    "{{{1,{4},0}}}",
		"bare int":        "7",
		"letters":         "{{{a,4,0}}}",
		"missing comma":   "{{{1 4 0}}}",
		"lone minus":      "{{{-,4,0}}}",
	}
	for name, src := range cases {
		_, err := Parse(src)
		if !errors.Is(err, ErrMalformedSpec) {
			t.Fatalf("%s: Parse(%q) err = %v, want ErrMalformedSpec", name, src, err)
		}
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"color too big":       "{{{2,4,0},{0,2,0}}}",
		"negative color":      "{{{-1,4,0},{0,2,0}}}",
		"state too big":       "{{{1,4,1},{0,2,0}}}",
		"zero mask":           "{{{1,0,0},{0,2,0}}}",
		"mask high bit":       "{{{1,64,0},{0,2,0}}}",
		"mask huge":           "{{{1,1024,0},{0,2,0}}}",
		"negative mask":       "{{{1,-2,0},{0,2,0}}}",
		"negative state":      "{{{1,4,-1},{0,2,0}}}",
		"color overflows int": "{{{99999999999999999999,4,0},{0,2,0}}}",
		"state overflows int": "{{{1,4,-99999999999999999999},{0,2,0}}}",
	}
	for name, src := range cases {
		_, err := Parse(src)
		if !errors.Is(err, ErrOutOfRangeField) {
			t.Fatalf("%s: Parse(%q) err = %v, want ErrOutOfRangeField", name, src, err)
		}
		var se *SpecError
		if !errors.As(err, &se) || se.State != 0 || se.Color != 0 {
			t.Fatalf("%s: expected location state 0 color 0, got %v", name, err)
		}
	}
}

func TestParseAcceptsSummedMasks(t *testing.T) {
	s, err := Parse("{{{1,6,0},{0,63,0}}}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := s.Action(0, 0).Turn.Turns(); len(got) != 2 || got[0] != Left || got[1] != Right {
		t.Fatalf("turns of mask 6 = %v, want [left right]", got)
	}
	if len(s.Action(0, 1).Turn.Turns()) != 6 {
		t.Fatal("mask 63 should contain all six turns")
	}
}

func TestNameAndDigest(t *testing.T) {
	s := MustParse("{{{1,4,0},{0,2,0}}}")
	if got, want := s.Name(""), "HexTurmite_1_4_0_0_2_0"; got != want {
		t.Fatalf("Name = %s, want %s", got, want)
	}
	if got, want := s.Name("Ant"), "Ant_1_4_0_0_2_0"; got != want {
		t.Fatalf("Name = %s, want %s", got, want)
	}

	wide := MustParse("{{{1,1,0},{1,1,0},{1,1,0},{1,1,0}}}")
	square := MustParse("{{{1,1,0},{1,1,0}},{{1,1,0},{1,1,0}}}")
	if wide.Name("") != square.Name("") {
		t.Fatal("expected flat names of 1x4 and 2x2 tables to collide")
	}
	if wide.Digest() == square.Digest() {
		t.Fatal("digest must separate 1x4 from 2x2")
	}
	if s.Digest() != MustParse(" {{{1,4,0},{0,2,0}}} ").Digest() {
		t.Fatal("digest must be stable across formatting")
	}
}
