package turmite

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is prepended to generated rule names.
const DefaultPrefix = "HexTurmite"

// Action is what the turmite does in a given (state, color): paint NewColor,
// make one of the turns in Turn, then switch to NewState and step forward.
type Action struct {
	NewColor int
	Turn     TurnMask
	NewState int
}

// Spec is a full action table indexed by [state][color]. The zero value is
// not usable; build one with New or Parse.
type Spec struct {
	actions [][]Action
}

// New validates the table and returns an immutable Spec. Every state row must
// have the same number of colors and every field must be in range.
func New(actions [][]Action) (Spec, error) {
	if len(actions) == 0 {
		return Spec{}, &SpecError{Kind: ErrMalformedSpec, Offset: -1, State: -1, Color: -1, Msg: "table has no states"}
	}
	colors := len(actions[0])
	if colors == 0 {
		return Spec{}, &SpecError{Kind: ErrMalformedSpec, Offset: -1, State: 0, Color: -1, Msg: "state has no colors"}
	}
	states := len(actions)
	rows := make([][]Action, states)
	for s, row := range actions {
		if len(row) != colors {
			return Spec{}, &SpecError{Kind: ErrMalformedSpec, Offset: -1, State: s, Color: -1,
				Msg: fmt.Sprintf("row has %d entries, want %d", len(row), colors)}
		}
		for c, a := range row {
			if a.NewColor < 0 || a.NewColor >= colors {
				return Spec{}, fieldError(s, c, "new color %d not in [0,%d)", a.NewColor, colors)
			}
			if !a.Turn.Valid() {
				return Spec{}, fieldError(s, c, "turn mask %d is not a nonzero combination of 1,2,4,8,16,32", a.Turn)
			}
			if a.NewState < 0 || a.NewState >= states {
				return Spec{}, fieldError(s, c, "new state %d not in [0,%d)", a.NewState, states)
			}
		}
		rows[s] = append([]Action(nil), row...)
	}
	return Spec{actions: rows}, nil
}

// MustNew is like New but panics on error. Intended for tables in tests and
// static catalogs.
func MustNew(actions [][]Action) Spec {
	s, err := New(actions)
	if err != nil {
		panic(err)
	}
	return s
}

// States returns the number of internal turmite states.
func (s Spec) States() int { return len(s.actions) }

// Colors returns the number of cell colors.
func (s Spec) Colors() int {
	if len(s.actions) == 0 {
		return 0
	}
	return len(s.actions[0])
}

// Action returns the action for the given state and color.
func (s Spec) Action(state, color int) Action { return s.actions[state][color] }

// Flatten returns every triple field in row-major order.
func (s Spec) Flatten() []int {
	out := make([]int, 0, s.States()*s.Colors()*3)
	for _, row := range s.actions {
		for _, a := range row {
			out = append(out, a.NewColor, int(a.Turn), a.NewState)
		}
	}
	return out
}

// Name is the rule identifier: the prefix followed by the flattened fields,
// all separated by underscores.
func (s Spec) Name(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	flat := s.Flatten()
	parts := make([]string, 0, len(flat)+1)
	parts = append(parts, prefix)
	for _, v := range flat {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, "_")
}

// Digest is a short hash of the canonical form. Unlike Name it includes the
// table dimensions, so a 1x4 and a 2x2 table never share a digest.
func (s Spec) Digest() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%dx%d:%s", s.States(), s.Colors(), s.String())))
	return hex.EncodeToString(sum[:8])
}

// String renders the canonical curly-bracket form, e.g. {{{1,4,0},{0,2,0}}}.
func (s Spec) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, row := range s.actions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		for j, a := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "{%d,%d,%d}", a.NewColor, a.Turn, a.NewState)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.String()
}

// Equal reports whether two specs have identical tables.
func (s Spec) Equal(o Spec) bool {
	if s.States() != o.States() || s.Colors() != o.Colors() {
		return false
	}
	for i, row := range s.actions {
		for j, a := range row {
			if o.actions[i][j] != a {
				return false
			}
		}
	}
	return true
}
