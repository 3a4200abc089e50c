package hexrule

import (
	"fmt"

	"hexturmite/internal/turmite"
)

// DefaultAlphabetLimit is the largest alphabet the target automaton accepts.
const DefaultAlphabetLimit = 255

// Encoder maps (color, state, direction) onto the flat symbol alphabet.
//
// Symbols [0, colors) are empty cells of that color. The remaining
// colors*states*6 symbols are occupied cells: a turmite in some state,
// standing on some color, that arrived from some neighbour direction.
type Encoder struct {
	colors, states int
	total          int
}

// Decoded is the inverse image of a symbol.
type Decoded struct {
	Color    int
	State    int
	Dir      turmite.Direction
	Occupied bool
}

// NewEncoder sizes the alphabet and fails with ErrAlphabetOverflow when it
// exceeds limit. A limit <= 0 selects DefaultAlphabetLimit.
func NewEncoder(colors, states, limit int) (Encoder, error) {
	if colors < 1 || states < 1 {
		return Encoder{}, fmt.Errorf("%w: need at least one color and one state, got %d colors %d states", ErrEncoding, colors, states)
	}
	if limit <= 0 {
		limit = DefaultAlphabetLimit
	}
	total := colors + colors*states*turmite.Dirs
	if total > limit {
		return Encoder{}, &OverflowError{Colors: colors, States: states, Total: total, Limit: limit}
	}
	return Encoder{colors: colors, states: states, total: total}, nil
}

// Total is the alphabet size.
func (e Encoder) Total() int { return e.total }

// Colors returns the number of background colors.
func (e Encoder) Colors() int { return e.colors }

// States returns the number of turmite states.
func (e Encoder) States() int { return e.states }

// Empty returns the symbol for an empty cell of the given color.
func (e Encoder) Empty(color int) (Symbol, error) {
	if color < 0 || color >= e.colors {
		return 0, fmt.Errorf("%w: color %d not in [0,%d)", ErrEncoding, color, e.colors)
	}
	return Symbol(color), nil
}

// Encode returns the symbol of a turmite in state on color, having arrived
// from neighbour d.
func (e Encoder) Encode(color, state int, d turmite.Direction) (Symbol, error) {
	if color < 0 || color >= e.colors || state < 0 || state >= e.states || int(d) >= turmite.Dirs {
		return 0, fmt.Errorf("%w: encode(color=%d, state=%d, dir=%d) outside %d colors %d states",
			ErrEncoding, color, state, d, e.colors, e.states)
	}
	return Symbol(e.colors + turmite.Dirs*(e.states*color+state) + int(d)), nil
}

// Decode inverts Encode and Empty.
func (e Encoder) Decode(v Symbol) (Decoded, error) {
	if v < 0 || int(v) >= e.total {
		return Decoded{}, fmt.Errorf("%w: symbol %d not in [0,%d)", ErrEncoding, v, e.total)
	}
	if int(v) < e.colors {
		return Decoded{Color: int(v)}, nil
	}
	rest := int(v) - e.colors
	d := rest % turmite.Dirs
	rest /= turmite.Dirs
	return Decoded{
		Color:    rest / e.states,
		State:    rest % e.states,
		Dir:      turmite.Direction(d),
		Occupied: true,
	}, nil
}
