package turmite

import "strings"

// Dirs is the number of neighbours of a cell on the hexagonal grid.
const Dirs = 6

// Direction indexes one of the six hexagonal neighbours in cyclic order.
type Direction uint8

// Turn is a single relative turn. Values are the bit flags used in the
// specification strings so that a sum of turns forms a TurnMask.
type Turn uint8

const (
	Forward   Turn = 1
	Left      Turn = 2
	Right     Turn = 4
	BackLeft  Turn = 8
	BackRight Turn = 16
	UTurn     Turn = 32
)

// Turns lists every legal turn in flag order.
var Turns = [...]Turn{Forward, Left, Right, BackLeft, BackRight, UTurn}

// rotation is the offset added to a direction index to find where an agent
// would have come from before making the turn.
var rotation = map[Turn]int{
	Forward:   0,
	Left:      1,
	Right:     -1,
	BackLeft:  2,
	BackRight: -2,
	UTurn:     3,
}

var turnNames = map[Turn]string{
	Forward:   "forward",
	Left:      "left",
	Right:     "right",
	BackLeft:  "back-left",
	BackRight: "back-right",
	UTurn:     "u-turn",
}

// String returns the lower-case turn name.
func (t Turn) String() string {
	if n, ok := turnNames[t]; ok {
		return n
	}
	return "invalid"
}

// Rotate applies the turn's rotation to d.
func (t Turn) Rotate(d Direction) Direction {
	r := (int(d) + rotation[t]) % Dirs
	if r < 0 {
		r += Dirs
	}
	return Direction(r)
}

// WouldHaveBeenFacing returns the direction an agent arriving from d must
// previously have arrived from, given that it made turn t in between.
func WouldHaveBeenFacing(t Turn, d Direction) Direction { return t.Rotate(d) }

// TurnMask is a set of turns.
type TurnMask uint8

// AllTurns is the mask with every legal turn set.
const AllTurns TurnMask = 63

// Has reports whether t is in the mask.
func (m TurnMask) Has(t Turn) bool { return uint8(m)&uint8(t) != 0 }

// Valid reports whether the mask is a nonzero combination of legal turns.
func (m TurnMask) Valid() bool { return m != 0 && m&^AllTurns == 0 }

// Turns returns the members of the mask in flag order.
func (m TurnMask) Turns() []Turn {
	out := make([]Turn, 0, len(Turns))
	for _, t := range Turns {
		if m.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Single reports whether exactly one turn is set.
func (m TurnMask) Single() bool { return m.Valid() && m&(m-1) == 0 }

func (m TurnMask) String() string {
	ts := m.Turns()
	if len(ts) == 0 {
		return "none"
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}
