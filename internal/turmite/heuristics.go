package turmite

import (
	"fmt"
	"slices"
)

// Cell addresses one entry of the action table.
type Cell struct {
	State int
	Color int
}

// Acceptability records which of the "is this rule interesting" filters a
// spec passes. None of these affect whether a spec compiles.
type Acceptability struct {
	// ChangesColor is true when at least one action paints a different color.
	ChangesColor bool
	// UnwrittenColors lists colors in 1..n-1 that no action ever paints.
	UnwrittenColors []int
	// Turns is true when some action turns other than forward or u-turn.
	Turns bool
	// TrapSets lists proper, non-empty sets of states that the machine can
	// enter but never leave. Each set is the forward closure of some state.
	TrapSets [][]int
	// Wobbles lists entries that u-turn without changing color or state,
	// which leaves the turmite bouncing between two cells.
	Wobbles []Cell
}

// OK reports whether every filter passed.
func (a Acceptability) OK() bool {
	return a.ChangesColor && len(a.UnwrittenColors) == 0 && a.Turns && len(a.TrapSets) == 0 && len(a.Wobbles) == 0
}

// Failed returns a short description of each failed filter.
func (a Acceptability) Failed() []string {
	var out []string
	if !a.ChangesColor {
		out = append(out, "never changes color")
	}
	if len(a.UnwrittenColors) > 0 {
		out = append(out, fmt.Sprintf("never writes colors %v", a.UnwrittenColors))
	}
	if !a.Turns {
		out = append(out, "never turns")
	}
	for _, set := range a.TrapSets {
		out = append(out, fmt.Sprintf("trapped in states %v", set))
	}
	for _, c := range a.Wobbles {
		out = append(out, fmt.Sprintf("wobbles at state %d color %d", c.State, c.Color))
	}
	return out
}

// Evaluate runs every acceptability filter against the spec.
func Evaluate(s Spec) Acceptability {
	var a Acceptability
	written := make([]bool, s.Colors())
	for state := 0; state < s.States(); state++ {
		for color := 0; color < s.Colors(); color++ {
			act := s.Action(state, color)
			if act.NewColor != color {
				a.ChangesColor = true
			}
			written[act.NewColor] = true
			if act.Turn&^TurnMask(Forward|UTurn) != 0 {
				a.Turns = true
			}
			if act.NewColor == color && act.Turn == TurnMask(UTurn) && act.NewState == state {
				a.Wobbles = append(a.Wobbles, Cell{State: state, Color: color})
			}
		}
	}
	for c := 1; c < len(written); c++ {
		if !written[c] {
			a.UnwrittenColors = append(a.UnwrittenColors, c)
		}
	}
	a.TrapSets = trapSets(s)
	return a
}

// trapSets finds closed proper subsets of states. Any closed set contains
// the forward closure of each of its members, so a trap exists exactly when
// some state's closure is not the full state set. Distinct closures are
// reported in order of their smallest member.
func trapSets(s Spec) [][]int {
	n := s.States()
	var out [][]int
	for start := 0; start < n; start++ {
		seen := make([]bool, n)
		seen[start] = true
		stack := []int{start}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for color := 0; color < s.Colors(); color++ {
				next := s.Action(cur, color).NewState
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
		var set []int
		for st, ok := range seen {
			if ok {
				set = append(set, st)
			}
		}
		if len(set) == n {
			continue
		}
		dup := slices.ContainsFunc(out, func(o []int) bool { return slices.Equal(o, set) })
		if !dup {
			out = append(out, set)
		}
	}
	return out
}
