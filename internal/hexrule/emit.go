package hexrule

import (
	"context"

	"golang.org/x/sync/errgroup"

	"hexturmite/internal/turmite"
)

// RuleKind separates the specific arrival rules from the fallbacks.
type RuleKind uint8

const (
	// Arrival rules move a turmite into the center cell from one neighbour.
	Arrival RuleKind = iota + 1
	// Default rules leave the center with its background color only.
	Default
)

func (k RuleKind) String() string {
	switch k {
	case Arrival:
		return "arrival"
	case Default:
		return "default"
	default:
		return "unknown"
	}
}

// Rule is one transition: when the center matches Center and neighbour i
// matches Neighbors[i] for every i, the center becomes Output.
type Rule struct {
	Kind      RuleKind
	Center    SymbolSet
	Neighbors [turmite.Dirs]SymbolSet
	Output    Symbol

	// State, Dir and Color record which arrival produced the rule. For
	// default rules only Color is set.
	State int
	Dir   turmite.Direction
	Color int
}

// Emit produces the full transition list: every arrival rule, ordered by
// target state, direction and center color, followed by one default rule per
// color. Arrival rules for different target states are built concurrently;
// the output order does not depend on scheduling.
func Emit(ctx context.Context, spec turmite.Spec, enc Encoder, reach Reachability) ([]Rule, error) {
	perState := make([][]Rule, spec.States())
	g, ctx := errgroup.WithContext(ctx)
	for s := 0; s < spec.States(); s++ {
		s := s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rules, err := arrivalsInto(spec, enc, reach, s)
			if err != nil {
				return err
			}
			perState[s] = rules
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rules []Rule
	for _, rs := range perState {
		rules = append(rules, rs...)
	}

	full := FullSet(enc.Total())
	for c := 0; c < spec.Colors(); c++ {
		out, err := enc.Empty(c)
		if err != nil {
			return nil, err
		}
		r := Rule{Kind: Default, Center: reach.LeavesBehind[c], Output: out, State: -1, Color: c}
		for i := range r.Neighbors {
			r.Neighbors[i] = full
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// arrivalsInto builds the rules that place a turmite in state target into
// the center cell.
func arrivalsInto(spec turmite.Spec, enc Encoder, reach Reachability, target int) ([]Rule, error) {
	var rules []Rule
	for d := turmite.Direction(0); d < turmite.Dirs; d++ {
		inputs := NewSymbolSet(enc.Total())
		for state := 0; state < spec.States(); state++ {
			for color := 0; color < spec.Colors(); color++ {
				act := spec.Action(state, color)
				if act.NewState != target {
					continue
				}
				for _, t := range act.Turn.Turns() {
					v, err := enc.Encode(color, state, turmite.WouldHaveBeenFacing(t, d))
					if err != nil {
						return nil, err
					}
					inputs.Add(v)
				}
			}
		}
		if inputs.Empty() {
			continue
		}
		for c := 0; c < spec.Colors(); c++ {
			out, err := enc.Encode(c, target, d)
			if err != nil {
				return nil, err
			}
			r := Rule{Kind: Arrival, Center: reach.LeavesBehind[c], Output: out, State: target, Dir: d, Color: c}
			for i := range r.Neighbors {
				if turmite.Direction(i) == d {
					r.Neighbors[i] = inputs
				} else {
					r.Neighbors[i] = reach.NeverArrives[i]
				}
			}
			rules = append(rules, r)
		}
	}
	return rules, nil
}
