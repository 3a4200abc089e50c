package hexrule

import (
	"hexturmite/internal/turmite"
)

// Reachability holds the per-direction arrival sets and the per-color
// "leaves this color behind" sets derived from a spec.
type Reachability struct {
	// CouldArrive[d] holds every occupied symbol that, after acting, moves
	// its turmite into the cell on whose d side it sits.
	CouldArrive [turmite.Dirs]SymbolSet
	// NeverArrives[d] holds every symbol that cannot send a turmite into the
	// cell on whose d side it sits. Empty cells are always members.
	NeverArrives [turmite.Dirs]SymbolSet
	// LeavesBehind[c] holds every symbol that turns into background color c
	// once any turmite on it has moved away.
	LeavesBehind []SymbolSet
}

// Analyze derives the reachability sets. The result is never mutated after
// construction.
func Analyze(spec turmite.Spec, enc Encoder) (Reachability, error) {
	var r Reachability
	n := enc.Total()
	for d := range r.CouldArrive {
		r.CouldArrive[d] = NewSymbolSet(n)
		r.NeverArrives[d] = NewSymbolSet(n)
		for c := 0; c < spec.Colors(); c++ {
			v, err := enc.Empty(c)
			if err != nil {
				return Reachability{}, err
			}
			r.NeverArrives[d].Add(v)
		}
	}

	for color := 0; color < spec.Colors(); color++ {
		for state := 0; state < spec.States(); state++ {
			mask := spec.Action(state, color).Turn
			for _, t := range turmite.Turns {
				for d := turmite.Direction(0); d < turmite.Dirs; d++ {
					v, err := enc.Encode(color, state, turmite.WouldHaveBeenFacing(t, d))
					if err != nil {
						return Reachability{}, err
					}
					if mask.Has(t) {
						r.CouldArrive[d].Add(v)
					} else {
						r.NeverArrives[d].Add(v)
					}
				}
			}
		}
	}

	r.LeavesBehind = make([]SymbolSet, spec.Colors())
	for out := range r.LeavesBehind {
		set := NewSymbolSet(n)
		v, err := enc.Empty(out)
		if err != nil {
			return Reachability{}, err
		}
		set.Add(v)
		r.LeavesBehind[out] = set
	}
	for state := 0; state < spec.States(); state++ {
		for color := 0; color < spec.Colors(); color++ {
			set := r.LeavesBehind[spec.Action(state, color).NewColor]
			for d := turmite.Direction(0); d < turmite.Dirs; d++ {
				v, err := enc.Encode(color, state, d)
				if err != nil {
					return Reachability{}, err
				}
				set.Add(v)
			}
		}
	}
	return r, nil
}
