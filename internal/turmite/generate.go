package turmite

import "fmt"

// IntSource yields uniform ints in [0, n).
type IntSource interface {
	IntN(n int) int
}

// Random draws a table uniformly: any color, any single turn, any state.
// Masks with several turns are never produced.
func Random(rng IntSource, states, colors int) (Spec, error) {
	if states < 1 || colors < 1 {
		return Spec{}, fmt.Errorf("%w: need at least one state and one color, got %dx%d", ErrMalformedSpec, states, colors)
	}
	actions := make([][]Action, states)
	for s := range actions {
		actions[s] = make([]Action, colors)
		for c := range actions[s] {
			actions[s][c] = Action{
				NewColor: rng.IntN(colors),
				Turn:     TurnMask(Turns[rng.IntN(len(Turns))]),
				NewState: rng.IntN(states),
			}
		}
	}
	return New(actions)
}

// Generate keeps drawing random tables until one passes every acceptability
// filter. It gives up after maxAttempts draws.
func Generate(rng IntSource, states, colors, maxAttempts int) (Spec, int, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s, err := Random(rng, states, colors)
		if err != nil {
			return Spec{}, attempt, err
		}
		if Evaluate(s).OK() {
			return s, attempt, nil
		}
	}
	return Spec{}, maxAttempts, fmt.Errorf("%w after %d attempts (%d states, %d colors)", ErrNoAcceptableSpec, maxAttempts, states, colors)
}
