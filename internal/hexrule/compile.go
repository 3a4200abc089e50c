package hexrule

import (
	"context"
	"fmt"

	"hexturmite/internal/turmite"
)

// Geometry names the neighbourhood the rules are written for.
const Geometry = "hexagonal"

// Options tune compilation. The zero value uses the defaults.
type Options struct {
	Prefix        string
	AlphabetLimit int
}

// Compiled is the output of the pipeline. All fields, including the symbol
// sets shared between rules, must be treated as read-only.
type Compiled struct {
	Spec     turmite.Spec
	Name     string
	Digest   string
	Geometry string
	Encoder  Encoder
	Reach    Reachability
	Rules    []Rule
}

// Alphabet is the number of symbols the rules range over.
func (c *Compiled) Alphabet() int { return c.Encoder.Total() }

// Seed is the symbol of a single turmite in state 0 on color 0, the usual
// starting pattern.
func (c *Compiled) Seed() Symbol {
	v, _ := c.Encoder.Encode(0, 0, 0)
	return v
}

// Compile runs encode, analyze and emit. The alphabet check happens before
// anything else is derived, so an oversized spec produces no rules.
func Compile(ctx context.Context, spec turmite.Spec, opts Options) (*Compiled, error) {
	enc, err := NewEncoder(spec.Colors(), spec.States(), opts.AlphabetLimit)
	if err != nil {
		return nil, err
	}
	reach, err := Analyze(spec, enc)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	rules, err := Emit(ctx, spec, enc, reach)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	return &Compiled{
		Spec:     spec,
		Name:     spec.Name(opts.Prefix),
		Digest:   spec.Digest(),
		Geometry: Geometry,
		Encoder:  enc,
		Reach:    reach,
		Rules:    rules,
	}, nil
}

// CompileString parses src and compiles it.
func CompileString(ctx context.Context, src string, opts Options) (*Compiled, error) {
	spec, err := turmite.Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, spec, opts)
}
