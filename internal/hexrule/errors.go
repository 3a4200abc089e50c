package hexrule

import (
	"errors"
	"fmt"
)

var (
	// ErrAlphabetOverflow is returned when the encoded alphabet does not fit
	// the host automaton's symbol ceiling.
	ErrAlphabetOverflow = errors.New("alphabet overflow")
	// ErrEncoding marks an encoder call with out-of-range arguments. It means
	// the analyzer or emitter has a bug.
	ErrEncoding = errors.New("encoding error")
)

// OverflowError reports the computed alphabet size and the ceiling it broke.
type OverflowError struct {
	Colors, States int
	Total, Limit   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %d colors x %d states needs %d symbols, limit is %d",
		ErrAlphabetOverflow, e.Colors, e.States, e.Total, e.Limit)
}

func (e *OverflowError) Unwrap() error { return ErrAlphabetOverflow }
