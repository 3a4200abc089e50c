package turmite

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSpec marks a structural failure: bad syntax, wrong arity or
	// a ragged table.
	ErrMalformedSpec = errors.New("malformed spec")
	// ErrOutOfRangeField marks a triple component outside its legal domain.
	ErrOutOfRangeField = errors.New("field out of range")
	// ErrNoAcceptableSpec is returned by Generate when the attempt budget is
	// exhausted before an acceptable spec is found.
	ErrNoAcceptableSpec = errors.New("no acceptable spec found")
)

// SpecError describes where a spec failed to parse or validate. Offset is a
// byte offset into the source for syntax errors and -1 otherwise; State and
// Color locate the offending entry and are -1 when not applicable.
type SpecError struct {
	Kind   error
	Offset int
	State  int
	Color  int
	Msg    string
}

func (e *SpecError) Error() string {
	switch {
	case e.Offset >= 0:
		return fmt.Sprintf("%v at offset %d: %s", e.Kind, e.Offset, e.Msg)
	case e.State >= 0 && e.Color >= 0:
		return fmt.Sprintf("%v at state %d color %d: %s", e.Kind, e.State, e.Color, e.Msg)
	case e.State >= 0:
		return fmt.Sprintf("%v at state %d: %s", e.Kind, e.State, e.Msg)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
}

func (e *SpecError) Unwrap() error { return e.Kind }

func syntaxError(offset int, format string, args ...any) *SpecError {
	return &SpecError{Kind: ErrMalformedSpec, Offset: offset, State: -1, Color: -1, Msg: fmt.Sprintf(format, args...)}
}

func fieldError(state, color int, format string, args ...any) *SpecError {
	return &SpecError{Kind: ErrOutOfRangeField, Offset: -1, State: state, Color: color, Msg: fmt.Sprintf(format, args...)}
}
