package rewrite

// These errors are user errors, not internal errors.  They all occur
// when a rule is built or supplied with arguments, never during
// ordinary application: a transformation that does not apply just
// returns no results.

import (
	"errors"
	"fmt"
	"strings"
)

// UnboundVariables occurs when a Pattern transformation's rhs uses
// variables that the lhs does not bind.
type UnboundVariables struct {
	Vars []string
}

func (e *UnboundVariables) Error() string {
	return "rhs variables not bound by lhs: " + strings.Join(e.Vars, ", ")
}

// NotInvertible occurs when Invert is called on a transformation
// kind that does not support inversion.
type NotInvertible struct {
	Kind Kind
}

func (e *NotInvertible) Error() string {
	return "a " + e.Kind.String() + " transformation cannot be inverted"
}

// DuplicateLabel occurs when an argument schema has two arguments
// with the same label.
type DuplicateLabel struct {
	Label string
}

func (e *DuplicateLabel) Error() string {
	return `duplicate argument label "` + e.Label + `"`
}

// ArityError occurs when the number of supplied arguments does not
// match the schema.
type ArityError struct {
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("wanted %d arguments; got %d", e.Want, e.Got)
}

// ArgError reports one unparsable argument.
type ArgError struct {
	Label string
	Input string
	Err   error
}

func (e *ArgError) Error() string {
	return fmt.Sprintf(`argument "%s": can't parse "%s": %s`, e.Label, e.Input, e.Err)
}

// ArgErrors collects per-argument errors so a caller can report
// which fields were invalid.
type ArgErrors []*ArgError

func (es ArgErrors) Error() string {
	acc := make([]string, len(es))
	for i, e := range es {
		acc[i] = e.Error()
	}
	return strings.Join(acc, "; ")
}

// ErrNotParameterized occurs when arguments are supplied to a
// transformation that does not take any.
var ErrNotParameterized = errors.New("transformation is not parameterized")

// InterpreterNotFound occurs when a TransformSource names an
// interpreter that is not in the given map of interpreters.
var InterpreterNotFound = errors.New("interpreter not found")
