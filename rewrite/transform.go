/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rewrite provides transformations and rules over arbitrary
// term types.
//
// A Transformation is a possibly-failing, possibly-multi-result
// computation over terms.  A Rule is a named bundle of
// Transformations with metadata flags.  Applying either never
// mutates its input; failure to apply is an empty result, not an
// error.
package rewrite

import (
	"github.com/SakastLord/ideas/match"
)

// Kind tags the variant of a Transformation.
type Kind int

const (
	// Direct wraps a function from a term to zero or more terms.
	Direct Kind = iota

	// Pattern is an equational (lhs, rhs) pair.  Applying unifies
	// the lhs against the input and substitutes into the rhs.
	Pattern

	// Parameterized needs externally supplied argument values
	// before yielding an inner Transformation.
	Parameterized

	// Lifted operates through an accessor/updater pair into a
	// larger structure.
	Lifted
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Pattern:
		return "pattern"
	case Parameterized:
		return "parameterized"
	case Lifted:
		return "lifted"
	}
	return "unknown"
}

// PatternEngine provides the matching and substitution that Pattern
// transformations need.  A term domain that has pattern variables
// supplies one.
type PatternEngine[T any] interface {
	// Match unifies the pattern against the term, returning zero
	// or more bindings.
	Match(pattern, term T) ([]match.Bindings, error)

	// Substitute replaces the pattern's variables with their
	// bindings.  The result must share no structure with either
	// argument.
	Substitute(bs match.Bindings, pattern T) T

	// Vars lists the pattern variables occurring in the term.
	Vars(pattern T) []string
}

// Transformation is a typed, possibly-failing, possibly-multi-result
// function over terms.
//
// The zero Transformation is not useful; use the constructors.
type Transformation[T any] struct {
	kind  Kind
	apply func(T) []T

	// invert is nil for kinds that do not support inversion.
	invert func() (*Transformation[T], error)

	// Parameterized only.
	args     []ArgSpec
	expected func(T) ([]ArgValue, bool)
	bind     func(vals []interface{}) (*Transformation[T], error)
}

// Kind reports the variant of this Transformation.
func (t *Transformation[T]) Kind() Kind {
	return t.kind
}

// Apply runs the transformation.  An empty result means the
// transformation does not apply to the term.  The input is never
// modified.
func (t *Transformation[T]) Apply(x T) []T {
	if t == nil || t.apply == nil {
		return nil
	}
	return t.apply(x)
}

// Invert produces the inverse transformation.  Only Pattern and
// Lifted transformations are invertible.
func (t *Transformation[T]) Invert() (*Transformation[T], error) {
	if t.invert == nil {
		return nil, &NotInvertible{t.kind}
	}
	return t.invert()
}

// NewDirect makes a Transformation from a function.
//
// The function must not modify its argument; results must be new
// values.
func NewDirect[T any](f func(T) []T) *Transformation[T] {
	return &Transformation[T]{
		kind:  Direct,
		apply: f,
	}
}

// NewPattern makes an equational Transformation from an (lhs, rhs)
// pair of patterns.
//
// Every variable in the rhs must occur in the lhs.  That property is
// checked here, at construction, so an invalid pattern never reaches
// application.
func NewPattern[T any](eng PatternEngine[T], lhs, rhs T) (*Transformation[T], error) {
	if unbound := unboundVars(eng.Vars(lhs), eng.Vars(rhs)); 0 < len(unbound) {
		return nil, &UnboundVariables{unbound}
	}

	t := &Transformation[T]{
		kind: Pattern,
		apply: func(x T) []T {
			bss, err := eng.Match(lhs, x)
			if err != nil {
				// A malformed pattern was rejected at
				// construction, so an error here just
				// means the pattern cannot apply.
				return nil
			}
			acc := make([]T, 0, len(bss))
			for _, bs := range bss {
				acc = append(acc, eng.Substitute(bs, rhs))
			}
			return acc
		},
	}
	t.invert = func() (*Transformation[T], error) {
		return NewPattern(eng, rhs, lhs)
	}
	return t, nil
}

// unboundVars returns the rhs variables that do not occur in lhs.
func unboundVars(lhs, rhs []string) []string {
	have := make(map[string]bool, len(lhs))
	for _, v := range lhs {
		have[v] = true
	}
	var acc []string
	for _, v := range rhs {
		if !have[v] {
			acc = append(acc, v)
		}
	}
	return acc
}

// NewParameterized makes a Transformation that needs argument values.
//
//   - args is the ordered argument schema.
//   - expected optionally reports, for a given term, the argument
//     values the transformation would suggest (pretty-printed), and
//     whether the transformation applies to that term at all.
//   - bind commits concrete argument values, yielding the inner
//     Transformation.
//
// Duplicate argument labels are rejected here, at construction.
func NewParameterized[T any](
	args []ArgSpec,
	expected func(T) ([]ArgValue, bool),
	bind func(vals []interface{}) (*Transformation[T], error),
) (*Transformation[T], error) {

	seen := make(map[string]bool, len(args))
	for _, a := range args {
		if seen[a.Label] {
			return nil, &DuplicateLabel{a.Label}
		}
		seen[a.Label] = true
	}

	t := &Transformation[T]{
		kind:     Parameterized,
		args:     args,
		expected: expected,
		bind:     bind,
	}

	// Applying without explicit arguments uses the defaults.
	t.apply = func(x T) []T {
		vals := make([]interface{}, len(args))
		for i, a := range args {
			v, err := a.Parse(a.Default)
			if err != nil {
				return nil
			}
			vals[i] = v
		}
		inner, err := bind(vals)
		if err != nil {
			return nil
		}
		return inner.Apply(x)
	}

	return t, nil
}

// Args returns the argument schema of a Parameterized
// transformation, or nil.
func (t *Transformation[T]) Args() []ArgSpec {
	return t.args
}

// Expected reports the suggested argument values for the given term,
// pretty-printed via the schema, and whether the transformation
// applies at all.
func (t *Transformation[T]) Expected(x T) ([]ArgValue, bool) {
	if t.kind != Parameterized || t.expected == nil {
		return nil, t.apply != nil
	}
	return t.expected(x)
}

// BindArgs parses the given strings against the argument schema and
// commits them, producing a fully-specified Transformation.
//
// Parse failures are reported per argument (ArgErrors); an arity
// mismatch is an ArityError.
func (t *Transformation[T]) BindArgs(args ...string) (*Transformation[T], error) {
	if t.kind != Parameterized {
		return nil, ErrNotParameterized
	}
	if len(args) != len(t.args) {
		return nil, &ArityError{Want: len(t.args), Got: len(args)}
	}

	vals := make([]interface{}, len(args))
	var bad ArgErrors
	for i, spec := range t.args {
		v, err := spec.Parse(args[i])
		if err != nil {
			bad = append(bad, &ArgError{Label: spec.Label, Input: args[i], Err: err})
			continue
		}
		vals[i] = v
	}
	if 0 < len(bad) {
		return nil, bad
	}

	return t.bind(vals)
}

// View is an accessor/updater pair between an outer structure U and
// an inner term T.
type View[U, T any] struct {
	// Get extracts the inner term, if present.
	Get func(U) (T, bool)

	// Set replaces the inner term, returning a new outer value.
	// The updater is responsible for the integrity of U's other
	// parts and must not modify its argument.
	Set func(T, U) U
}

// LiftTransformation makes the inner Transformation operate through
// the view.  Application fails (empty result) when the accessor
// fails.
func LiftTransformation[U, T any](v View[U, T], inner *Transformation[T]) *Transformation[U] {
	t := &Transformation[U]{
		kind: Lifted,
		apply: func(u U) []U {
			x, ok := v.Get(u)
			if !ok {
				return nil
			}
			ys := inner.Apply(x)
			acc := make([]U, 0, len(ys))
			for _, y := range ys {
				acc = append(acc, v.Set(y, u))
			}
			return acc
		},
	}
	t.invert = func() (*Transformation[U], error) {
		back, err := inner.Invert()
		if err != nil {
			return nil, err
		}
		return LiftTransformation(v, back), nil
	}
	return t
}
