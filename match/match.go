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

// Package match implements pattern matching and substitution over
// JSON-shaped terms.
//
// A term is any value that encoding/json could have produced: nil,
// bool, float64, string, []interface{}, or map[string]interface{}.
// A pattern is a term that may contain variables, which are strings
// starting with a '?'.  Matching a pattern against a term either
// fails or produces one or more sets of Bindings for the pattern's
// variables.
//
// Arrays are matched positionally.  A term like
//
//	["plus", "?x", 0]
//
// represents an operator applied to arguments, so order is
// significant and the arities must agree.
package match

import (
	"errors"
	"sort"
	"strings"
)

// Matcher holds switches that control matching.
type Matcher struct {
	// AllowPropertyVariables enables support for a property
	// variable in a map pattern that contains only one property.
	//
	// A pattern {"?p":"?v"} matched against {"a":1,"b":2} gives
	// two sets of bindings: one for each property.
	AllowPropertyVariables bool

	// CheckForBadPropertyVariables verifies up front that a map
	// pattern does not contain a property variable along with
	// other properties.  Without this check, a match can fail
	// before the bad property variable is even encountered, and
	// the problem then goes unreported.
	CheckForBadPropertyVariables bool
}

// DefaultMatcher is used by the package-level functions.
var DefaultMatcher = &Matcher{
	AllowPropertyVariables:       true,
	CheckForBadPropertyVariables: true,
}

// Bindings is a map from variables (strings starting with a '?') to
// their values.
type Bindings map[string]interface{}

func NewBindings() Bindings {
	return make(Bindings, 8)
}

// Extend adds the property; modifies and returns the Bindings.
func (bs Bindings) Extend(p string, v interface{}) Bindings {
	bs[p] = v
	return bs
}

// Remove removes the given keys.
//
// The Bindings are modified.
func (bs Bindings) Remove(ps ...string) Bindings {
	for _, p := range ps {
		delete(bs, p)
	}
	return bs
}

// Copy makes a shallow copy of the Bindings.
func (bs Bindings) Copy() Bindings {
	acc := make(Bindings, len(bs))
	for k, v := range bs {
		acc[k] = v
	}
	return acc
}

// IsVariable reports if the string represents a pattern variable.
//
// All pattern variables start with a '?'.
func IsVariable(s string) bool {
	return strings.HasPrefix(s, "?")
}

// IsAnonymousVariable detects a variable of the form '?'.  A binding
// for an anonymous variable never makes it into the bindings.
func IsAnonymousVariable(s string) bool {
	return s == "?"
}

// IsConstant reports if the string represents a constant (and not a
// pattern variable).
func IsConstant(s string) bool {
	return !IsVariable(s)
}

// Match attempts to match the pattern against the term starting from
// the given bindings, which are not modified.
//
// A nil result means no match.  A non-nil result has one Bindings per
// way the match can succeed; property variables are the only source
// of that ambiguity.
func Match(pattern, term interface{}, bs Bindings) ([]Bindings, error) {
	return DefaultMatcher.Match(pattern, term, bs)
}

// Matches is Match starting from empty bindings.
func Matches(pattern, term interface{}) ([]Bindings, error) {
	return DefaultMatcher.Match(pattern, term, NewBindings())
}

func (m *Matcher) Match(pattern, term interface{}, bs Bindings) ([]Bindings, error) {
	if bs == nil {
		bs = NewBindings()
	}
	return m.match(pattern, term, bs.Copy())
}

// fudge casts numbers to float64s so that a pattern written with Go
// ints can match a term that arrived via encoding/json.
func fudge(x interface{}) interface{} {
	switch v := x.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return x
	}
}

func (m *Matcher) match(pattern, term interface{}, bs Bindings) ([]Bindings, error) {
	pattern = fudge(pattern)
	term = fudge(term)

	switch p := pattern.(type) {
	case nil:
		if term == nil {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case bool:
		if f, is := term.(bool); is && f == p {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case float64:
		if f, is := term.(float64); is && f == p {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case string:
		if IsConstant(p) {
			if f, is := term.(string); is && f == p {
				return []Bindings{bs}, nil
			}
			return nil, nil
		}
		if IsAnonymousVariable(p) {
			return []Bindings{bs}, nil
		}
		if bound, have := bs[p]; have {
			// A previous binding must agree.
			return m.match(bound, term, bs)
		}
		bs[p] = term
		return []Bindings{bs}, nil

	case map[string]interface{}:
		f, is := term.(map[string]interface{})
		if !is {
			return nil, nil
		}
		return m.matchMap(p, f, bs)

	case []interface{}:
		f, is := term.([]interface{})
		if !is || len(f) != len(p) {
			return nil, nil
		}
		bss := []Bindings{bs}
		for i, sub := range p {
			var err error
			if bss, err = m.matchAll(bss, sub, f[i]); err != nil {
				return nil, err
			}
			if len(bss) == 0 {
				return nil, nil
			}
		}
		return bss, nil

	default:
		return nil, &UnknownPatternType{pattern}
	}
}

// matchAll extends each of the given bindings by matching the pattern
// against the term.
func (m *Matcher) matchAll(bss []Bindings, pattern, term interface{}) ([]Bindings, error) {
	acc := make([]Bindings, 0, len(bss))
	for _, bs := range bss {
		more, err := m.match(pattern, term, bs.Copy())
		if err != nil {
			return nil, err
		}
		acc = append(acc, more...)
	}
	return acc, nil
}

func (m *Matcher) checkForBadPropertyVariables(pattern map[string]interface{}) error {
	if !m.CheckForBadPropertyVariables {
		return nil
	}
	if len(pattern) <= 1 {
		return nil
	}
	for k := range pattern {
		if IsVariable(k) {
			return errors.New(`can't have a variable as a key ("` + k + `") with other keys`)
		}
	}
	return nil
}

func (m *Matcher) matchMap(pattern, term map[string]interface{}, bs Bindings) ([]Bindings, error) {
	if err := m.checkForBadPropertyVariables(pattern); err != nil {
		return nil, err
	}

	// Sort pattern keys so that ambiguous matches come back in a
	// deterministic order.
	keys := make([]string, 0, len(pattern))
	for k := range pattern {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bss := []Bindings{bs}
	for _, k := range keys {
		v := pattern[k]
		if IsVariable(k) {
			if !m.AllowPropertyVariables {
				return nil, errors.New(`can't have a variable as a key ("` + k + `")`)
			}
			// One property variable alone in its map: try
			// every property of the term.
			gather := make([]Bindings, 0, len(term))
			for fk, fv := range term {
				ext, err := m.matchAll(bss, k, fk)
				if err != nil {
					return nil, err
				}
				if ext, err = m.matchAll(ext, v, fv); err != nil {
					return nil, err
				}
				gather = append(gather, ext...)
			}
			sortBindingss(gather)
			return gather, nil
		}

		fv, have := term[k]
		if !have {
			return nil, nil
		}
		acc, err := m.matchAll(bss, v, fv)
		if err != nil {
			return nil, err
		}
		if len(acc) == 0 {
			return nil, nil
		}
		bss = acc
	}
	return bss, nil
}

// sortBindingss orders ambiguous results canonically (by their JSON).
func sortBindingss(bss []Bindings) {
	sort.Slice(bss, func(i, j int) bool {
		return canon(bss[i]) < canon(bss[j])
	})
}

// UnknownPatternType is an error that includes the thing that's
// causing the trouble.
type UnknownPatternType struct {
	Pattern interface{}
}

func (e *UnknownPatternType) Error() string {
	return "unknown pattern type"
}
