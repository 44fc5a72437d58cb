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

// Package env provides the key/value side channel that travels with a
// term across rewriting steps, and the Context that bundles a term
// with that side channel and a cursor into the term's substructure.
//
// Environment values are stored with a codec that round-trips them
// through strings.  Two environments can therefore be compared or
// diffed by their printed form even when the concrete value types
// differ.
package env

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Codec round-trips a value through its string form.
type Codec struct {
	Name  string
	Parse func(string) (interface{}, error)
	Print func(interface{}) string
}

var (
	// Number stores float64s.
	Number = Codec{
		Name: "number",
		Parse: func(s string) (interface{}, error) {
			return strconv.ParseFloat(s, 64)
		},
		Print: func(v interface{}) string {
			f, is := v.(float64)
			if !is {
				return ""
			}
			return strconv.FormatFloat(f, 'g', -1, 64)
		},
	}

	// Text stores strings.
	Text = Codec{
		Name: "text",
		Parse: func(s string) (interface{}, error) {
			return s, nil
		},
		Print: func(v interface{}) string {
			s, _ := v.(string)
			return s
		},
	}

	// Flag stores bools.
	Flag = Codec{
		Name: "flag",
		Parse: func(s string) (interface{}, error) {
			return strconv.ParseBool(s)
		},
		Print: func(v interface{}) string {
			b, is := v.(bool)
			if !is {
				return ""
			}
			return strconv.FormatBool(b)
		},
	}

	// Term stores opaque JSON-shaped values.
	Term = Codec{
		Name: "term",
		Parse: func(s string) (interface{}, error) {
			var v interface{}
			if err := json.Unmarshal([]byte(s), &v); err != nil {
				return nil, err
			}
			return v, nil
		},
		Print: func(v interface{}) string {
			js, err := json.Marshal(&v)
			if err != nil {
				return ""
			}
			return string(js)
		},
	}
)

// Entry is one stored value together with its codec.
type Entry struct {
	Value interface{}
	Codec Codec
}

// Printed gives the entry's canonical string form.
func (e Entry) Printed() string {
	return e.Codec.Print(e.Value)
}

// Environment maps string keys to entries.
//
// The operations below never modify the receiver; they return new
// Environments.  An Environment held by a Context is immutable once
// built.
type Environment map[string]Entry

// New makes an empty Environment.
func New() Environment {
	return make(Environment, 4)
}

// IsEmpty reports whether the environment has no entries.
func (env Environment) IsEmpty() bool {
	return len(env) == 0
}

// Keys lists the keys, sorted.
func (env Environment) Keys() []string {
	acc := make([]string, 0, len(env))
	for k := range env {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}

// Lookup finds the entry for the key.
func (env Environment) Lookup(k string) (Entry, bool) {
	e, have := env[k]
	return e, have
}

// Number looks up a float64 value.
func (env Environment) Number(k string) (float64, bool) {
	if e, have := env[k]; have {
		if f, is := e.Value.(float64); is {
			return f, true
		}
	}
	return 0, false
}

// Text looks up a string value.
func (env Environment) Text(k string) (string, bool) {
	if e, have := env[k]; have {
		if s, is := e.Value.(string); is {
			return s, true
		}
	}
	return "", false
}

// Term looks up an opaque term value.
func (env Environment) Term(k string) (interface{}, bool) {
	if e, have := env[k]; have {
		return e.Value, true
	}
	return nil, false
}

// Store returns a new Environment with the entry added.
func (env Environment) Store(k string, e Entry) Environment {
	acc := env.copy()
	acc[k] = e
	return acc
}

// Delete returns a new Environment without the given keys.
func (env Environment) Delete(ks ...string) Environment {
	acc := env.copy()
	for _, k := range ks {
		delete(acc, k)
	}
	return acc
}

func (env Environment) copy() Environment {
	acc := make(Environment, len(env)+1)
	for k, e := range env {
		acc[k] = e
	}
	return acc
}

// Diff returns the entries of env that are absent from other or
// print differently there.
func (env Environment) Diff(other Environment) Environment {
	acc := New()
	for k, e := range env {
		o, have := other[k]
		if !have || o.Printed() != e.Printed() {
			acc[k] = e
		}
	}
	return acc
}

// Equal compares two environments by their printed entries.
func Equal(a, b Environment) bool {
	return len(a) == len(b) && a.Diff(b).IsEmpty()
}

// Encode renders the environment as sorted "key=printed-value"
// strings.
func (env Environment) Encode() []string {
	acc := make([]string, 0, len(env))
	for _, k := range env.Keys() {
		acc = append(acc, k+"="+env[k].Printed())
	}
	return acc
}

func (env Environment) String() string {
	return strings.Join(env.Encode(), ",")
}
