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

package match

import (
	"encoding/json"
	"reflect"
	"sort"
)

// Substitute replaces every variable in the pattern with its binding.
//
// A variable without a binding is left as it is.  The pattern is not
// modified; the result shares no structure with it.
func Substitute(bs Bindings, pattern interface{}) interface{} {
	switch p := pattern.(type) {
	case string:
		if IsVariable(p) && !IsAnonymousVariable(p) {
			if v, have := bs[p]; have {
				return Copy(v)
			}
		}
		return p
	case []interface{}:
		acc := make([]interface{}, len(p))
		for i, x := range p {
			acc[i] = Substitute(bs, x)
		}
		return acc
	case map[string]interface{}:
		acc := make(map[string]interface{}, len(p))
		for k, v := range p {
			if IsVariable(k) && !IsAnonymousVariable(k) {
				if kv, have := bs[k]; have {
					if s, is := kv.(string); is {
						k = s
					}
				}
			}
			acc[k] = Substitute(bs, v)
		}
		return acc
	default:
		return fudge(p)
	}
}

// Vars returns the sorted set of variables that occur in the pattern.
func Vars(pattern interface{}) []string {
	seen := make(map[string]bool)
	vars(pattern, seen)
	acc := make([]string, 0, len(seen))
	for v := range seen {
		acc = append(acc, v)
	}
	sort.Strings(acc)
	return acc
}

func vars(pattern interface{}, seen map[string]bool) {
	switch p := pattern.(type) {
	case string:
		if IsVariable(p) && !IsAnonymousVariable(p) {
			seen[p] = true
		}
	case []interface{}:
		for _, x := range p {
			vars(x, seen)
		}
	case map[string]interface{}:
		for k, v := range p {
			if IsVariable(k) && !IsAnonymousVariable(k) {
				seen[k] = true
			}
			vars(v, seen)
		}
	}
}

// Copy makes a deep copy of the term.
func Copy(term interface{}) interface{} {
	switch t := term.(type) {
	case []interface{}:
		acc := make([]interface{}, len(t))
		for i, x := range t {
			acc[i] = Copy(x)
		}
		return acc
	case map[string]interface{}:
		acc := make(map[string]interface{}, len(t))
		for k, v := range t {
			acc[k] = Copy(v)
		}
		return acc
	default:
		return fudge(t)
	}
}

// Equal reports structural equality of two terms, with numbers
// compared as float64s.
func Equal(a, b interface{}) bool {
	return reflect.DeepEqual(Canon(a), Canon(b))
}

// Canon puts a term into canonical form by a JSON round-trip.
func Canon(x interface{}) interface{} {
	js, err := json.Marshal(&x)
	if err != nil {
		return x
	}
	var y interface{}
	if err = json.Unmarshal(js, &y); err != nil {
		return x
	}
	return y
}

func canon(x interface{}) string {
	js, err := json.Marshal(&x)
	if err != nil {
		return ""
	}
	return string(js)
}
