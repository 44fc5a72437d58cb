/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

package rewrite

import (
	"strconv"
)

// ArgSpec describes one argument of a Parameterized transformation.
//
// The schema is the sole contract an encoding layer uses to render
// and accept user-supplied rule arguments: strings in, strings out.
type ArgSpec struct {
	// Label names the argument.  Labels are unique within a
	// schema (checked at construction).
	Label string `json:"label"`

	// Default is the default value, in the string form that Parse
	// accepts.
	Default string `json:"default"`

	// Parse reads a user-supplied string.
	Parse func(string) (interface{}, error) `json:"-" yaml:"-"`

	// Show renders a value in the form Parse accepts.
	Show func(interface{}) string `json:"-" yaml:"-"`
}

// ArgValue is a pretty-printed argument value, as presented to a
// caller asking what arguments a rule expects for a term.
type ArgValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// NumberArg makes an ArgSpec for a float64-valued argument.
func NumberArg(label string, def float64) ArgSpec {
	show := func(v interface{}) string {
		f, is := v.(float64)
		if !is {
			return ""
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return ArgSpec{
		Label:   label,
		Default: show(def),
		Parse: func(s string) (interface{}, error) {
			return strconv.ParseFloat(s, 64)
		},
		Show: show,
	}
}

// IntArg makes an ArgSpec for an integer-valued argument.
func IntArg(label string, def int) ArgSpec {
	return ArgSpec{
		Label:   label,
		Default: strconv.Itoa(def),
		Parse: func(s string) (interface{}, error) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, err
			}
			return n, nil
		},
		Show: func(v interface{}) string {
			n, is := v.(int)
			if !is {
				return ""
			}
			return strconv.Itoa(n)
		},
	}
}

// TextArg makes an ArgSpec for a string-valued argument.
func TextArg(label string, def string) ArgSpec {
	return ArgSpec{
		Label:   label,
		Default: def,
		Parse: func(s string) (interface{}, error) {
			return s, nil
		},
		Show: func(v interface{}) string {
			s, _ := v.(string)
			return s
		},
	}
}
