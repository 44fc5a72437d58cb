/* Copyright 2018 Comcast Cable Communications Management, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tools

import (
	"fmt"
	"sort"

	"github.com/SakastLord/ideas/rewrite"
)

// CheckSoundness exercises each rule on the given sample terms and
// verifies that its inversion maps each result back to the input.
//
// Rules marked Buggy are skipped: they're wrong on purpose.  Rules
// that aren't invertible are also skipped, since there's nothing to
// check against.
//
// Returns a report line per failure.
func CheckSoundness[T any](rules map[string]*rewrite.Rule[T], samples []T, eq func(a, b T) bool) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var report []string
	for _, name := range names {
		r := rules[name]
		if r.Buggy {
			continue
		}
		inv, err := r.Invert()
		if err != nil {
			continue
		}
		for _, x := range samples {
			for _, y := range r.Apply(x) {
				if !contains(inv.Apply(y), x, eq) {
					report = append(report,
						fmt.Sprintf("rule '%s': inverse does not recover %v from %v", name, x, y))
				}
			}
		}
	}

	return report
}

func contains[T any](xs []T, x T, eq func(a, b T) bool) bool {
	for _, y := range xs {
		if eq(x, y) {
			return true
		}
	}
	return false
}
