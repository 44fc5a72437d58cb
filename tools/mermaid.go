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
	"io"
	"strings"

	"github.com/SakastLord/ideas/strategy"
)

type MermaidOpts struct {
	// ShowFlags appends "(buggy)" and "(minor)" to flagged rule
	// names.
	ShowFlags bool `json:"showFlags"`

	// BuggyFill is the fill color for buggy rule nodes.
	BuggyFill string `json:"buggyFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given strategy.
func Mermaid[T any](s strategy.Strategy[T], w io.WriteCloser, opts *MermaidOpts) error {

	if opts == nil {
		opts = &MermaidOpts{
			ShowFlags: true,
			BuggyFill: "#f98b8b",
		}
	}

	fmt.Fprintf(w, "graph TB\n")

	num := 0
	var node func(s strategy.Strategy[T]) string
	node = func(s strategy.Strategy[T]) string {
		num++
		nid := fmt.Sprintf("n%d", num)

		op, label, rule, children := strategy.Inspect(s)

		switch op {
		case "rule":
			name := rule.Name
			if opts.ShowFlags {
				if rule.Buggy {
					name += " (buggy)"
				}
				if rule.Minor {
					name += " (minor)"
				}
			}
			fmt.Fprintf(w, "  %s[\"%s\"]\n", nid, strings.Replace(name, `"`, `'`, -1))
			if rule.Buggy && opts.BuggyFill != "" {
				fmt.Fprintf(w, "  style %s fill:%s\n", nid, opts.BuggyFill)
			}
		case "label":
			fmt.Fprintf(w, "  %s>\"%s\"]\n", nid, strings.Replace(label, `"`, `'`, -1))
		default:
			fmt.Fprintf(w, "  %s(\"%s\")\n", nid, op)
		}

		for _, child := range children {
			to := node(child)
			fmt.Fprintf(w, "  %s --> %s\n", nid, to)
		}

		return nid
	}
	node(s)

	fmt.Fprintf(w, "\n")

	return w.Close()
}
