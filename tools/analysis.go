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

// Package tools renders and analyzes strategies and rulesets.
package tools

import (
	"fmt"
	"sort"

	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/strategy"
)

// StrategyAnalysis reports on the structure of a strategy.
type StrategyAnalysis struct {
	// Errors are problems a ruleset author probably wants to fix.
	Errors []string

	NodeCount int
	MaxDepth  int

	Rules   int
	Seqs    int
	Choices int
	Manys   int
	Nots    int

	// RuleNames are the distinct names of rules the strategy
	// uses.
	RuleNames []string

	// BuggyRules and MinorRules are the flagged subsets of
	// RuleNames.
	BuggyRules []string
	MinorRules []string

	Labels          []string
	DuplicateLabels []string

	// UnusedRules are given rules the strategy never uses.
	UnusedRules []string
}

// Analyze examines a strategy together with the pool of rules it was
// built from.  The rules argument can be nil, in which case
// UnusedRules is always empty.
func Analyze[T any](s strategy.Strategy[T], rules map[string]*rewrite.Rule[T]) (*StrategyAnalysis, error) {
	a := StrategyAnalysis{
		Errors: make([]string, 0, 8),
	}

	used := make(map[string]bool)
	buggy := make(map[string]bool)
	minor := make(map[string]bool)
	labels := make(map[string]int)

	var walk func(s strategy.Strategy[T], depth int)
	walk = func(s strategy.Strategy[T], depth int) {
		a.NodeCount++
		if a.MaxDepth < depth {
			a.MaxDepth = depth
		}
		op, label, rule, children := strategy.Inspect(s)
		switch op {
		case "rule":
			a.Rules++
			used[rule.Name] = true
			if rule.Buggy {
				buggy[rule.Name] = true
			}
			if rule.Minor {
				minor[rule.Name] = true
			}
		case "seq":
			a.Seqs++
		case "choice":
			a.Choices++
			if len(children) == 0 {
				a.Errors = append(a.Errors, "empty choice (always fails)")
			}
		case "many":
			a.Manys++
		case "not":
			a.Nots++
		case "label":
			labels[label]++
		}
		for _, child := range children {
			walk(child, depth+1)
		}
	}
	walk(s, 0)

	a.RuleNames = keysToStringSlice(used)
	a.BuggyRules = keysToStringSlice(buggy)
	a.MinorRules = keysToStringSlice(minor)

	for label, n := range labels {
		a.Labels = append(a.Labels, label)
		if 1 < n {
			a.DuplicateLabels = append(a.DuplicateLabels, label)
		}
	}
	sort.Strings(a.Labels)
	sort.Strings(a.DuplicateLabels)
	for _, label := range a.DuplicateLabels {
		a.Errors = append(a.Errors, fmt.Sprintf("label '%s' used more than once", label))
	}

	if rules != nil {
		unused := make(map[string]bool)
		for name := range rules {
			if !used[name] {
				unused[name] = true
			}
		}
		a.UnusedRules = keysToStringSlice(unused)
	}

	return &a, nil
}

func keysToStringSlice(m map[string]bool) []string {
	list := make([]string, 0, len(m))
	for key := range m {
		list = append(list, key)
	}
	sort.Strings(list)
	return list
}
