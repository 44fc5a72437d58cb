/* Copyright 2018-2019 Comcast Cable Communications Management, LLC

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
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/rewrite"
)

func algebraRuleMap() map[string]*rewrite.Rule[jterm.Term] {
	m := make(map[string]*rewrite.Rule[jterm.Term])
	for _, r := range jterm.AlgebraRules() {
		m[r.Name] = r
	}
	return m
}

func TestAnalyze(t *testing.T) {
	a, err := Analyze(jterm.AlgebraStrategy(), algebraRuleMap())
	if err != nil {
		t.Fatal(err)
	}
	if a.Rules == 0 {
		t.Fatal("expected some rule uses")
	}
	if 0 != len(a.Errors) {
		t.Fatalf("unexpected errors: %v", a.Errors)
	}
	found := false
	for _, label := range a.Labels {
		if label == "simplify" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected label 'simplify'; got %v", a.Labels)
	}
	for _, name := range a.BuggyRules {
		if name == "buggyTimesZero" {
			return
		}
	}
	t.Fatalf("expected buggyTimesZero in %v", a.BuggyRules)
}

func TestCheckSoundness(t *testing.T) {
	samples := []jterm.Term{
		jterm.MustParse(`["plus", ["var", "x"], 0]`),
		jterm.MustParse(`["times", ["var", "x"], 1]`),
	}
	report := CheckSoundness(algebraRuleMap(), samples, jterm.Equal)
	if 0 != len(report) {
		t.Fatalf("unexpected report: %v", report)
	}
}

func TestDot(t *testing.T) {
	filename := "g.dot"

	out, err := os.Create(filename)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if err := os.Remove(filename); err != nil {
			t.Fatal(err)
		}
	}()

	if err := Dot(jterm.AlgebraStrategy(), out, "arith"); err != nil {
		t.Fatal(err)
	}
}

type closer struct {
	*bytes.Buffer
}

func (c closer) Close() error {
	return nil
}

func TestMermaid(t *testing.T) {
	buf := closer{&bytes.Buffer{}}
	if err := Mermaid(jterm.AlgebraStrategy(), buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "graph TB") {
		t.Fatal("expected a mermaid graph")
	}
}
