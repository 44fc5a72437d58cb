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

package ruleset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SakastLord/ideas/interpreters"
	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/strategy"
)

var algebraYAML = `
name: algebra
doc: Basic arithmetic simplification.
rules:
  - name: plusZero
    doc: x + 0 = x
    somewhere: true
    lhs: ["plus","?x",0]
    rhs: "?x"
  - name: timesOne
    somewhere: true
    lhs: ["times","?x",1]
    rhs: "?x"
  - name: unwrapId
    minor: true
    somewhere: true
    lhs: ["id","?x"]
    rhs: "?x"
  - name: double
    doc: Scripted doubling of a constant.
    interpreter: goja
    source: |
      if (typeof x !== "number") { return null; }
      return 2*x;
strategy:
  label: simplify
  of:
    many:
      choice:
        - rule: plusZero
        - rule: timesOne
        - rule: unwrapId
`

func testCompile(t *testing.T, src string) (*Ruleset, map[string]*rewrite.Rule[jterm.Term], strategy.Strategy[jterm.Term]) {
	rs, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	rules, s, err := rs.Compile(context.Background(), interpreters.Standard())
	if err != nil {
		t.Fatal(err)
	}
	return rs, rules, s
}

func TestParseCompile(t *testing.T) {
	rs, rules, s := testCompile(t, algebraYAML)

	if rs.Name != "algebra" || 4 != len(rules) {
		t.Fatalf("got %s with %d rules", rs.Name, len(rules))
	}
	if !rules["unwrapId"].Minor {
		t.Fatal("unwrapId should be minor")
	}

	// The equational rules apply anywhere.
	ys := rules["plusZero"].Apply(jterm.MustParse(`["times",["plus",2,0],3]`))
	if 1 != len(ys) || !jterm.Equal(ys[0], jterm.MustParse(`["times",2,3]`)) {
		t.Fatalf("got %s", jterm.Print(ys))
	}

	// The scripted rule works too.
	ys = rules["double"].Apply(jterm.MustParse(`21`))
	if 1 != len(ys) || !jterm.Equal(ys[0], float64(42)) {
		t.Fatalf("got %s", jterm.Print(ys))
	}

	steps := strategy.FirstSteps(s, jterm.MustParse(`["times",["plus",2,0],1]`))
	if 2 != len(steps) {
		t.Fatalf("got %d steps", len(steps))
	}
	if steps[0].Rule.Name != "plusZero" || steps[1].Rule.Name != "timesOne" {
		t.Fatalf("got %s, %s", steps[0].Rule.Name, steps[1].Rule.Name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "algebra.yaml")
	if err := os.WriteFile(filename, []byte(algebraYAML), 0644); err != nil {
		t.Fatal(err)
	}
	rs, err := Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Name != "algebra" {
		t.Fatalf("got %s", rs.Name)
	}

	if _, err = Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfigApplied(t *testing.T) {
	src := algebraYAML + `
config:
  - label: simplify
    action: disable
`
	rs, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	_, s, err := rs.Compile(context.Background(), interpreters.Standard())
	if err != nil {
		t.Fatal(err)
	}
	steps := strategy.FirstSteps(s, jterm.MustParse(`["plus",2,0]`))
	if 0 != len(steps) {
		t.Fatalf("disabled strategy still offered %d steps", len(steps))
	}
}

func compileErr(t *testing.T, src string) string {
	rs, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err = rs.Compile(context.Background(), interpreters.Standard()); err == nil {
		t.Fatal("expected a compile error")
	}
	return err.Error()
}

func TestCompileErrors(t *testing.T) {
	if _, err := Parse([]byte(`doc: nameless`)); err == nil {
		t.Fatal("a ruleset needs a name")
	}

	msg := compileErr(t, `
name: bad
rules:
  - name: twice
    lhs: ["plus","?x",0]
    rhs: "?x"
  - name: twice
    lhs: ["times","?x",1]
    rhs: "?x"
`)
	if !strings.Contains(msg, "duplicate") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: confused
    lhs: ["plus","?x",0]
    rhs: "?x"
    interpreter: goja
    source: return x;
`)
	if !strings.Contains(msg, "both equational and scripted") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: empty
`)
	if !strings.Contains(msg, "neither") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: unbound
    lhs: ["plus","?x",0]
    rhs: "?y"
`)
	if !strings.Contains(msg, "not bound") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: a
    lhs: ["plus","?x",0]
    rhs: "?x"
strategy:
  rule: nothere
`)
	if !strings.Contains(msg, "unknown rule") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: a
    lhs: ["plus","?x",0]
    rhs: "?x"
strategy:
  rule: a
  many:
    rule: a
`)
	if !strings.Contains(msg, "exactly one") {
		t.Fatalf("got %s", msg)
	}

	msg = compileErr(t, `
name: bad
rules:
  - name: a
    lhs: ["plus","?x",0]
    rhs: "?x"
strategy:
  label: lonely
`)
	if !strings.Contains(msg, "no body") {
		t.Fatalf("got %s", msg)
	}
}
