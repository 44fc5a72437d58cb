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

// Package ruleset loads declarative rule and strategy definitions
// from YAML.
//
// A ruleset file names its rules (equational lhs/rhs patterns, or
// scripted sources compiled by an interpreter), gives a strategy
// expression over them, and optionally a configuration that disables
// labeled sub-strategies.  Everything is validated at load time:
// malformed definitions never reach runtime use.
package ruleset

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/strategy"

	"gopkg.in/yaml.v2"
)

// RuleDef is one rule definition.
//
// A rule is either equational (Lhs and Rhs patterns, JSON-shaped) or
// scripted (Interpreter and Source); not both.
type RuleDef struct {
	Name  string `yaml:"name"`
	Doc   string `yaml:"doc,omitempty"`
	Buggy bool   `yaml:"buggy,omitempty"`
	Minor bool   `yaml:"minor,omitempty"`

	Lhs interface{} `yaml:"lhs,omitempty"`
	Rhs interface{} `yaml:"rhs,omitempty"`

	Interpreter string `yaml:"interpreter,omitempty"`
	Source      string `yaml:"source,omitempty"`

	// Somewhere lifts the rule so it applies at any position in
	// the term, not just the root.
	Somewhere bool `yaml:"somewhere,omitempty"`
}

// StrategyDef is one node of a strategy expression.  Exactly one of
// the operator fields must be set; Label requires Of.
type StrategyDef struct {
	Rule   string         `yaml:"rule,omitempty"`
	Seq    []*StrategyDef `yaml:"seq,omitempty"`
	Choice []*StrategyDef `yaml:"choice,omitempty"`
	Many   *StrategyDef   `yaml:"many,omitempty"`
	Not    *StrategyDef   `yaml:"not,omitempty"`
	Label  string         `yaml:"label,omitempty"`
	Of     *StrategyDef   `yaml:"of,omitempty"`
}

// Ruleset is a parsed ruleset file.
type Ruleset struct {
	Name     string          `yaml:"name"`
	Doc      string          `yaml:"doc,omitempty"`
	Rules    []*RuleDef      `yaml:"rules"`
	Strategy *StrategyDef    `yaml:"strategy,omitempty"`
	Config   strategy.Config `yaml:"config,omitempty"`
}

// Parse reads a Ruleset from YAML.
func Parse(bs []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(bs, &rs); err != nil {
		return nil, err
	}
	if rs.Name == "" {
		return nil, errors.New("ruleset has no name")
	}
	for _, def := range rs.Rules {
		def.Lhs = stringMaps(def.Lhs)
		def.Rhs = stringMaps(def.Rhs)
	}
	return &rs, nil
}

// Load reads a Ruleset from a YAML file.
func Load(filename string) (*Ruleset, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(bs)
}

// stringMaps recursively converts map[interface{}]interface{} to
// map[string]interface{}.  The YAML deserializer likes to make the
// former; the matcher wants the latter.
func stringMaps(x interface{}) interface{} {
	switch v := x.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			s, is := k.(string)
			if !is {
				s = fmt.Sprintf("%v", k)
			}
			m[s] = stringMaps(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range v {
			v[k] = stringMaps(val)
		}
		return v
	case []interface{}:
		for i, y := range v {
			v[i] = stringMaps(y)
		}
		return v
	default:
		return x
	}
}

// Compile builds the rules and the effective strategy.
//
// Interpreters defaults to rewrite.DefaultInterpreters.  All
// validation happens here: duplicate or missing rule names, rules
// that are both equational and scripted, patterns with unbound rhs
// variables, malformed strategy expressions, and bad configuration
// are all load-time errors.
func (rs *Ruleset) Compile(ctx context.Context, interpreters map[string]rewrite.Interpreter) (map[string]*rewrite.Rule[jterm.Term], strategy.Strategy[jterm.Term], error) {

	rules := make(map[string]*rewrite.Rule[jterm.Term], len(rs.Rules))
	for _, def := range rs.Rules {
		r, err := def.compile(ctx, interpreters)
		if err != nil {
			return nil, nil, err
		}
		if _, have := rules[r.Name]; have {
			return nil, nil, fmt.Errorf(`duplicate rule name "%s"`, r.Name)
		}
		rules[r.Name] = r
	}

	if rs.Strategy == nil {
		return rules, nil, nil
	}

	s, err := rs.Strategy.compile(rules)
	if err != nil {
		return nil, nil, err
	}

	if 0 < len(rs.Config) {
		if s, err = strategy.Configure(s, rs.Config); err != nil {
			return nil, nil, err
		}
	}

	return rules, s, nil
}

func (def *RuleDef) compile(ctx context.Context, interpreters map[string]rewrite.Interpreter) (*rewrite.Rule[jterm.Term], error) {
	if def.Name == "" {
		return nil, errors.New("rule has no name")
	}

	equational := def.Lhs != nil || def.Rhs != nil
	scripted := def.Interpreter != "" || def.Source != ""

	var (
		t   *rewrite.Transformation[jterm.Term]
		err error
	)
	switch {
	case equational && scripted:
		return nil, fmt.Errorf(`rule "%s" is both equational and scripted`, def.Name)
	case equational:
		if t, err = rewrite.NewPattern[jterm.Term](jterm.Std, def.Lhs, def.Rhs); err != nil {
			return nil, fmt.Errorf(`rule "%s": %v`, def.Name, err)
		}
	case scripted:
		src := &rewrite.TransformSource{
			Interpreter: def.Interpreter,
			Source:      def.Source,
		}
		if t, err = src.Compile(ctx, interpreters); err != nil {
			return nil, fmt.Errorf(`rule "%s": %v`, def.Name, err)
		}
	default:
		return nil, fmt.Errorf(`rule "%s" has neither lhs/rhs nor source`, def.Name)
	}

	r := rewrite.New(def.Name, t)
	r.Doc = def.Doc
	r.Buggy = def.Buggy
	r.Minor = def.Minor
	if def.Somewhere {
		r = jterm.Somewhere(r)
	}
	return r, nil
}

func (def *StrategyDef) compile(rules map[string]*rewrite.Rule[jterm.Term]) (strategy.Strategy[jterm.Term], error) {
	if def == nil {
		return nil, errors.New("empty strategy expression")
	}

	set := 0
	if def.Rule != "" {
		set++
	}
	if def.Seq != nil {
		set++
	}
	if def.Choice != nil {
		set++
	}
	if def.Many != nil {
		set++
	}
	if def.Not != nil {
		set++
	}
	if def.Label != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("strategy node must have exactly one of rule/seq/choice/many/not/label; got %d", set)
	}

	switch {
	case def.Rule != "":
		r, have := rules[def.Rule]
		if !have {
			return nil, fmt.Errorf(`strategy names unknown rule "%s"`, def.Rule)
		}
		return strategy.Use(r), nil
	case def.Seq != nil:
		items, err := compileAll(def.Seq, rules)
		if err != nil {
			return nil, err
		}
		return strategy.Seq(items...), nil
	case def.Choice != nil:
		items, err := compileAll(def.Choice, rules)
		if err != nil {
			return nil, err
		}
		return strategy.Choice(items...), nil
	case def.Many != nil:
		body, err := def.Many.compile(rules)
		if err != nil {
			return nil, err
		}
		return strategy.Many(body), nil
	case def.Not != nil:
		body, err := def.Not.compile(rules)
		if err != nil {
			return nil, err
		}
		return strategy.Not(body), nil
	default: // Label
		if def.Of == nil {
			return nil, fmt.Errorf(`label "%s" has no body ("of")`, def.Label)
		}
		body, err := def.Of.compile(rules)
		if err != nil {
			return nil, err
		}
		return strategy.Label(def.Label, body), nil
	}
}

func compileAll(defs []*StrategyDef, rules map[string]*rewrite.Rule[jterm.Term]) ([]strategy.Strategy[jterm.Term], error) {
	acc := make([]strategy.Strategy[jterm.Term], len(defs))
	for i, def := range defs {
		s, err := def.compile(rules)
		if err != nil {
			return nil, err
		}
		acc[i] = s
	}
	return acc, nil
}
