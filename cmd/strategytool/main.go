// Package main is a utility for working with ruleset files:
// format conversion, analysis, and rendering.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/SakastLord/ideas/interpreters"
	"github.com/SakastLord/ideas/ruleset"
	"github.com/SakastLord/ideas/tools"

	"github.com/jsccast/yaml"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	switch os.Args[1] {

	case "yamltojson":
		pretty := false

		switch len(os.Args) {
		case 2:
		case 3:
			switch os.Args[2] {
			case "-p":
				pretty = true
			default:
				panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
			}
		default:
			panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
		}

		rs := readRuleset()

		var bs []byte
		var err error
		if pretty {
			bs, err = json.MarshalIndent(&rs, "  ", "  ")
		} else {
			bs, err = json.Marshal(&rs)
		}
		if err != nil {
			protest(err)
		}

		if _, err = os.Stdout.Write(bs); err != nil {
			protest(err)
		}

	case "jsontoyaml":
		bs, err := io.ReadAll(os.Stdin)
		if err != nil {
			protest(err)
		}

		var rs *ruleset.Ruleset
		if err = json.Unmarshal(bs, &rs); err != nil {
			protest(err)
		}

		if bs, err = yaml.Marshal(&rs); err != nil {
			protest(err)
		}

		if _, err = os.Stdout.Write(bs); err != nil {
			protest(err)
		}

	case "check":
		// Compile, which runs all the load-time validation.
		rs := readRuleset()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if _, _, err := rs.Compile(ctx, interpreters.Standard()); err != nil {
			protest(err)
		}
		fmt.Println("ok")

	case "analyze":
		rs := readRuleset()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		rules, s, err := rs.Compile(ctx, interpreters.Standard())
		if err != nil {
			protest(err)
		}
		a, err := tools.Analyze(s, rules)
		if err != nil {
			protest(err)
		}
		bs, err := yaml.Marshal(&a)
		if err != nil {
			protest(err)
		}
		fmt.Printf("%s\n", bs)

	case "dot":
		rs := readRuleset()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_, s, err := rs.Compile(ctx, interpreters.Standard())
		if err != nil {
			protest(err)
		}
		if err = tools.Dot(s, os.Stdout, ""); err != nil {
			protest(err)
		}

	case "mermaid":
		rs := readRuleset()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_, s, err := rs.Compile(ctx, interpreters.Standard())
		if err != nil {
			protest(err)
		}
		if err = tools.Mermaid(s, os.Stdout, nil); err != nil {
			protest(err)
		}

	case "html":
		rs := readRuleset()
		if err := tools.RenderRulesetPage(rs, os.Stdout, nil, false); err != nil {
			protest(err)
		}

	default:
		fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
		Usage()
		os.Exit(1)
	}
}

func readRuleset() *ruleset.Ruleset {
	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		protest(err)
	}
	rs, err := ruleset.Parse(bs)
	if err != nil {
		protest(err)
	}
	return rs
}

func protest(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func Usage() {
	fmt.Printf(`Subcommands:

  yamltojson [-p]  read a YAML ruleset from stdin; write JSON (-p: pretty)
  jsontoyaml       read a JSON ruleset from stdin; write YAML
  check            compile the ruleset; report the first problem
  analyze          analyze the strategy; write a YAML report
  dot              write a Graphviz rendering of the strategy
  mermaid          write a Mermaid rendering of the strategy
  html             write an HTML page documenting the ruleset

Rulesets are read from stdin.
`)
}
