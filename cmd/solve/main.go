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

// Package main is a command-line solver in the spirit of gdb.
//
// Load a ruleset, give it a term, and step through the strategy's
// continuations either interactively or by replaying a path.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/SakastLord/ideas/derivation"
	"github.com/SakastLord/ideas/interpreters"
	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/ruleset"
	"github.com/SakastLord/ideas/strategy"
	"github.com/SakastLord/ideas/tools"
	. "github.com/SakastLord/ideas/util/testutil"
)

type Opts struct {
	rulesetFile string
	termJS      string
	pathSrc     string
	interactive bool
	echo        bool

	derive  int
	analyze bool
	dotFile string
	bench   int
}

func main() {

	opts := &Opts{}
	flag.StringVar(&opts.rulesetFile, "r", "ruleset.yaml", "ruleset filename")
	flag.StringVar(&opts.termJS, "t", "", "starting term (JSON; '-' to read stdin)")
	flag.StringVar(&opts.pathSrc, "p", "", "path to replay (e.g. '0.plusZero;1.evalPlus')")
	flag.BoolVar(&opts.interactive, "i", false, "interactive shell")
	flag.BoolVar(&opts.echo, "e", false, "echo input")
	flag.IntVar(&opts.derive, "derive", 0, "look for a derivation of at most this many steps")
	flag.BoolVar(&opts.analyze, "analyze", false, "analyze the strategy instead of solving")
	flag.StringVar(&opts.dotFile, "dot", "", "write a Graphviz rendering of the strategy to this file")
	flag.IntVar(&opts.bench, "bench", 0, "number of times to enumerate first steps (and report time)")
	flag.Parse()

	if err := opts.run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (opts *Opts) run() error {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rs, err := ruleset.Load(opts.rulesetFile)
	if err != nil {
		return err
	}

	rules, s, err := rs.Compile(ctx, interpreters.Standard())
	if err != nil {
		return err
	}

	if opts.analyze {
		a, err := tools.Analyze(s, rules)
		if err != nil {
			return err
		}
		js, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", js)
		return nil
	}

	if opts.dotFile != "" {
		f, err := os.Create(opts.dotFile)
		if err != nil {
			return err
		}
		return tools.Dot(s, f, "")
	}

	var x jterm.Term
	switch opts.termJS {
	case "":
		return fmt.Errorf("need a term (-t)")
	case "-":
		bs, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		if x, err = jterm.Parse(string(bs)); err != nil {
			return err
		}
	default:
		if x, err = jterm.Parse(opts.termJS); err != nil {
			return err
		}
	}

	if 0 < opts.bench {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		allocs := stats.TotalAlloc
		then := time.Now()
		for i := 0; i < opts.bench; i++ {
			strategy.FirstSteps(s, x)
		}
		elapsed := time.Now().Sub(then)
		meanNanos := elapsed.Nanoseconds() / int64(opts.bench)

		runtime.ReadMemStats(&stats)
		allocated := (stats.TotalAlloc - allocs) / uint64(opts.bench)

		log.Printf("%d iterations, %d mean ns/Steps, %d mean bytes allocated per Steps", opts.bench, meanNanos, allocated)
	}

	p := strategy.NewPrefix(s, x)

	if opts.pathSrc != "" {
		path, err := strategy.DecodePath(opts.pathSrc)
		if err != nil {
			return err
		}
		if p, err = strategy.Replay(path, s, x); err != nil {
			if re, is := err.(*strategy.ReplayError); is {
				return fmt.Errorf("stale path: %v", re)
			}
			return err
		}
	}

	if 0 < opts.derive {
		return derive(opts.derive, s, p.Term())
	}

	if opts.interactive {
		return opts.shell(p)
	}

	printSteps(os.Stdout, p)
	return nil
}

func derive(limit int, s strategy.Strategy[jterm.Term], x jterm.Term) error {
	t := strategy.Unfold(s, x)
	n, ok := derivation.LengthMax(limit, t)
	if !ok {
		fmt.Printf("no derivation within %d steps\n", limit)
		return nil
	}
	fmt.Printf("shortest found: %d steps\n", n)
	d, have := derivation.FirstDerivation(derivation.Commit(derivation.RestrictHeight(limit+1, t)))
	if !have {
		return nil
	}
	fmt.Printf("%s\n", jterm.Print(d.Start))
	for _, step := range d.Steps {
		fmt.Printf("  %s: %s\n", step.Note.Name, jterm.Print(step.Value))
	}
	return nil
}

func printSteps(w io.Writer, p *strategy.Prefix[jterm.Term]) {
	if p.Done() {
		fmt.Fprintf(w, "# done: %s\n", jterm.Print(p.Term()))
	}
	for _, next := range p.Steps() {
		fmt.Fprintf(w, "%d %s %s\n", next.Choice, next.Rule.Name, jterm.Print(next.To))
	}
}

func (opts *Opts) shell(p *strategy.Prefix[jterm.Term]) error {

	in := os.Stdin
	w := os.Stdout

	var (
		goTo   = regexp.MustCompile(`^go +([0-9]+)`)
		submit = regexp.MustCompile(`^submit +(.*)`)
		help   = regexp.MustCompile(`^(help|h|\?)`)

		outputPrefix = "# "

		say = func(format string, args ...interface{}) {
			fmt.Fprintf(w, outputPrefix+format+"\n", args...)
		}

		protest = func(format string, args ...interface{}) {
			say("error: "+format, args...)
		}

		start = p
	)

	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)

		if opts.echo {
			fmt.Println(line)
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var ss []string

		if ss = help.FindStringSubmatch(line); 0 < len(ss) {
			for _, s := range strings.Split(doc, "\n") {
				say("%s", s)
			}
			continue
		}
		if ss = goTo.FindStringSubmatch(line); 0 < len(ss) {
			var i int
			fmt.Sscanf(ss[1], "%d", &i)
			steps := p.Steps()
			if i < 0 || len(steps) <= i {
				protest("no step %d (have %d)", i, len(steps))
				continue
			}
			p = steps[i].Prefix
			say("%s %s", steps[i].Rule.Name, jterm.Print(p.Term()))
			continue
		}
		if ss = submit.FindStringSubmatch(line); 0 < len(ss) {
			y, err := jterm.Parse(ss[1])
			if err != nil {
				protest("%v", err)
				continue
			}
			next, ok := p.StepTo(y, nil)
			if !ok {
				say("no rule gives that term")
				continue
			}
			p = next.Prefix
			rule := next.Rule
			note := rule.Name
			if rule.Buggy {
				note += " (buggy!)"
			}
			say("%s %s", note, jterm.Print(p.Term()))
			continue
		}

		switch line {
		case "steps":
			printSteps(w, p)
		case "term":
			say("%s", jterm.Print(p.Term()))
		case "path":
			say("%s", p.Path().Encode())
		case "remaining":
			if n, ok := p.Remaining(); ok {
				say("%d", n)
			} else {
				say("unbounded")
			}
		case "done":
			say("%v", p.Done())
		case "rules":
			for _, r := range strategy.Rules(p.Strategy()) {
				say("%s%s", r.Name, ruleFlags(r))
			}
		case "reset":
			p = start
			say("%s", jterm.Print(p.Term()))
		case "quit", "exit":
			return nil
		default:
			protest("unknown command %s", JS(line))
		}
	}
}

func ruleFlags[T any](r *rewrite.Rule[T]) string {
	var flags []string
	if r.Buggy {
		flags = append(flags, "buggy")
	}
	if r.Minor {
		flags = append(flags, "minor")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ",") + ")"
}

var doc = `steps          list the continuations from here
go N           take continuation N
submit TERM    step to the rule result that equals TERM
term           print the current term
path           print the encoded path taken so far
remaining      steps left on the leftmost route (minor rules don't count)
done           whether the strategy accepts the current term
rules          list the rules in play
reset          go back to the starting term
quit           exit`
