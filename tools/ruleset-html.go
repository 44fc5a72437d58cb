package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SakastLord/ideas/interpreters"
	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/ruleset"
	"github.com/SakastLord/ideas/strategy"
	. "github.com/SakastLord/ideas/util/testutil"

	md "github.com/russross/blackfriday/v2"
)

// RenderRulesetHTML writes an HTML fragment documenting the ruleset:
// its doc (rendered as Markdown), its rules, and its strategy.
func RenderRulesetHTML(rs *ruleset.Ruleset, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="rulesetDoc doc">%s</div>`, md.Run([]byte(rs.Doc)))

	{ // Rules
		f(`<div class="rules"><table>`)
		for _, r := range rs.Rules {
			f(`<tr class="rule"><td><span id="%s" class="ruleName">%s</span></td><td>`, r.Name, r.Name)

			if r.Buggy {
				f(`<div class="flag buggy">buggy</div>`)
			}
			if r.Minor {
				f(`<div class="flag minor">minor</div>`)
			}
			if r.Doc != "" {
				f(`<div class="ruleDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
			}
			if r.Lhs != nil {
				f(`<div class="equation"><code>%s</code> &rarr; <code>%s</code></div>`,
					JS(r.Lhs), JS(r.Rhs))
			}
			if r.Source != "" {
				f(`<div class="code"><pre>%s</pre></div>`, r.Source)
			}
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	if rs.Strategy != nil {
		f(`<div class="strategy">`)
		renderStrategyDefHTML(rs.Strategy, out)
		f(`</div>`)
	}

	return nil
}

func renderStrategyDefHTML(def *ruleset.StrategyDef, out io.Writer) {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	kids := func(op string, defs ...*ruleset.StrategyDef) {
		f(`<li><span class="op">%s</span><ul>`, op)
		for _, d := range defs {
			f(`<ul>`)
			renderStrategyDefHTML(d, out)
			f(`</ul>`)
		}
		f(`</ul></li>`)
	}

	switch {
	case def.Rule != "":
		f(`<li><a href="#%s"><code>%s</code></a></li>`, def.Rule, def.Rule)
	case def.Seq != nil:
		kids("seq", def.Seq...)
	case def.Choice != nil:
		kids("choice", def.Choice...)
	case def.Many != nil:
		kids("many", def.Many)
	case def.Not != nil:
		kids("not", def.Not)
	case def.Label != "":
		f(`<li><span class="label">%s</span><ul>`, def.Label)
		renderStrategyDefHTML(def.Of, out)
		f(`</ul></li>`)
	}
}

// RenderRulesetPage writes a complete HTML page for the ruleset.
func RenderRulesetPage(rs *ruleset.Ruleset, out io.Writer, cssFiles []string, includeGraph bool) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/ruleset-html.css"}
	}

	js, err := json.Marshal(rs)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, rs.Name)

	if includeGraph {
		fmt.Fprintf(out, `
  <script src="https://cdnjs.cloudflare.com/ajax/libs/d3/4.12.2/d3.min.js"></script>
  <script src="https://cdnjs.cloudflare.com/ajax/libs/cytoscape/3.2.8/cytoscape.min.js"></script>
  <script src="/static/ruleset-html.js"></script>
  <script>
  var thisRuleset = %s;
  </script>
`, js)
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, rs.Name)

	if includeGraph {
		fmt.Fprintf(out, `<div id="graph"></div>`)
	}

	if err = RenderRulesetHTML(rs, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderRulesetPage loads, compiles, and renders a ruleset
// file.  Compiling first means a page is only rendered for a ruleset
// that actually works.
func ReadAndRenderRulesetPage(filename string, cssFiles []string, out io.Writer, includeGraph bool) (strategy.Strategy[jterm.Term], error) {
	rs, err := ruleset.Load(filename)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, s, err := rs.Compile(ctx, interpreters.Standard())
	if err != nil {
		return nil, err
	}

	return s, RenderRulesetPage(rs, out, cssFiles, includeGraph)
}
