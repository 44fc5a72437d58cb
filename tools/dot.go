package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/SakastLord/ideas/strategy"
)

// Dot makes a Graphviz dot file for the given strategy.
//
// Rule nodes are boxes; buggy rules are filled red, minor rules are
// dashed.  Combinator nodes are ellipses, with labels shown as
// plaintext.  The optional atLabel names a labeled subtree to
// highlight.
func Dot[T any](s strategy.Strategy[T], w io.WriteCloser, atLabel string) error {

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [fontsize = "12"]
  edge [fontsize = "10"]
`)

	num := 0
	var node func(s strategy.Strategy[T], under string) string
	node = func(s strategy.Strategy[T], under string) string {
		num++
		nid := fmt.Sprintf("n%d", num)

		op, label, rule, children := strategy.Inspect(s)

		switch op {
		case "rule":
			shape := "box"
			style := "rounded"
			fillcolor := "#99ddc8"
			if rule.Buggy {
				style = "rounded,filled"
				fillcolor = "#f98b8b"
			}
			if rule.Minor {
				style += ",dashed"
			}
			fmt.Fprintf(w, "  %s [shape=\"%s\", style=\"%s\", fillcolor=\"%s\", label=\"%s\"]\n",
				nid, shape, style, fillcolor, escape(rule.Name))
		case "label":
			color := "black"
			if label == atLabel {
				color = "red"
			}
			fmt.Fprintf(w, "  %s [shape=\"plaintext\", fontcolor=\"%s\", label=\"%s\"]\n",
				nid, color, escape(label))
		default:
			fmt.Fprintf(w, "  %s [shape=\"ellipse\", label=\"%s\"]\n", nid, op)
		}

		for i, child := range children {
			cid := node(child, nid)
			if op == "seq" || op == "choice" {
				fmt.Fprintf(w, "  %s -> %s [label=\"%d\"]\n", nid, cid, i)
			} else {
				fmt.Fprintf(w, "  %s -> %s\n", nid, cid)
			}
		}

		return nid
	}
	node(s, "")

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// PNG generates a PNG image based on output from Dot.
//
// This function will write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG[T any](s strategy.Strategy[T], basename string, atLabel string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(s, dotfile, atLabel); err != nil {
		return pngname, err
	}
	cmd := "dot -Tpng -Gstart=1 " + dotname + " > " + pngname
	if err := exec.Command("bash", "-c", cmd).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}
