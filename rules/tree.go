package rules

import (
	"fmt"
	"strings"
)

type TreeToken int

const (
	TreeToken_None TreeToken = iota
	TreeToken_Rule
	TreeToken_Literal
	TreeToken_Marker
)

// FormatFunc decorates a piece of the tree before it's written, the
// command line uses it for colors
type FormatFunc func(input string, token TreeToken) string

// Tree renders the rules reachable from start as a tree, expanding at
// most maxDepth levels.  Rules already being expanded higher up in
// the same branch are marked as recursive instead of being expanded
// again.
func Tree(g *Grammar, start, maxDepth int) string {
	return FormatTree(g, start, maxDepth, func(input string, _ TreeToken) string { return input })
}

// FormatTree is Tree with format applied to each piece of text
func FormatTree(g *Grammar, start, maxDepth int, format FormatFunc) string {
	tp := newTreePrinter(format)
	tp.rule(g, start, 0, maxDepth, make(map[int]bool))
	return tp.output.String()
}

func (tp *treePrinter) rule(g *Grammar, id, depth, maxDepth int, expanding map[int]bool) {
	r, ok := g.Rule(id)
	if !ok {
		tp.writel(tp.format(fmt.Sprintf("%d: ", id), TreeToken_Rule) + tp.format("(missing)", TreeToken_Marker))
		return
	}

	tp.write(tp.format(fmt.Sprintf("%d: ", id), TreeToken_Rule))
	if r.IsTerminal() {
		tp.writel(tp.format(r.Body(), TreeToken_Literal))
		return
	}
	tp.write(r.Body())

	refs := r.Refs()
	switch {
	case expanding[id]:
		tp.writel(tp.format(" (recursive)", TreeToken_Marker))
		return
	case depth >= maxDepth && len(refs) > 0:
		tp.writel(tp.format(" ...", TreeToken_Marker))
		return
	}
	tp.writel("")

	expanding[id] = true
	for i, ref := range refs {
		switch {
		case i == len(refs)-1:
			tp.pwrite("└── ")
			tp.indent("    ")
		default:
			tp.pwrite("├── ")
			tp.indent("│   ")
		}
		tp.rule(g, ref, depth+1, maxDepth, expanding)
		tp.unindent()
	}
	delete(expanding, id)
}

type treePrinter struct {
	padStr *[]string
	output *strings.Builder
	format FormatFunc
}

func newTreePrinter(format FormatFunc) *treePrinter {
	return &treePrinter{
		padStr: &[]string{},
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter) indent(s string) {
	*tp.padStr = append(*tp.padStr, s)
}

func (tp *treePrinter) unindent() {
	index := len(*tp.padStr) - 1
	*tp.padStr = (*tp.padStr)[:index]
}

func (tp *treePrinter) padding() {
	for _, item := range *tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter) pwrite(s string) {
	tp.padding()
	tp.write(s)
}
