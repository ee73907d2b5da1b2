package format

import (
	"testing"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

func parse(t *testing.T, src string) *parser.Module {
	t.Helper()
	mod, err := parser.Parse(src, parser.ModeModule)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return mod
}

func newContext(mod *parser.Module, src string, opts formatter.Options) *formatter.Context {
	return &formatter.Context{
		Options:  &opts,
		Comments: parser.CommentRangesFrom(mod.Tokens),
		Source:   src,
	}
}

// apply parses src and runs rules over it with opts.
func apply(t *testing.T, src string, opts formatter.Options, rules ...formatter.FormatRule) []*parser.Node {
	t.Helper()
	mod := parse(t, src)
	return formatter.Run(mod.Nodes, newContext(mod, src, opts), rules)
}

func countBlank(nodes []*parser.Node) int {
	n := 0
	for _, node := range nodes {
		if node.Type == parser.NodeBlankLine {
			n++
		}
	}
	return n
}

// statements returns the statement nodes of nodes.
func statements(nodes []*parser.Node) []*parser.Node {
	var out []*parser.Node
	for _, n := range nodes {
		if n.Type == parser.NodeStatement {
			out = append(out, n)
		}
	}
	return out
}
