package format

import (
	"strings"
	"unicode/utf8"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// JoinContinuations chooses the layout of statements that span several
// physical lines. A statement is joined onto one line when it has no
// comments inside it, contains no multi-line string, and fits the line
// width; otherwise it is printed from its original text.
type JoinContinuations struct{}

// Name returns the identifier of this rule.
func (*JoinContinuations) Name() string {
	return "join_continuations"
}

// Format sets the Layout of every continued statement.
func (*JoinContinuations) Format(nodes []*parser.Node, ctx *formatter.Context) []*parser.Node {
	result := make([]*parser.Node, len(nodes))
	for i, n := range nodes {
		result[i] = n
		if n.Type != parser.NodeStatement || !n.Continued {
			continue
		}

		clone := n.Clone()
		if canJoin(clone, ctx) {
			clone.Layout = parser.LayoutFlat
			clone.Continued = false
		} else {
			clone.Layout = parser.LayoutRaw
		}
		result[i] = clone
	}
	return result
}

func canJoin(n *parser.Node, ctx *formatter.Context) bool {
	first, last := n.Tokens[0], n.Tokens[len(n.Tokens)-1]
	if ctx.Comments.Intersects(first.Start, last.End) {
		return false
	}

	flat := formatter.RenderFlat(n)
	if strings.ContainsAny(flat, "\r\n") {
		return false
	}
	return indentWidth(n.Depth, ctx.Options)+utf8.RuneCountInString(flat) <= ctx.Options.LineWidth
}

// indentWidth returns the display width of depth levels of indentation;
// a tab counts as IndentWidth columns.
func indentWidth(depth int, opts *formatter.Options) int {
	return depth * opts.IndentWidth
}
