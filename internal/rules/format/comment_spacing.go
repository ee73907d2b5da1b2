package format

import (
	"strings"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// CommentSpacing ensures a space after the leading hashes of a comment.
type CommentSpacing struct{}

// Name returns the identifier of this rule.
func (*CommentSpacing) Name() string {
	return "space_after_comment"
}

// Format normalizes spacing after # in comment lines and trailing comments.
func (*CommentSpacing) Format(nodes []*parser.Node, _ *formatter.Context) []*parser.Node {
	result := make([]*parser.Node, len(nodes))
	for i, n := range nodes {
		result[i] = normalizeNodeComments(n)
	}
	return result
}

func normalizeNodeComments(n *parser.Node) *parser.Node {
	switch n.Type {
	case parser.NodeComment:
		text := normalizeComment(n.Tokens[0].Text, n.Line)
		if text == n.Tokens[0].Text {
			return n
		}
		clone := n.Clone()
		clone.Tokens[0].Text = text
		clone.Raw = text
		return clone

	case parser.NodeStatement:
		if _, ok := n.Trailing(); !ok {
			return n
		}
		last := len(n.Comments) - 1
		text := normalizeComment(n.Comments[last].Text, n.Line)
		if text == n.Comments[last].Text {
			return n
		}
		clone := n.Clone()
		clone.Comments[last].Text = text
		return clone
	}
	return n
}

// normalizeComment inserts a space after the run of leading hashes.
// Skips: shebangs on the first line (#!), "#:" markers, and comments that
// are nothing but hashes.
func normalizeComment(text string, line int) string {
	if line == 1 && strings.HasPrefix(text, "#!") {
		return text
	}
	if strings.HasPrefix(text, "#:") {
		return text
	}

	body := strings.TrimLeft(text, "#")
	if body == "" || body[0] == ' ' || body[0] == '\t' {
		return text
	}
	return text[:len(text)-len(body)] + " " + body
}
