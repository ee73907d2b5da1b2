// Package format contains individual formatting rule implementations.
package format

import (
	"strings"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// TrailingWhitespace removes trailing spaces and tabs from the physical
// lines of statements that are printed from their original text. Line
// breaks inside string literals are left alone.
type TrailingWhitespace struct{}

// Name returns the identifier of this rule.
func (r *TrailingWhitespace) Name() string {
	return "trim_trailing_whitespace"
}

// Format strips trailing whitespace from multi-line statements and
// comments.
func (r *TrailingWhitespace) Format(nodes []*parser.Node, _ *formatter.Context) []*parser.Node {
	result := make([]*parser.Node, len(nodes))
	for i, n := range nodes {
		result[i] = trimNode(n)
	}
	return result
}

func trimNode(n *parser.Node) *parser.Node {
	switch n.Type {
	case parser.NodeComment:
		text := n.Tokens[0].Text
		trimmed := strings.TrimRight(text, " \t\f")
		if trimmed == text {
			return n
		}
		clone := n.Clone()
		clone.Tokens[0].Text = trimmed
		clone.Raw = trimmed
		return clone

	case parser.NodeStatement:
		if !strings.ContainsAny(n.Raw, "\r\n") || len(n.Tokens) == 0 {
			return n
		}
		raw := trimRawLines(n.Raw, n.Tokens[0].Start, stringRanges(n.Tokens))
		if raw == n.Raw {
			return n
		}
		clone := n.Clone()
		clone.Raw = raw
		return clone
	}
	return n
}

// stringRanges returns the source ranges of the string tokens.
func stringRanges(tokens []parser.Token) []parser.Range {
	var ranges []parser.Range
	for _, t := range tokens {
		if t.Kind == parser.TokenString {
			ranges = append(ranges, parser.Range{Start: t.Start, End: t.End})
		}
	}
	return ranges
}

// trimRawLines trims trailing whitespace before each line break of raw
// that is not inside a string literal. base is the source offset of raw.
func trimRawLines(raw string, base int, strs []parser.Range) string {
	var b strings.Builder
	lineStart := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\n' && raw[i] != '\r' {
			continue
		}
		line := raw[lineStart:i]
		if !inRanges(base+i, strs) {
			line = strings.TrimRight(line, " \t\f")
		}
		b.WriteString(line)
		b.WriteByte(raw[i])
		lineStart = i + 1
	}
	b.WriteString(raw[lineStart:])
	return b.String()
}

func inRanges(off int, ranges []parser.Range) bool {
	for _, r := range ranges {
		if off >= r.Start && off < r.End {
			return true
		}
	}
	return false
}
