// Package formatter provides the formatting engine, printer, and rule interface.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/donaldgifford/pyfmt/internal/parser"
)

// PrintError reports a failure to render a formatted document.
type PrintError struct {
	Err error
}

func (e *PrintError) Error() string { return e.Err.Error() }

func (e *PrintError) Unwrap() error { return e.Err }

// Print serializes a formatted document back into Python source.
//
// Flat statements are rebuilt from their tokens; raw statements emit their
// original text after the new indentation. The output is parsed again
// before it is returned so a document can never print as invalid Python.
func Print(doc *Document) (string, error) {
	if doc == nil {
		return "", &PrintError{Err: errors.New("no document")}
	}

	unit := doc.Options.IndentUnit()
	var b strings.Builder
	if doc.BOM {
		b.WriteString(parser.BOM)
	}
	for _, n := range doc.Nodes {
		writeNode(&b, n, unit)
		b.WriteByte('\n')
	}

	out := normalizeNewlines(b.String())
	if seq := doc.Options.LineEnding.Sequence(); seq != "\n" {
		out = strings.ReplaceAll(out, "\n", seq)
	}

	if _, err := parser.Parse(out, doc.Mode); err != nil {
		return "", &PrintError{Err: fmt.Errorf("formatted output is not valid Python: %w", err)}
	}
	return out, nil
}

// Write serializes nodes with the default options, without validation.
func Write(nodes []*parser.Node) string {
	unit := DefaultOptions().IndentUnit()
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n, unit)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *parser.Node, unit string) {
	switch n.Type {
	case parser.NodeBlankLine:
		// Empty line: the trailing \n is added by the caller.

	case parser.NodeComment:
		b.WriteString(strings.Repeat(unit, n.Depth))
		b.WriteString(n.Tokens[0].Text)

	case parser.NodeStatement:
		b.WriteString(strings.Repeat(unit, n.Depth))
		if n.Layout == parser.LayoutRaw || hasInteriorComments(n) {
			b.WriteString(n.Raw)
			return
		}
		b.WriteString(RenderFlat(n))
	}
}

// RenderFlat renders a statement's tokens on one line, followed by its
// trailing comment.
func RenderFlat(n *parser.Node) string {
	var b strings.Builder
	for i, t := range n.Tokens {
		if i > 0 && t.SpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	if c, ok := n.Trailing(); ok {
		b.WriteString("  ")
		b.WriteString(c.Text)
	}
	return b.String()
}

// hasInteriorComments reports whether a statement has comments that a flat
// rendering would drop.
func hasInteriorComments(n *parser.Node) bool {
	if _, ok := n.Trailing(); ok {
		return len(n.Comments) > 1
	}
	return len(n.Comments) > 0
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
