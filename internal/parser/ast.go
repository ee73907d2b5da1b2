// Package parser provides a Python tokenizer and a statement-level parser
// that produces the tree consumed by the formatter.
package parser

import "fmt"

// NodeType classifies a top-level element of the tree.
type NodeType int

const (
	// NodeStatement is one logical line of code.
	NodeStatement NodeType = iota
	// NodeComment is a comment on a line of its own.
	NodeComment
	// NodeBlankLine is an empty or whitespace-only line.
	NodeBlankLine
)

//go:generate stringer -type=NodeType

// Layout tells the printer how to render a statement.
type Layout int

const (
	// LayoutFlat renders the statement's tokens on a single line.
	LayoutFlat Layout = iota
	// LayoutRaw emits the statement's original source text.
	LayoutRaw
)

// Node represents a single element of a Python module.
type Node struct {
	Type  NodeType
	Line  int // 1-indexed source line number.
	Depth int // Block nesting level.

	// Tokens holds the code tokens of a statement (no comments, line
	// breaks or indentation tokens). For a comment node it holds the
	// single comment token.
	Tokens []Token

	// Comments holds the comments that appear inside a statement. A comment
	// after the last code token is the statement's trailing comment.
	Comments []Token

	// Raw is the original text from the first token through the last token
	// or comment of the node (for round-tripping multi-line statements).
	Raw string

	// Continued reports whether the statement spans several physical lines
	// through brackets or backslash continuations.
	Continued bool

	// Header reports whether the statement opens an indented block.
	Header bool

	Layout Layout
}

// Module is the parsed form of a source file.
type Module struct {
	Nodes  []*Node
	Tokens []Token
	Mode   Mode
}

// Trailing returns the statement's trailing comment, if any.
func (n *Node) Trailing() (Token, bool) {
	if len(n.Comments) == 0 || len(n.Tokens) == 0 {
		return Token{}, false
	}
	last := n.Comments[len(n.Comments)-1]
	if last.Start < n.Tokens[len(n.Tokens)-1].End {
		return Token{}, false
	}
	return last, true
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Tokens = cloneTokens(n.Tokens)
	clone.Comments = cloneTokens(n.Comments)
	return &clone
}

func cloneTokens(s []Token) []Token {
	if s == nil {
		return nil
	}
	out := make([]Token, len(s))
	copy(out, s)
	return out
}

// SyntaxError describes source that could not be tokenized or parsed.
type SyntaxError struct {
	Msg  string
	Line int // 1-indexed.
	Col  int // 0-indexed byte column.
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Col+1)
}
