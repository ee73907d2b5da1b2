package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/donaldgifford/pyfmt/internal/parser"
)

// FormatError reports a failure of the formatting transform.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return e.Err.Error() }

func (e *FormatError) Unwrap() error { return e.Err }

// Document is a formatted module ready to be printed.
type Document struct {
	Nodes   []*parser.Node
	Options Options
	Mode    parser.Mode
	BOM     bool // The source started with a byte order mark.
}

// Run applies each formatting rule in order, piping the output of one
// as input to the next.
func Run(nodes []*parser.Node, ctx *Context, rules []FormatRule) []*parser.Node {
	result := nodes
	for _, rule := range rules {
		result = rule.Format(result, ctx)
	}
	return result
}

// Format applies rules to a parsed module. The comment index and the
// original source are made available to every rule through the Context.
func Format(mod *parser.Module, comments parser.CommentRanges, src string, opts Options, rules ...FormatRule) (*Document, error) {
	if mod == nil {
		return nil, &FormatError{Err: errors.New("no syntax tree")}
	}

	opts.LineEnding = ResolveLineEnding(opts.LineEnding, src)
	if err := opts.Validate(); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("invalid options: %w", err)}
	}

	ctx := &Context{Options: &opts, Comments: comments, Source: src}
	nodes := Run(mod.Nodes, ctx, rules)

	if err := checkNesting(nodes); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &Document{
		Nodes:   nodes,
		Options: opts,
		Mode:    mod.Mode,
		BOM:     strings.HasPrefix(src, parser.BOM),
	}, nil
}

// checkNesting verifies that a statement is only indented one level past
// the statement before it when that statement opened a block.
func checkNesting(nodes []*parser.Node) error {
	allowed := 0
	for _, n := range nodes {
		if n.Depth < 0 {
			return fmt.Errorf("line %d: negative nesting depth %d", n.Line, n.Depth)
		}
		if n.Type != parser.NodeStatement {
			continue
		}
		if n.Depth > allowed {
			return fmt.Errorf("line %d: nesting depth %d exceeds %d", n.Line, n.Depth, allowed)
		}
		allowed = n.Depth
		if n.Header {
			allowed++
		}
	}
	return nil
}
