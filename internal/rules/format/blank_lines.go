package format

import (
	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// Blank line limits for regular modules and type stubs.
const (
	maxBlankTopLevel     = 2
	maxBlankNested       = 1
	maxBlankStubTopLevel = 1
	maxBlankStubNested   = 0
)

// BlankLines collapses runs of blank lines. Top-level code allows two
// consecutive blank lines and nested blocks one (stubs: one and none).
// Blank lines directly after a block header are removed.
type BlankLines struct{}

// Name returns the identifier of this rule.
func (*BlankLines) Name() string {
	return "max_blank_lines"
}

// Format collapses runs of blank lines to the limit of the depth of the
// node that follows them.
func (*BlankLines) Format(nodes []*parser.Node, ctx *formatter.Context) []*parser.Node {
	maxTop, maxNested := maxBlankTopLevel, maxBlankNested
	if ctx.Options.SourceType.IsStub() {
		maxTop, maxNested = maxBlankStubTopLevel, maxBlankStubNested
	}

	result := make([]*parser.Node, 0, len(nodes))
	var blanks []*parser.Node
	var prev *parser.Node

	for _, n := range nodes {
		if n.Type == parser.NodeBlankLine {
			blanks = append(blanks, n)
			continue
		}

		limit := maxNested
		if n.Depth == 0 {
			limit = maxTop
		}
		if prev != nil && prev.Header {
			limit = 0
		}
		result = append(result, blanks[:min(len(blanks), limit)]...)
		blanks = blanks[:0]

		result = append(result, n)
		prev = n
	}

	// Trailing blank lines are left for FinalNewline.
	return append(result, blanks...)
}
