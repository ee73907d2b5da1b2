package format

import (
	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// FinalNewline ensures the file ends with exactly one newline.
// This is handled by removing leading and trailing blank lines from the
// tree. The printer always appends a newline after the last node, so
// the result is exactly one trailing newline (or an empty file).
type FinalNewline struct{}

// Name returns the identifier of this rule.
func (r *FinalNewline) Name() string {
	return "insert_final_newline"
}

// Format removes blank lines at both ends of the module.
func (r *FinalNewline) Format(nodes []*parser.Node, _ *formatter.Context) []*parser.Node {
	start, end := 0, len(nodes)
	for start < end && nodes[start].Type == parser.NodeBlankLine {
		start++
	}
	for end > start && nodes[end-1].Type == parser.NodeBlankLine {
		end--
	}

	result := make([]*parser.Node, end-start)
	copy(result, nodes[start:end])
	return result
}
