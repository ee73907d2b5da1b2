package formatter

import (
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// Context carries what a rule may consult besides the nodes themselves.
type Context struct {
	Options  *Options
	Comments parser.CommentRanges
	Source   string
}

// FormatRule transforms tree nodes. Rules are applied in registered order.
type FormatRule interface {
	// Name returns the identifier of this rule (e.g., "operator_spacing").
	Name() string

	// Format receives the full node list and returns a modified one.
	// Rules should not mutate the input; return new/cloned nodes where
	// changes are needed.
	Format(nodes []*parser.Node, ctx *Context) []*parser.Node
}
