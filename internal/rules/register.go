package rules

import (
	"github.com/donaldgifford/pyfmt/internal/rules/format"
)

func init() {
	// Token-level rules run before layout so line widths are measured on
	// the final token text.
	RegisterFormatRule(&format.QuoteStyle{})
	RegisterFormatRule(&format.OperatorSpacing{})
	RegisterFormatRule(&format.CommentSpacing{})
	RegisterFormatRule(&format.TrailingWhitespace{})
	RegisterFormatRule(&format.JoinContinuations{})

	// Line-level rules.
	RegisterFormatRule(&format.BlankLines{})
	RegisterFormatRule(&format.FinalNewline{})
}
