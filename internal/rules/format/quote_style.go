package format

import (
	"strings"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// QuoteStyle rewrites string literals to the preferred quote character
// when that does not require changing any escapes.
type QuoteStyle struct{}

// Name returns the identifier of this rule.
func (*QuoteStyle) Name() string {
	return "quote_style"
}

// Format normalizes the quotes of every string token.
func (*QuoteStyle) Format(nodes []*parser.Node, ctx *formatter.Context) []*parser.Node {
	var preferred byte
	switch ctx.Options.QuoteStyle {
	case formatter.QuoteDouble:
		preferred = '"'
	case formatter.QuoteSingle:
		preferred = '\''
	default:
		return nodes
	}

	result := make([]*parser.Node, len(nodes))
	for i, n := range nodes {
		result[i] = n
		if n.Type != parser.NodeStatement {
			continue
		}
		var clone *parser.Node
		for j, t := range n.Tokens {
			if t.Kind != parser.TokenString {
				continue
			}
			text := NormalizeQuotes(t.Text, preferred)
			if text == t.Text {
				continue
			}
			if clone == nil {
				clone = n.Clone()
			}
			clone.Tokens[j].Text = text
		}
		if clone != nil {
			result[i] = clone
		}
	}
	return result
}

// NormalizeQuotes returns the string literal lit quoted with preferred,
// or lit unchanged when the body contains the preferred quote (or, for
// single-quoted literals, any backslash escape).
func NormalizeQuotes(lit string, preferred byte) string {
	i := strings.IndexAny(lit, `"'`)
	if i < 0 {
		return lit
	}
	prefix, quoted := lit[:i], lit[i:]
	q := quoted[0]
	if q == preferred {
		return lit
	}

	n := 1
	if len(quoted) >= 6 && strings.HasPrefix(quoted, strings.Repeat(string(q), 3)) {
		n = 3
	}
	if len(quoted) < 2*n {
		return lit
	}
	body := quoted[n : len(quoted)-n]
	if strings.IndexByte(body, preferred) >= 0 {
		return lit
	}
	if n == 1 && strings.IndexByte(body, '\\') >= 0 {
		return lit
	}

	quotes := strings.Repeat(string(preferred), n)
	return prefix + quotes + body + quotes
}
