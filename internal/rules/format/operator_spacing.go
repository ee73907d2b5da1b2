package format

import (
	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// OperatorSpacing decides where single spaces go between the tokens of a
// statement: around binary and assignment operators, after commas and
// colons, and nowhere inside brackets, before calls and subscripts,
// around keyword-argument equals or after unary operators.
type OperatorSpacing struct{}

// Name returns the identifier of this rule.
func (*OperatorSpacing) Name() string {
	return "operator_spacing"
}

// Format sets SpaceBefore on the tokens of every statement.
func (*OperatorSpacing) Format(nodes []*parser.Node, _ *formatter.Context) []*parser.Node {
	result := make([]*parser.Node, len(nodes))
	for i, n := range nodes {
		if n.Type != parser.NodeStatement {
			result[i] = n
			continue
		}
		clone := n.Clone()
		SpaceTokens(clone.Tokens)
		result[i] = clone
	}
	return result
}

// frame is the spacing state of one bracket level.
type frame struct {
	open     string // "(", "[", "{" or "" for the statement itself.
	sawColon bool   // An annotation colon appeared in the current item.
	lambdas  int    // Lambda parameter lists still waiting for their colon.
}

// spacer carries what the decision for a token needs to know about the
// token before it.
type spacer struct {
	stack       []frame
	prevUnary   bool
	prevKwarg   bool // Previous token is a keyword-argument "=".
	prevSlice   bool // Previous token is a slice colon.
	decoratorAt bool // Previous token is the "@" of a decorator.
}

// SpaceTokens computes SpaceBefore for each token in place.
func SpaceTokens(toks []parser.Token) {
	s := &spacer{stack: []frame{{}}}
	for i := range toks {
		t := &toks[i]
		top := &s.stack[len(s.stack)-1]

		unary := isUnary(toks, i)
		kwarg := t.Is("=") && ((top.open == "(" && !top.sawColon) || top.lambdas > 0)

		t.SpaceBefore = i > 0 && s.needsSpace(toks[i-1], *t, kwarg)

		slice := false
		switch {
		case t.Kind == parser.TokenOp && (t.Text == "(" || t.Text == "[" || t.Text == "{"):
			s.stack = append(s.stack, frame{open: t.Text})
		case t.Kind == parser.TokenOp && (t.Text == ")" || t.Text == "]" || t.Text == "}"):
			if len(s.stack) > 1 {
				s.stack = s.stack[:len(s.stack)-1]
			}
		case t.Is("lambda"):
			top.lambdas++
		case t.Is(":"):
			if top.lambdas > 0 {
				top.lambdas--
			} else {
				top.sawColon = true
				slice = top.open == "["
			}
		case t.Is(","):
			top.sawColon = false
		}

		s.prevUnary = unary
		s.prevKwarg = kwarg
		s.prevSlice = slice
		s.decoratorAt = i == 0 && t.Is("@")
	}
}

func (s *spacer) needsSpace(prev, cur parser.Token, curKwarg bool) bool {
	switch {
	case isOpenBracket(prev), isCloseBracket(cur):
		return false
	case cur.Is(","), cur.Is(";"):
		return false
	case prev.Is(","), prev.Is(";"):
		return true
	case cur.Is(":"):
		return false
	case prev.Is(":"):
		return !s.prevSlice
	case cur.Is("."):
		return (prev.IsKeyword() && !isConstant(prev)) || isDecimalInt(prev)
	case prev.Is("."):
		return cur.Is("import")
	case s.prevUnary, s.decoratorAt:
		return false
	case curKwarg, s.prevKwarg:
		return false
	case cur.Is("(") || cur.Is("["):
		return !isCallable(prev)
	}
	return true
}

// isUnary reports whether the operator at i applies to the operand after it.
func isUnary(toks []parser.Token, i int) bool {
	t := toks[i]
	if t.Kind != parser.TokenOp {
		return false
	}
	switch t.Text {
	case "~":
		return true
	case "-", "+", "*", "**":
	default:
		return false
	}
	if i == 0 {
		return true
	}
	prev := toks[i-1]
	switch prev.Kind {
	case parser.TokenOp:
		return !isCloseBracket(prev) && prev.Text != "..."
	case parser.TokenName:
		return prev.IsKeyword() && !isConstant(prev)
	}
	return false
}

func isOpenBracket(t parser.Token) bool {
	return t.Kind == parser.TokenOp && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

func isCloseBracket(t parser.Token) bool {
	return t.Kind == parser.TokenOp && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

func isConstant(t parser.Token) bool {
	return t.Kind == parser.TokenName && (t.Text == "True" || t.Text == "False" || t.Text == "None")
}

// isDecimalInt reports whether t is a plain decimal integer literal, which
// would read as a float if a following "." were joined to it.
func isDecimalInt(t parser.Token) bool {
	if t.Kind != parser.TokenNumber {
		return false
	}
	for _, c := range t.Text {
		if (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// isCallable reports whether a "(" or "[" after t is a call or subscript.
func isCallable(t parser.Token) bool {
	switch t.Kind {
	case parser.TokenName:
		return !t.IsKeyword() || isConstant(t)
	case parser.TokenString:
		return true
	}
	return isCloseBracket(t)
}
