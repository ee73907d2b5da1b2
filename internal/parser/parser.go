package parser

import (
	"fmt"
	"strings"
)

// compoundKeywords start statements that must carry a header colon.
var compoundKeywords = map[string]bool{
	"if":      true,
	"elif":    true,
	"else":    true,
	"for":     true,
	"while":   true,
	"try":     true,
	"except":  true,
	"finally": true,
	"with":    true,
	"def":     true,
	"class":   true,
}

// statementStarters are the operators a statement may begin with.
var statementStarters = map[string]bool{
	"(": true, "[": true, "{": true, "-": true, "+": true,
	"~": true, "*": true, "...": true, "@": true,
}

// danglingOps cannot end a statement.
var danglingOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "//=": true,
	"%=": true, "**=": true, ">>=": true, "<<=": true, "&=": true, "|=": true,
	"^=": true, "@=": true, "==": true, "!=": true, "<": true, ">": true,
	"<=": true, ">=": true, "+": true, "-": true, "*": true, "/": true,
	"//": true, "%": true, "**": true, "<<": true, ">>": true, "&": true,
	"|": true, "^": true, "@": true, ".": true, "->": true, ":=": true,
	"~": true,
}

// danglingKeywords cannot end a statement.
var danglingKeywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"as": true, "if": true, "elif": true, "else": true, "while": true,
	"for": true, "def": true, "class": true, "from": true, "import": true,
	"lambda": true, "with": true, "global": true, "nonlocal": true,
	"assert": true, "await": true, "async": true, "del": true,
}

// Parse tokenizes and parses Python source into a Module. Syntax problems
// are reported as *SyntaxError.
func Parse(src string, mode Mode) (*Module, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &state{src: src, tokens: tokens, indents: []int{0}}
	if err := p.parse(); err != nil {
		return nil, err
	}

	mod := &Module{Nodes: p.nodes, Tokens: tokens, Mode: mode}
	if mode == ModeExpression {
		if err := checkExpression(mod); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// state tracks parser state across tokens.
type state struct {
	src     string
	tokens  []Token
	pos     int
	nodes   []*Node
	depth   int
	indents []int // Source columns of the open blocks.
	pending *Node // Block header still waiting for its indented body.
}

func (p *state) parse() error {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.Kind {
		case TokenEOF:
			if p.pending != nil {
				return p.expectedBlock(tok)
			}
			return nil

		case TokenIndent:
			if p.pending == nil {
				return errAt(tok, "unexpected indent")
			}
			p.pending = nil
			p.depth++
			p.indents = append(p.indents, tok.Col)
			p.pos++

		case TokenDedent:
			p.depth--
			p.indents = p.indents[:len(p.indents)-1]
			p.pos++

		case TokenNL:
			if p.pos == 0 || p.tokens[p.pos-1].Kind == TokenNewline || p.tokens[p.pos-1].Kind == TokenNL {
				p.nodes = append(p.nodes, &Node{Type: NodeBlankLine, Line: tok.Line, Depth: p.depth})
			}
			p.pos++

		case TokenNewline:
			p.pos++

		case TokenComment:
			p.nodes = append(p.nodes, &Node{
				Type:   NodeComment,
				Line:   tok.Line,
				Depth:  p.commentDepth(tok.Col),
				Tokens: []Token{tok},
				Raw:    tok.Text,
			})
			p.pos++

		default:
			if err := p.statement(); err != nil {
				return err
			}
		}
	}
	return nil
}

// statement consumes one logical line starting at the current token.
func (p *state) statement() error {
	first := p.tokens[p.pos]
	if p.pending != nil {
		return p.expectedBlock(first)
	}

	n := &Node{Type: NodeStatement, Line: first.Line, Depth: p.depth}
	end := first.End

collect:
	for ; p.pos < len(p.tokens); p.pos++ {
		t := p.tokens[p.pos]
		switch t.Kind {
		case TokenNewline:
			p.pos++
			break collect
		case TokenEOF:
			break collect
		case TokenNL:
			n.Continued = true
		case TokenComment:
			n.Comments = append(n.Comments, t)
			end = t.End
		default:
			if k := len(n.Tokens); k > 0 && t.Line > endLine(n.Tokens[k-1]) {
				n.Continued = true
			}
			n.Tokens = append(n.Tokens, t)
			end = t.End
		}
	}
	n.Raw = p.src[first.Start:end]

	if err := validate(n); err != nil {
		return err
	}
	p.nodes = append(p.nodes, n)
	if n.Header {
		p.pending = n
	}
	return nil
}

// commentDepth places a comment-only line in the block whose indentation
// it lines up with. A comment indented past a pending header belongs to
// the header's body.
func (p *state) commentDepth(col int) int {
	if p.pending != nil && col > p.indents[len(p.indents)-1] {
		return p.depth + 1
	}
	depth := 0
	for i, c := range p.indents {
		if c <= col {
			depth = i
		}
	}
	return depth
}

func (p *state) expectedBlock(at Token) error {
	return errAt(at, fmt.Sprintf("expected an indented block after '%s' statement on line %d",
		headerKeyword(p.pending), p.pending.Line))
}

func headerKeyword(n *Node) string {
	first := n.Tokens[0]
	if first.Is("async") && len(n.Tokens) > 1 {
		return n.Tokens[1].Text
	}
	return first.Text
}

// validate rejects statements that cannot be valid Python and marks block
// headers.
func validate(n *Node) error {
	toks := n.Tokens
	first, last := toks[0], toks[len(toks)-1]

	if first.Kind == TokenOp && !statementStarters[first.Text] {
		return errAt(first, "invalid syntax")
	}
	if last.Kind == TokenOp && danglingOps[last.Text] {
		if !(last.Text == "*" && len(toks) > 1 && toks[len(toks)-2].Is("import")) {
			return errAt(last, "invalid syntax")
		}
	}
	if last.IsKeyword() && danglingKeywords[last.Text] {
		return errAt(last, "invalid syntax")
	}

	for i := 1; i < len(toks); i++ {
		a, b := toks[i-1], toks[i]
		if !isAtom(a) || !isAtom(b) {
			continue
		}
		if a.Kind == TokenString && b.Kind == TokenString {
			continue
		}
		if i == 1 && a.Kind == TokenName && softKeywords[a.Text] {
			continue
		}
		return errAt(b, "invalid syntax")
	}

	idx := 0
	if first.Is("async") && len(toks) > 1 {
		idx = 1
	}
	kw := toks[idx]
	colon := headerColon(toks)

	switch {
	case kw.Kind == TokenName && compoundKeywords[kw.Text]:
		if colon < 0 {
			return errAt(last, "expected ':'")
		}
		switch kw.Text {
		case "else", "try", "finally":
			if colon != idx+1 {
				return errAt(toks[idx+1], "expected ':'")
			}
		case "def":
			if len(toks) < idx+3 || !isName(toks[idx+1]) || !toks[idx+2].Is("(") {
				return errAt(toks[min(idx+1, len(toks)-1)], "invalid syntax")
			}
		case "class":
			if !isName(toks[idx+1]) {
				return errAt(toks[idx+1], "invalid syntax")
			}
		}
		n.Header = colon == len(toks)-1

	case (first.Is("match") || first.Is("case")) && len(toks) > 2 && last.Is(":"):
		n.Header = true

	case last.Is(":"):
		return errAt(last, "invalid syntax")
	}
	return nil
}

// headerColon returns the index of the first colon outside brackets that
// does not close a lambda's parameter list, or -1.
func headerColon(toks []Token) int {
	depth, lambdas := 0, 0
	for i, t := range toks {
		if t.Kind != TokenOp && !t.Is("lambda") {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "lambda":
			if depth == 0 {
				lambdas++
			}
		case ":":
			if depth != 0 {
				continue
			}
			if lambdas > 0 {
				lambdas--
				continue
			}
			return i
		}
	}
	return -1
}

func checkExpression(mod *Module) error {
	var stmts []*Node
	for _, n := range mod.Nodes {
		if n.Type == NodeStatement {
			stmts = append(stmts, n)
		}
	}
	if len(stmts) != 1 {
		at := Token{Line: 1}
		if len(stmts) > 1 {
			at = stmts[1].Tokens[0]
		}
		return errAt(at, "expected a single expression")
	}

	n := stmts[0]
	first := n.Tokens[0]
	if first.IsKeyword() && !expressionKeywords[first.Text] {
		return errAt(first, "expected an expression")
	}
	depth := 0
	for _, t := range n.Tokens {
		if t.Kind != TokenOp {
			continue
		}
		switch {
		case t.Text == "(" || t.Text == "[" || t.Text == "{":
			depth++
		case t.Text == ")" || t.Text == "]" || t.Text == "}":
			depth--
		case depth == 0 && (t.Text == "=" || t.Text == ";" || (strings.HasSuffix(t.Text, "=") && danglingOps[t.Text] && !comparisonOps[t.Text])):
			return errAt(t, "expected an expression")
		}
	}
	return nil
}

var expressionKeywords = map[string]bool{
	"True": true, "False": true, "None": true, "not": true,
	"lambda": true, "await": true, "yield": true,
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<=": true, ">=": true}

func isAtom(t Token) bool {
	switch t.Kind {
	case TokenNumber, TokenString:
		return true
	case TokenName:
		return !Keywords[t.Text]
	}
	return false
}

func isName(t Token) bool {
	return t.Kind == TokenName && !Keywords[t.Text]
}

// endLine returns the line on which the token ends.
func endLine(t Token) int {
	return t.Line + strings.Count(t.Text, "\n") + strings.Count(t.Text, "\r") - strings.Count(t.Text, "\r\n")
}

func errAt(t Token, msg string) error {
	return &SyntaxError{Msg: msg, Line: t.Line, Col: t.Col}
}
