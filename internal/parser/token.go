package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenName is an identifier or keyword.
	TokenName TokenKind = iota
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenString is a string literal including its prefix and quotes.
	TokenString
	// TokenOp is an operator or delimiter.
	TokenOp
	// TokenComment is a "#" comment up to (not including) the line break.
	TokenComment
	// TokenNewline ends a logical line.
	TokenNewline
	// TokenNL is a line break that does not end a logical line.
	TokenNL
	// TokenIndent opens a block.
	TokenIndent
	// TokenDedent closes a block.
	TokenDedent
	// TokenEOF marks the end of input.
	TokenEOF
)

var tokenKindNames = [...]string{
	TokenName:    "Name",
	TokenNumber:  "Number",
	TokenString:  "String",
	TokenOp:      "Op",
	TokenComment: "Comment",
	TokenNewline: "Newline",
	TokenNL:      "NL",
	TokenIndent:  "Indent",
	TokenDedent:  "Dedent",
	TokenEOF:     "EOF",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical token.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int // Byte offset of the first byte.
	End   int // Byte offset one past the last byte.
	Line  int // 1-indexed line of Start.
	Col   int // 0-indexed byte column of Start.

	// SpaceBefore is set by the formatter when the printer must emit a
	// single space before this token.
	SpaceBefore bool
}

// Is reports whether t is an operator or name with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenOp || t.Kind == TokenName) && t.Text == text
}

// Keywords are the hard keywords of Python 3.
var Keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// softKeywords only act as keywords at the start of a statement.
var softKeywords = map[string]bool{
	"match": true,
	"case":  true,
	"type":  true,
}

// IsKeyword reports whether t is a hard keyword.
func (t Token) IsKeyword() bool {
	return t.Kind == TokenName && Keywords[t.Text]
}

// operators is ordered longest first so the scanner can take the first match.
var operators = []string{
	"...", "**=", "//=", ">>=", "<<=",
	"->", ":=", "==", "!=", "<=", ">=", "**", "//", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=",
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// tabSize is the column multiple a tab advances to when measuring indentation.
const tabSize = 8

// BOM is the UTF-8 byte order mark a source file may start with.
const BOM = "\ufeff"

// Tokenize splits Python source into tokens. The final token is always
// TokenEOF. A leading BOM is skipped; token offsets still index src.
// Lexical problems (unterminated strings, unbalanced brackets, inconsistent
// dedents) are reported as *SyntaxError.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, indents: []int{0}, atLineStart: true}
	if strings.HasPrefix(src, BOM) {
		lx.pos = len(BOM)
		lx.lineStart = len(BOM)
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

type bracket struct {
	ch   byte
	line int
	col  int
}

// lexer tracks scanning state across the source.
type lexer struct {
	src         string
	pos         int
	line        int
	lineStart   int
	indents     []int
	brackets    []bracket
	atLineStart bool
	lineHasCode bool // A non-comment token was emitted on this logical line.
	tokens      []Token
}

func (lx *lexer) run() error {
	for {
		if lx.atLineStart && len(lx.brackets) == 0 {
			if err := lx.indentation(); err != nil {
				return err
			}
		}
		if lx.pos >= len(lx.src) {
			return lx.finish()
		}

		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			lx.pos++
		case c == '#':
			end := lx.pos
			for end < len(lx.src) && lx.src[end] != '\n' && lx.src[end] != '\r' {
				end++
			}
			lx.emit(TokenComment, end)
		case c == '\n' || c == '\r':
			lx.newline()
		case c == '\\':
			if err := lx.continuation(); err != nil {
				return err
			}
		case c == '"' || c == '\'':
			if err := lx.str(lx.pos); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			lx.number()
		case isIdentStart(lx.src[lx.pos:]):
			if err := lx.name(); err != nil {
				return err
			}
		default:
			if err := lx.operator(); err != nil {
				return err
			}
		}
	}
}

// indentation measures the leading whitespace of a physical line and emits
// Indent/Dedent tokens. Blank and comment-only lines do not affect blocks.
func (lx *lexer) indentation() error {
	lx.atLineStart = false
	col, p := 0, lx.pos
measure:
	for p < len(lx.src) {
		switch lx.src[p] {
		case ' ':
			col++
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			break measure
		}
		p++
	}
	lx.pos = p
	if p >= len(lx.src) {
		return nil
	}
	switch lx.src[p] {
	case '#', '\n', '\r':
		return nil
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.tokens = append(lx.tokens, Token{Kind: TokenIndent, Start: p, End: p, Line: lx.line, Col: p - lx.lineStart})
	case col < top:
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.tokens = append(lx.tokens, Token{Kind: TokenDedent, Start: p, End: p, Line: lx.line, Col: p - lx.lineStart})
		}
		if col != lx.indents[len(lx.indents)-1] {
			return lx.errorf(lx.line, p-lx.lineStart, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (lx *lexer) newline() {
	end := lx.pos + 1
	if lx.src[lx.pos] == '\r' && end < len(lx.src) && lx.src[end] == '\n' {
		end++
	}
	kind := TokenNL
	if lx.lineHasCode && len(lx.brackets) == 0 {
		kind = TokenNewline
		lx.lineHasCode = false
	}
	lx.tokens = append(lx.tokens, Token{
		Kind: kind, Text: lx.src[lx.pos:end], Start: lx.pos, End: end,
		Line: lx.line, Col: lx.pos - lx.lineStart,
	})
	lx.pos = end
	lx.line++
	lx.lineStart = end
	if len(lx.brackets) == 0 {
		lx.atLineStart = true
	}
}

func (lx *lexer) continuation() error {
	p := lx.pos + 1
	if p >= len(lx.src) {
		return lx.errorf(lx.line, lx.pos-lx.lineStart, "unexpected EOF while parsing")
	}
	switch lx.src[p] {
	case '\n':
		p++
	case '\r':
		p++
		if p < len(lx.src) && lx.src[p] == '\n' {
			p++
		}
	default:
		return lx.errorf(lx.line, lx.pos-lx.lineStart, "unexpected character after line continuation character")
	}
	lx.pos = p
	lx.line++
	lx.lineStart = p
	return nil
}

func (lx *lexer) name() error {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentContinue(r) {
			break
		}
		lx.pos += size
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == '"' || lx.src[lx.pos] == '\'') && isStringPrefix(lx.src[start:lx.pos]) {
		return lx.str(start)
	}
	lx.emitFrom(TokenName, start, lx.pos)
	return nil
}

func (lx *lexer) number() {
	start := lx.pos
	s := lx.src
	p := lx.pos
	if s[p] == '0' && p+1 < len(s) && strings.ContainsRune("xXoObB", rune(s[p+1])) {
		p += 2
		for p < len(s) && (isHexDigit(s[p]) || s[p] == '_') {
			p++
		}
		lx.pos = p
		lx.emitFrom(TokenNumber, start, p)
		return
	}
	for p < len(s) && (isDigit(s[p]) || s[p] == '_') {
		p++
	}
	if p < len(s) && s[p] == '.' {
		p++
		for p < len(s) && (isDigit(s[p]) || s[p] == '_') {
			p++
		}
	}
	if p < len(s) && (s[p] == 'e' || s[p] == 'E') {
		q := p + 1
		if q < len(s) && (s[q] == '+' || s[q] == '-') {
			q++
		}
		if q < len(s) && isDigit(s[q]) {
			p = q
			for p < len(s) && (isDigit(s[p]) || s[p] == '_') {
				p++
			}
		}
	}
	if p < len(s) && (s[p] == 'j' || s[p] == 'J') {
		p++
	}
	lx.pos = p
	lx.emitFrom(TokenNumber, start, p)
}

// str scans a string literal whose prefix (possibly empty) begins at start
// and whose opening quote is at lx.pos.
func (lx *lexer) str(start int) error {
	s := lx.src
	q := s[lx.pos]
	startLine, startCol := lx.line, start-lx.lineStart
	triple := strings.HasPrefix(s[lx.pos:], strings.Repeat(string(q), 3))

	p := lx.pos + 1
	if triple {
		p = lx.pos + 3
	}
	for {
		if p >= len(s) {
			if triple {
				return lx.errorf(startLine, startCol, "unterminated triple-quoted string literal (detected at line %d)", lx.line+strings.Count(s[lx.pos:], "\n"))
			}
			return lx.errorf(startLine, startCol, "unterminated string literal (detected at line %d)", startLine)
		}
		c := s[p]
		switch {
		case c == '\\':
			p += 2
			continue
		case (c == '\n' || c == '\r') && !triple:
			return lx.errorf(startLine, startCol, "unterminated string literal (detected at line %d)", startLine)
		case c == q && !triple:
			p++
		case c == q && strings.HasPrefix(s[p:], strings.Repeat(string(q), 3)):
			p += 3
		default:
			p++
			continue
		}
		break
	}
	if p > len(s) {
		p = len(s)
	}

	lx.pos = p
	lx.emitFrom(TokenString, start, p)

	// Advance line bookkeeping across line breaks inside the literal.
	text := s[start:p]
	if n := strings.Count(text, "\n") + strings.Count(text, "\r") - strings.Count(text, "\r\n"); n > 0 {
		lx.line += n
		last := strings.LastIndexAny(text, "\r\n")
		lx.lineStart = start + last + 1
	}
	return nil
}

func (lx *lexer) operator() error {
	rest := lx.src[lx.pos:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		col := lx.pos - lx.lineStart
		switch op {
		case "(", "[", "{":
			lx.brackets = append(lx.brackets, bracket{ch: op[0], line: lx.line, col: col})
		case ")", "]", "}":
			if len(lx.brackets) == 0 {
				return lx.errorf(lx.line, col, "unmatched '%s'", op)
			}
			open := lx.brackets[len(lx.brackets)-1]
			if open.ch != closers[op[0]] {
				return lx.errorf(lx.line, col, "closing parenthesis '%s' does not match opening parenthesis '%c'", op, open.ch)
			}
			lx.brackets = lx.brackets[:len(lx.brackets)-1]
		}
		lx.emitFrom(TokenOp, lx.pos, lx.pos+len(op))
		lx.pos += len(op)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return lx.errorf(lx.line, lx.pos-lx.lineStart, "invalid character '%c' (U+%04X)", r, r)
}

func (lx *lexer) finish() error {
	if n := len(lx.brackets); n > 0 {
		open := lx.brackets[n-1]
		return lx.errorf(open.line, open.col, "'%c' was never closed", open.ch)
	}
	end := len(lx.src)
	if lx.lineHasCode {
		lx.tokens = append(lx.tokens, Token{Kind: TokenNewline, Start: end, End: end, Line: lx.line, Col: end - lx.lineStart})
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.tokens = append(lx.tokens, Token{Kind: TokenDedent, Start: end, End: end, Line: lx.line, Col: 0})
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Start: end, End: end, Line: lx.line, Col: end - lx.lineStart})
	return nil
}

func (lx *lexer) emit(kind TokenKind, end int) {
	lx.emitFrom(kind, lx.pos, end)
	lx.pos = end
}

func (lx *lexer) emitFrom(kind TokenKind, start, end int) {
	if kind != TokenComment {
		lx.lineHasCode = true
	}
	lx.tokens = append(lx.tokens, Token{
		Kind:  kind,
		Text:  lx.src[start:end],
		Start: start,
		End:   end,
		Line:  lx.line,
		Col:   start - lx.lineStart,
	})
}

func (lx *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r) || unicode.In(r, unicode.Nl, unicode.Other_ID_Start)
}

// isIdentContinue reports whether r may appear after the first character
// of an identifier.
func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) ||
		unicode.In(r, unicode.Nl, unicode.Other_ID_Start, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
