package verilog

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

// Token kinds.
const (
	EOF TokenKind = iota
	IDENT
	SYSIDENT // $display
	KEYWORD
	NUMBER // integer literal in any base, sized or not
	REAL
	STRING
	OP
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case IDENT:
		return "identifier"
	case SYSIDENT:
		return "system identifier"
	case KEYWORD:
		return "keyword"
	case NUMBER:
		return "number"
	case REAL:
		return "real"
	case STRING:
		return "string"
	case OP:
		return "operator"
	}

	return "unknown"
}

// Token is a lexical token with its position.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

var keywords = map[string]bool{
	"module": true, "endmodule": true, "input": true, "output": true, "inout": true,
	"wire": true, "reg": true, "integer": true, "signed": true,
	"parameter": true, "localparam": true, "assign": true, "always": true, "initial": true,
	"begin": true, "end": true, "if": true, "else": true,
	"case": true, "casex": true, "casez": true, "endcase": true, "default": true,
	"for": true, "while": true, "posedge": true, "negedge": true, "or": true,
}

// operators ordered so that longer spellings are tried first.
var operators = []string{
	"<<<", ">>>", "===", "!==",
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "~&", "~|", "~^", "^~", "**", "+:", "-:",
	"+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^", "=", "?", ":", ";", ",", ".",
	"(", ")", "[", "]", "{", "}", "@", "#",
}

type lexer struct {
	file       string
	src        string
	off        int
	line       int
	col        int
	directives []string
}

// Lex splits src into tokens. Compiler directive lines are returned separately.
func Lex(file, src string) ([]Token, []string, error) {
	lx := &lexer{file: file, src: src, line: 1, col: 1}

	var toks []Token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == EOF {
			return toks, lx.directives, nil
		}
	}
}

func (lx *lexer) errorf(pos Pos, format string, args ...any) error {
	return &ParseError{File: lx.file, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peekByte(ahead int) byte {
	if lx.off+ahead >= len(lx.src) {
		return 0
	}

	return lx.src[lx.off+ahead]
}

func (lx *lexer) advance(n int) {
	for i := 0; i < n && lx.off < len(lx.src); i++ {
		if lx.src[lx.off] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}

		lx.off++
	}
}

func (lx *lexer) pos() Pos { return Pos{Line: lx.line, Column: lx.col} }

func (lx *lexer) skipSpaceAndComments() error {
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.advance(1)
		case c == '/' && lx.peekByte(1) == '/':
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance(1)
			}
		case c == '/' && lx.peekByte(1) == '*':
			start := lx.pos()

			end := strings.Index(lx.src[lx.off+2:], "*/")
			if end < 0 {
				return lx.errorf(start, "unterminated block comment")
			}

			lx.advance(end + 4)
		case c == '`':
			end := strings.IndexByte(lx.src[lx.off:], '\n')
			if end < 0 {
				end = len(lx.src) - lx.off
			}

			lx.directives = append(lx.directives, strings.TrimSpace(lx.src[lx.off:lx.off+end]))
			lx.advance(end)
		default:
			return nil
		}
	}

	return nil
}

func (lx *lexer) next() (Token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	start := lx.pos()

	if lx.off >= len(lx.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	c := lx.src[lx.off]

	switch {
	case isIdentStart(c):
		text := lx.take(isIdentPart)
		if keywords[text] {
			return Token{Kind: KEYWORD, Text: text, Pos: start}, nil
		}

		return Token{Kind: IDENT, Text: text, Pos: start}, nil
	case c == '$':
		lx.advance(1)
		text := "$" + lx.take(isIdentPart)

		return Token{Kind: SYSIDENT, Text: text, Pos: start}, nil
	case isDigit(c) || (c == '\'' && isBaseLetter(lx.peekByte(1))) || (c == '\'' && lx.peekByte(1) == 's'):
		return lx.number(start)
	case c == '"':
		return lx.str(start)
	}

	for _, op := range operators {
		if strings.HasPrefix(lx.src[lx.off:], op) {
			lx.advance(len(op))
			return Token{Kind: OP, Text: op, Pos: start}, nil
		}
	}

	return Token{}, lx.errorf(start, "unexpected character %q", c)
}

func (lx *lexer) take(pred func(byte) bool) string {
	begin := lx.off
	for lx.off < len(lx.src) && pred(lx.src[lx.off]) {
		lx.advance(1)
	}

	return lx.src[begin:lx.off]
}

// number scans decimal, real and based literals: 12, 1.5e3, 4'b1010, 'hff, 8'sd3.
func (lx *lexer) number(start Pos) (Token, error) {
	begin := lx.off
	lx.take(isDecimalPart)

	if lx.peekByte(0) == '\'' {
		lx.advance(1)

		if c := lx.peekByte(0); c == 's' || c == 'S' {
			lx.advance(1)
		}

		if !isBaseLetter(lx.peekByte(0)) {
			return Token{}, lx.errorf(start, "invalid base in number %q", lx.src[begin:lx.off])
		}

		lx.advance(1)

		if lx.take(isBasedDigit) == "" {
			return Token{}, lx.errorf(start, "missing digits in number %q", lx.src[begin:lx.off])
		}

		return Token{Kind: NUMBER, Text: lx.src[begin:lx.off], Pos: start}, nil
	}

	isReal := false

	if lx.peekByte(0) == '.' && isDigit(lx.peekByte(1)) {
		isReal = true

		lx.advance(1)
		lx.take(isDecimalPart)
	}

	if c := lx.peekByte(0); c == 'e' || c == 'E' {
		next := lx.peekByte(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.peekByte(2))) {
			isReal = true

			lx.advance(2)
			lx.take(isDigit)
		}
	}

	if isReal {
		return Token{Kind: REAL, Text: lx.src[begin:lx.off], Pos: start}, nil
	}

	return Token{Kind: NUMBER, Text: lx.src[begin:lx.off], Pos: start}, nil
}

func (lx *lexer) str(start Pos) (Token, error) {
	lx.advance(1)

	var b strings.Builder

	for {
		if lx.off >= len(lx.src) || lx.src[lx.off] == '\n' {
			return Token{}, lx.errorf(start, "unterminated string")
		}

		c := lx.src[lx.off]
		if c == '"' {
			lx.advance(1)
			return Token{Kind: STRING, Text: b.String(), Pos: start}, nil
		}

		if c == '\\' && lx.off+1 < len(lx.src) {
			b.WriteByte(c)
			b.WriteByte(lx.src[lx.off+1])
			lx.advance(2)

			continue
		}

		b.WriteByte(c)
		lx.advance(1)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) || c == '$' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDecimalPart(c byte) bool { return isDigit(c) || c == '_' }

func isBaseLetter(c byte) bool {
	switch c {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	}

	return false
}

func isBasedDigit(c byte) bool {
	return isDigit(c) || c == '_' || c == '?' ||
		(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == 'x' || c == 'X' || c == 'z' || c == 'Z'
}
