// Package lexer turns Pencil source text into a flat token stream.
//
// Scanning never fails: anything that is not recognized degrades to an
// Illegal token for the parser to reject with a proper position.
package lexer

import (
	"github.com/pencil-lang/pencilc/lib/token"
)

type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int

	startLine   int
	startColumn int
}

func New(source string) *Lexer {
	return &Lexer{src: []rune(source), line: 1, column: 1}
}

// Tokenize scans source in one pass and returns every token, ending with EOF.
func Tokenize(source string) []token.Token {
	lx := New(source)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token in the stream.
func (lx *Lexer) Next() token.Token {
	lx.skipBlanks()

	lx.startLine = lx.line
	lx.startColumn = lx.column

	if lx.atEnd() {
		return lx.make(token.EOF, "")
	}

	ch := lx.advance()
	switch {
	case ch == '\n':
		return lx.make(token.Newline, "\n")
	case isDigit(ch):
		return lx.number(ch)
	case ch == '"':
		return lx.str()
	case ch == '#':
		return lx.hexColor()
	case isIdentStart(ch):
		return lx.identOrKeyword(ch)
	}

	switch ch {
	case '=':
		if lx.match('=') {
			return lx.make(token.EqEq, "==")
		}
		return lx.make(token.Assign, "=")
	case '!':
		if lx.match('=') {
			return lx.make(token.Neq, "!=")
		}
		return lx.make(token.Bang, "!")
	case '<':
		if lx.match('=') {
			return lx.make(token.Lte, "<=")
		}
		return lx.make(token.Lt, "<")
	case '>':
		if lx.match('=') {
			return lx.make(token.Gte, ">=")
		}
		return lx.make(token.Gt, ">")
	case '+':
		return lx.make(token.Plus, "+")
	case '-':
		return lx.make(token.Minus, "-")
	case '*':
		return lx.make(token.Star, "*")
	case '/':
		return lx.make(token.Slash, "/")
	case '%':
		return lx.make(token.Percent, "%")
	case '(':
		return lx.make(token.LParen, "(")
	case ')':
		return lx.make(token.RParen, ")")
	case '{':
		return lx.make(token.LBrace, "{")
	case '}':
		return lx.make(token.RBrace, "}")
	case ',':
		return lx.make(token.Comma, ",")
	}

	return lx.make(token.Illegal, string(ch))
}

// skipBlanks consumes spaces, tabs, carriage returns and line comments.
// Newlines are left in place so they surface as tokens.
func (lx *Lexer) skipBlanks() {
	for !lx.atEnd() {
		switch lx.peek() {
		case ' ', '\t', '\r':
			lx.advance()
		case '/':
			if lx.peekNext() != '/' {
				return
			}
			for !lx.atEnd() && lx.peek() != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) number(first rune) token.Token {
	text := []rune{first}
	sawDot := false
	for !lx.atEnd() {
		ch := lx.peek()
		if isDigit(ch) {
			text = append(text, lx.advance())
			continue
		}
		// A single decimal point is part of the literal; a second one
		// ends it without being consumed.
		if ch == '.' && !sawDot {
			sawDot = true
			text = append(text, lx.advance())
			continue
		}
		break
	}
	return lx.make(token.Number, string(text))
}

// str scans a double-quoted string with backslash escapes. An unterminated
// string keeps whatever was read up to end of input.
func (lx *Lexer) str() token.Token {
	var text []rune
	for !lx.atEnd() {
		ch := lx.advance()
		if ch == '"' {
			return lx.make(token.String, string(text))
		}
		if ch == '\\' && !lx.atEnd() {
			ch = lx.advance()
		}
		text = append(text, ch)
	}
	return lx.make(token.String, string(text))
}

// hexColor scans '#' plus any run of hex digits. Length is not validated
// here; odd colors reach the output verbatim.
func (lx *Lexer) hexColor() token.Token {
	text := []rune{'#'}
	for !lx.atEnd() && isHexDigit(lx.peek()) {
		text = append(text, lx.advance())
	}
	return lx.make(token.HexColor, string(text))
}

func (lx *Lexer) identOrKeyword(first rune) token.Token {
	text := []rune{first}
	for !lx.atEnd() && isIdentPart(lx.peek()) {
		text = append(text, lx.advance())
	}
	word := string(text)
	if kind, ok := token.Lookup(word); ok {
		return lx.make(kind, word)
	}
	return lx.make(token.Ident, word)
}

func (lx *Lexer) make(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text, Line: lx.startLine, Column: lx.startColumn}
}

func (lx *Lexer) atEnd() bool {
	return lx.pos >= len(lx.src)
}

func (lx *Lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *Lexer) peekNext() rune {
	if lx.pos+1 >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+1]
}

func (lx *Lexer) advance() rune {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return ch
}

func (lx *Lexer) match(want rune) bool {
	if lx.atEnd() || lx.src[lx.pos] != want {
		return false
	}
	lx.advance()
	return true
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
