// Package token defines the lexical vocabulary of the Pencil language.
package token

import "strings"

type Kind int

const (
	EOF Kind = iota
	Illegal
	Newline

	// Literals
	Number
	String
	HexColor
	Ident

	// Keywords
	Let
	Fn
	Return
	If
	Else
	Repeat
	Animate
	Scene
	Circle
	Rect
	Line
	Triangle
	Move
	Rotate
	Scale
	Fade
	At
	Size
	Color
	From
	To
	Left
	Right
	Up
	Down

	// Operators and delimiters
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	EqEq
	Neq
	Lt
	Gt
	Lte
	Gte
	Bang
	LParen
	RParen
	LBrace
	RBrace
	Comma
)

var keywordMap = map[string]Kind{
	"let":      Let,
	"fn":       Fn,
	"return":   Return,
	"if":       If,
	"else":     Else,
	"repeat":   Repeat,
	"animate":  Animate,
	"scene":    Scene,
	"circle":   Circle,
	"rect":     Rect,
	"line":     Line,
	"triangle": Triangle,
	"move":     Move,
	"rotate":   Rotate,
	"scale":    Scale,
	"fade":     Fade,
	"at":       At,
	"size":     Size,
	"color":    Color,
	"from":     From,
	"to":       To,
	"left":     Left,
	"right":    Right,
	"up":       Up,
	"down":     Down,
}

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Illegal:  "illegal character",
	Newline:  "newline",
	Number:   "number",
	String:   "string",
	HexColor: "color literal",
	Ident:    "identifier",
	Assign:   "'='",
	Plus:     "'+'",
	Minus:    "'-'",
	Star:     "'*'",
	Slash:    "'/'",
	Percent:  "'%'",
	EqEq:     "'=='",
	Neq:      "'!='",
	Lt:       "'<'",
	Gt:       "'>'",
	Lte:      "'<='",
	Gte:      "'>='",
	Bang:     "'!'",
	LParen:   "'('",
	RParen:   "')'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	Comma:    "','",
}

func init() {
	for word, kind := range keywordMap {
		kindNames[kind] = "'" + word + "'"
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown token"
}

// Lookup reports whether ident is a reserved word, matched case-insensitively.
func Lookup(ident string) (Kind, bool) {
	kind, ok := keywordMap[strings.ToLower(ident)]
	return kind, ok
}

// StartsStatement reports whether a token of this kind begins a new statement
// form. The parser uses this to resynchronize after a syntax error.
func StartsStatement(k Kind) bool {
	switch k {
	case Let, Fn, Return, If, Repeat, Animate, Scene:
		return true
	default:
		return false
	}
}

// Token is a single lexeme with its 1-based source position.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}
