// Package parser builds a Program tree from a token stream.
//
// The parser is recursive descent with one token of lookahead. It never
// aborts on malformed input: every syntax error is recorded and the parser
// resynchronizes at the next statement boundary, so one bad line yields one
// diagnostic instead of a cascade.
package parser

import (
	"github.com/pencil-lang/pencilc/lib/diag"
	"github.com/pencil-lang/pencilc/lib/token"
)

type Parser struct {
	toks  []token.Token
	pos   int
	diags []diag.Diagnostic
}

// Parse consumes tokens and returns the Program root plus any syntax
// diagnostics. The returned tree covers everything that parsed cleanly even
// when diagnostics are present.
func Parse(toks []token.Token) (*Program, []diag.Diagnostic) {
	p := &Parser{toks: toks}
	prog := &Program{}
	for {
		prog.Statements = append(prog.Statements, p.statements()...)
		if p.cur().Kind == token.EOF {
			return prog, p.diags
		}
		// A stray closing brace at the top level.
		tok := p.advance()
		p.errorf(tok, "unexpected %s", tok.Kind)
	}
}

// statements parses until a closing brace or end of input, leaving the
// terminator unconsumed.
func (p *Parser) statements() []Stmt {
	var stmts []Stmt
	for {
		switch p.cur().Kind {
		case token.EOF, token.RBrace:
			return stmts
		}
		if s := p.statement(); s != nil {
			stmts = append(stmts, s)
		}
	}
}

func (p *Parser) statement() Stmt {
	switch p.cur().Kind {
	case token.Let:
		return p.letStmt()
	case token.Fn:
		return p.fnStmt()
	case token.Return:
		return p.returnStmt()
	case token.If:
		return p.ifStmt()
	case token.Repeat:
		return p.repeatStmt()
	case token.Animate:
		return p.animateStmt()
	case token.Scene:
		return p.sceneStmt()
	}
	start := p.cur()
	value := p.expression()
	if value == nil {
		p.synchronize()
		return nil
	}
	return &ExprStmt{base: at(start), Value: value}
}

func (p *Parser) letStmt() Stmt {
	start := p.advance()
	name, ok := p.expect(token.Ident)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.Assign); !ok {
		p.synchronize()
		return nil
	}
	value := p.expression()
	if value == nil {
		p.synchronize()
		return nil
	}
	return &LetStmt{base: at(start), Name: name.Text, Value: value}
}

func (p *Parser) fnStmt() Stmt {
	start := p.advance()
	name, ok := p.expect(token.Ident)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.LParen); !ok {
		p.synchronize()
		return nil
	}
	var params []string
	if p.cur().Kind != token.RParen {
		for {
			param, ok := p.expect(token.Ident)
			if !ok {
				p.synchronize()
				return nil
			}
			params = append(params, param.Text)
			if p.cur().Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen); !ok {
		p.synchronize()
		return nil
	}
	body, ok := p.block()
	if !ok {
		return nil
	}
	return &FnStmt{base: at(start), Name: name.Text, Params: params, Body: body}
}

func (p *Parser) returnStmt() Stmt {
	start := p.advance()
	stmt := &ReturnStmt{base: at(start)}
	if p.endOfLine() {
		return stmt
	}
	value := p.expression()
	if value == nil {
		p.synchronize()
		return nil
	}
	stmt.Value = value
	return stmt
}

// endOfLine reports whether the return value position is empty: a raw
// newline, closing brace, or end of input follows.
func (p *Parser) endOfLine() bool {
	if p.pos < len(p.toks) && p.toks[p.pos].Kind == token.Newline {
		return true
	}
	switch p.cur().Kind {
	case token.RBrace, token.EOF:
		return true
	}
	return false
}

func (p *Parser) ifStmt() Stmt {
	start := p.advance()
	cond := p.expression()
	if cond == nil {
		p.synchronize()
		return nil
	}
	then, ok := p.block()
	if !ok {
		return nil
	}
	stmt := &IfStmt{base: at(start), Cond: cond, Then: then}
	if p.cur().Kind == token.Else {
		p.advance()
		if p.cur().Kind == token.If {
			nested := p.ifStmt()
			if nested == nil {
				return nil
			}
			stmt.Else = []Stmt{nested}
		} else {
			els, ok := p.block()
			if !ok {
				return nil
			}
			stmt.Else = els
		}
	}
	return stmt
}

func (p *Parser) repeatStmt() Stmt {
	start := p.advance()
	count := p.primary()
	if count == nil {
		p.synchronize()
		return nil
	}
	body, ok := p.block()
	if !ok {
		return nil
	}
	return &RepeatStmt{base: at(start), Count: count, Body: body}
}

func (p *Parser) sceneStmt() Stmt {
	start := p.advance()
	body, ok := p.block()
	if !ok {
		return nil
	}
	return &SceneStmt{base: at(start), Body: body}
}

// animateStmt reads an animate block. Only the four animation commands are
// meaningful inside; any other token is skipped without complaint.
func (p *Parser) animateStmt() Stmt {
	start := p.advance()
	if _, ok := p.expect(token.LBrace); !ok {
		p.synchronize()
		return nil
	}
	stmt := &AnimateStmt{base: at(start)}
	for {
		switch p.cur().Kind {
		case token.RBrace, token.EOF:
			p.expect(token.RBrace)
			return stmt
		case token.Move:
			if cmd := p.moveCmd(); cmd != nil {
				stmt.Commands = append(stmt.Commands, cmd)
			}
		case token.Rotate, token.Scale, token.Fade:
			if cmd := p.unaryCmd(); cmd != nil {
				stmt.Commands = append(stmt.Commands, cmd)
			}
		default:
			p.advance()
		}
	}
}

func (p *Parser) moveCmd() AnimCmd {
	start := p.advance()
	amount := p.primary()
	if amount == nil {
		p.synchronize()
		return nil
	}
	dir := p.cur()
	var axis Axis
	var sign Sign
	switch dir.Kind {
	case token.Left:
		axis, sign = AxisX, SignSub
	case token.Right:
		axis, sign = AxisX, SignAdd
	case token.Up:
		axis, sign = AxisY, SignSub
	case token.Down:
		axis, sign = AxisY, SignAdd
	default:
		p.errorf(dir, "expected a direction ('left', 'right', 'up' or 'down'), found %s", dir.Kind)
		p.synchronize()
		return nil
	}
	p.advance()
	return &MoveCmd{base: at(start), Axis: axis, Sign: sign, Amount: amount}
}

func (p *Parser) unaryCmd() AnimCmd {
	start := p.advance()
	amount := p.primary()
	if amount == nil {
		p.synchronize()
		return nil
	}
	switch start.Kind {
	case token.Rotate:
		return &RotateCmd{base: at(start), Amount: amount}
	case token.Scale:
		return &ScaleCmd{base: at(start), Amount: amount}
	default:
		return &FadeCmd{base: at(start), Amount: amount}
	}
}

// block parses `{ statements }`. On a missing brace the parser reports and
// resynchronizes, returning ok=false.
func (p *Parser) block() ([]Stmt, bool) {
	if _, ok := p.expect(token.LBrace); !ok {
		p.synchronize()
		return nil, false
	}
	stmts := p.statements()
	if _, ok := p.expect(token.RBrace); !ok {
		p.synchronize()
		return stmts, false
	}
	return stmts, true
}

// cur returns the next meaningful token, looking past newlines without
// consuming them.
func (p *Parser) cur() token.Token {
	return p.toks[p.skip(p.pos)]
}

// skip returns the index of the first non-newline token at or after i.
func (p *Parser) skip(i int) int {
	for i < len(p.toks)-1 && p.toks[i].Kind == token.Newline {
		i++
	}
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return i
}

func (p *Parser) advance() token.Token {
	i := p.skip(p.pos)
	tok := p.toks[i]
	if tok.Kind != token.EOF {
		p.pos = i + 1
	}
	return tok
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	tok := p.cur()
	if tok.Kind != kind {
		p.errorf(tok, "expected %s, found %s", kind, tok.Kind)
		return tok, false
	}
	return p.advance(), true
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.Syntaxf(tok.Line, tok.Column, format, args...))
}

// synchronize discards tokens after a syntax error. It works on the raw
// stream: consuming a newline means the broken logical line is behind us, and
// a statement keyword, closing brace or end of input means a clean restart
// point is ahead.
func (p *Parser) synchronize() {
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if tok.Kind == token.Newline {
			p.pos++
			return
		}
		if tok.Kind == token.EOF || tok.Kind == token.RBrace || token.StartsStatement(tok.Kind) {
			return
		}
		p.pos++
	}
}

func at(tok token.Token) base {
	return base{Line: tok.Line, Column: tok.Column}
}
