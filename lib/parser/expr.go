package parser

import (
	"github.com/pencil-lang/pencilc/lib/token"
)

// expression parses the full precedence ladder. It returns nil after
// recording a diagnostic; callers decide how to resynchronize.
func (p *Parser) expression() Expr {
	return p.comparison()
}

// comparison applies at most one comparison operator: `a < b < c` is a
// syntax error at the second `<` rather than a chained comparison.
func (p *Parser) comparison() Expr {
	left := p.additive()
	if left == nil {
		return nil
	}
	op := p.cur()
	switch op.Kind {
	case token.EqEq, token.Neq, token.Lt, token.Gt, token.Lte, token.Gte:
		p.advance()
		right := p.additive()
		if right == nil {
			return nil
		}
		return &BinaryExpr{base: at(op), Op: op.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) additive() Expr {
	left := p.multiplicative()
	if left == nil {
		return nil
	}
	for {
		op := p.cur()
		if op.Kind != token.Plus && op.Kind != token.Minus {
			return left
		}
		p.advance()
		right := p.multiplicative()
		if right == nil {
			return nil
		}
		left = &BinaryExpr{base: at(op), Op: op.Text, Left: left, Right: right}
	}
}

func (p *Parser) multiplicative() Expr {
	left := p.call()
	if left == nil {
		return nil
	}
	for {
		op := p.cur()
		if op.Kind != token.Star && op.Kind != token.Slash && op.Kind != token.Percent {
			return left
		}
		p.advance()
		right := p.call()
		if right == nil {
			return nil
		}
		left = &BinaryExpr{base: at(op), Op: op.Text, Left: left, Right: right}
	}
}

// call parses a primary followed by any number of argument lists. Call
// syntax attaches to whatever primary precedes it, which is how user
// functions are invoked.
func (p *Parser) call() Expr {
	expr := p.primary()
	if expr == nil {
		return nil
	}
	for p.cur().Kind == token.LParen {
		open := p.advance()
		var args []Expr
		if p.cur().Kind != token.RParen {
			for {
				arg := p.expression()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if p.cur().Kind != token.Comma {
					break
				}
				p.advance()
			}
		}
		if _, ok := p.expect(token.RParen); !ok {
			return nil
		}
		expr = &CallExpr{base: at(open), Callee: expr, Args: args}
	}
	return expr
}

func (p *Parser) primary() Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &NumberLit{base: at(tok), Text: tok.Text}
	case token.String:
		p.advance()
		return &StringLit{base: at(tok), Value: tok.Text}
	case token.HexColor:
		p.advance()
		return &ColorLit{base: at(tok), Value: tok.Text}
	case token.Ident:
		p.advance()
		return &IdentExpr{base: at(tok), Name: tok.Text}
	case token.LParen:
		p.advance()
		inner := p.expression()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RParen); !ok {
			return nil
		}
		return inner
	case token.Circle:
		return p.circle()
	case token.Rect:
		return p.rect()
	case token.Line:
		return p.line()
	case token.Triangle:
		return p.triangle()
	}
	p.errorf(tok, "expected an expression, found %s", tok.Kind)
	return nil
}

// Shape constructors take fixed clause sequences; every clause keyword is
// mandatory and the order may not change.

func (p *Parser) circle() Expr {
	start := p.advance()
	if _, ok := p.expect(token.At); !ok {
		return nil
	}
	x, y, ok := p.coords()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Size); !ok {
		return nil
	}
	size := p.primary()
	if size == nil {
		return nil
	}
	color, ok := p.colorClause()
	if !ok {
		return nil
	}
	return &CircleExpr{base: at(start), X: x, Y: y, Size: size, Color: color}
}

func (p *Parser) rect() Expr {
	start := p.advance()
	if _, ok := p.expect(token.At); !ok {
		return nil
	}
	x, y, ok := p.coords()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Size); !ok {
		return nil
	}
	width := p.primary()
	if width == nil {
		return nil
	}
	height := p.primary()
	if height == nil {
		return nil
	}
	color, ok := p.colorClause()
	if !ok {
		return nil
	}
	return &RectExpr{base: at(start), X: x, Y: y, Width: width, Height: height, Color: color}
}

func (p *Parser) line() Expr {
	start := p.advance()
	if _, ok := p.expect(token.From); !ok {
		return nil
	}
	x1, y1, ok := p.coords()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.To); !ok {
		return nil
	}
	x2, y2, ok := p.coords()
	if !ok {
		return nil
	}
	color, ok := p.colorClause()
	if !ok {
		return nil
	}
	return &LineExpr{base: at(start), X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color}
}

func (p *Parser) triangle() Expr {
	start := p.advance()
	if _, ok := p.expect(token.At); !ok {
		return nil
	}
	x1, y1, ok := p.coords()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.To); !ok {
		return nil
	}
	x2, y2, ok := p.coords()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.To); !ok {
		return nil
	}
	x3, y3, ok := p.coords()
	if !ok {
		return nil
	}
	color, ok := p.colorClause()
	if !ok {
		return nil
	}
	return &TriangleExpr{base: at(start), X1: x1, Y1: y1, X2: x2, Y2: y2, X3: x3, Y3: y3, Color: color}
}

// coords parses `( x , y )`.
func (p *Parser) coords() (x, y Expr, ok bool) {
	if _, ok := p.expect(token.LParen); !ok {
		return nil, nil, false
	}
	x = p.expression()
	if x == nil {
		return nil, nil, false
	}
	if _, ok := p.expect(token.Comma); !ok {
		return nil, nil, false
	}
	y = p.expression()
	if y == nil {
		return nil, nil, false
	}
	if _, ok := p.expect(token.RParen); !ok {
		return nil, nil, false
	}
	return x, y, true
}

func (p *Parser) colorClause() (Expr, bool) {
	if _, ok := p.expect(token.Color); !ok {
		return nil, false
	}
	color := p.expression()
	if color == nil {
		return nil, false
	}
	return color, true
}
