// Package analyzer checks that every identifier a program references is
// defined, and that nothing is declared twice in the same scope frame.
package analyzer

import (
	"github.com/pencil-lang/pencilc/lib/diag"
	"github.com/pencil-lang/pencilc/lib/parser"
)

type Analyzer struct {
	diags []diag.Diagnostic
}

// Analyze walks the whole tree and returns every semantic diagnostic in
// source order. It never stops at the first error.
func Analyze(prog *parser.Program) []diag.Diagnostic {
	a := &Analyzer{}
	a.walkStmts(prog.Statements, NewScope(nil))
	return a.diags
}

// walkStmts checks the statement list of a new frame. Function names are
// hoisted across the whole frame first, so a statement may call a function
// declared later, including one nested in an if or repeat body that shares
// the frame.
func (a *Analyzer) walkStmts(stmts []parser.Stmt, scope *Scope) {
	a.hoist(stmts, scope)
	a.walkList(stmts, scope)
}

// hoist declares every function name reachable within the frame: the list
// itself plus if and repeat bodies, which do not open a frame of their own.
// Scene and fn bodies hoist when their frame is entered.
func (a *Analyzer) hoist(stmts []parser.Stmt, scope *Scope) {
	for _, s := range stmts {
		switch stmt := s.(type) {
		case *parser.FnStmt:
			line, col := stmt.Pos()
			a.declare(scope, stmt.Name, Symbol{Kind: SymbolFunction, Line: line, Column: col})
		case *parser.IfStmt:
			a.hoist(stmt.Then, scope)
			a.hoist(stmt.Else, scope)
		case *parser.RepeatStmt:
			a.hoist(stmt.Body, scope)
		}
	}
}

func (a *Analyzer) walkList(stmts []parser.Stmt, scope *Scope) {
	for _, s := range stmts {
		a.walkStmt(s, scope)
	}
}

func (a *Analyzer) walkStmt(s parser.Stmt, scope *Scope) {
	switch stmt := s.(type) {
	case *parser.LetStmt:
		// The initializer is checked before the name exists, so
		// `let x = x` reports an undefined x.
		a.walkExpr(stmt.Value, scope)
		line, col := stmt.Pos()
		a.declare(scope, stmt.Name, Symbol{Kind: SymbolVariable, Line: line, Column: col})
	case *parser.FnStmt:
		// Name already hoisted into the enclosing frame.
		body := NewScope(scope)
		for _, param := range stmt.Params {
			line, col := stmt.Pos()
			a.declare(body, param, Symbol{Kind: SymbolParam, Line: line, Column: col})
		}
		a.walkStmts(stmt.Body, body)
	case *parser.ReturnStmt:
		if stmt.Value != nil {
			a.walkExpr(stmt.Value, scope)
		}
	case *parser.IfStmt:
		// If bodies share the enclosing frame, so names declared
		// inside remain visible after the block. Their fn names were
		// already hoisted with the frame.
		a.walkExpr(stmt.Cond, scope)
		a.walkList(stmt.Then, scope)
		a.walkList(stmt.Else, scope)
	case *parser.RepeatStmt:
		a.walkExpr(stmt.Count, scope)
		a.walkList(stmt.Body, scope)
	case *parser.SceneStmt:
		a.walkStmts(stmt.Body, NewScope(scope))
	case *parser.AnimateStmt:
		// Animate bodies mutate the shared transform state only and
		// are not scope-checked.
	case *parser.ExprStmt:
		a.walkExpr(stmt.Value, scope)
	}
}

func (a *Analyzer) walkExpr(e parser.Expr, scope *Scope) {
	switch expr := e.(type) {
	case *parser.IdentExpr:
		if _, ok := scope.Lookup(expr.Name); !ok {
			line, col := expr.Pos()
			a.diags = append(a.diags, diag.Semanticf(line, col, "undefined variable '%s'", expr.Name))
		}
	case *parser.BinaryExpr:
		a.walkExpr(expr.Left, scope)
		a.walkExpr(expr.Right, scope)
	case *parser.CallExpr:
		a.walkExpr(expr.Callee, scope)
		for _, arg := range expr.Args {
			a.walkExpr(arg, scope)
		}
	case *parser.CircleExpr:
		a.walkExpr(expr.X, scope)
		a.walkExpr(expr.Y, scope)
		a.walkExpr(expr.Size, scope)
		a.walkExpr(expr.Color, scope)
	case *parser.RectExpr:
		a.walkExpr(expr.X, scope)
		a.walkExpr(expr.Y, scope)
		a.walkExpr(expr.Width, scope)
		a.walkExpr(expr.Height, scope)
		a.walkExpr(expr.Color, scope)
	case *parser.LineExpr:
		a.walkExpr(expr.X1, scope)
		a.walkExpr(expr.Y1, scope)
		a.walkExpr(expr.X2, scope)
		a.walkExpr(expr.Y2, scope)
		a.walkExpr(expr.Color, scope)
	case *parser.TriangleExpr:
		a.walkExpr(expr.X1, scope)
		a.walkExpr(expr.Y1, scope)
		a.walkExpr(expr.X2, scope)
		a.walkExpr(expr.Y2, scope)
		a.walkExpr(expr.X3, scope)
		a.walkExpr(expr.Y3, scope)
		a.walkExpr(expr.Color, scope)
	}
}

func (a *Analyzer) declare(scope *Scope, name string, sym Symbol) {
	if prev, ok := scope.LookupLocal(name); ok {
		a.diags = append(a.diags, diag.Semanticf(sym.Line, sym.Column,
			"'%s' is already declared in this scope as a %s", name, prev.Kind))
		return
	}
	scope.Define(name, sym)
}
