package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pencil-lang/pencilc/lib/lexer"
)

var allowNodes = cmp.AllowUnexported(
	LetStmt{}, FnStmt{}, ReturnStmt{}, IfStmt{}, RepeatStmt{},
	AnimateStmt{}, SceneStmt{}, ExprStmt{},
	IdentExpr{}, NumberLit{}, StringLit{}, ColorLit{}, BinaryExpr{},
	CallExpr{}, CircleExpr{}, RectExpr{}, LineExpr{}, TriangleExpr{},
	MoveCmd{}, RotateCmd{}, ScaleCmd{}, FadeCmd{},
)

func parseSource(t *testing.T, src string) (*Program, int) {
	t.Helper()
	prog, diags := Parse(lexer.Tokenize(src))
	return prog, len(diags)
}

func parseClean(t *testing.T, src string) *Program {
	t.Helper()
	prog, diags := Parse(lexer.Tokenize(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseClean(t, "let x = 100")
	want := &Program{Statements: []Stmt{
		&LetStmt{
			base: base{Line: 1, Column: 1},
			Name: "x",
			Value: &NumberLit{
				base: base{Line: 1, Column: 9},
				Text: "100",
			},
		},
	}}
	if diff := cmp.Diff(want, prog, allowNodes); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestCircleClauses(t *testing.T) {
	prog := parseClean(t, "circle at (10, 20) size 5 color #fff")
	stmt, ok := prog.Statements[0].(*ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ExprStmt", prog.Statements[0])
	}
	circle, ok := stmt.Value.(*CircleExpr)
	if !ok {
		t.Fatalf("expression is %T, want *CircleExpr", stmt.Value)
	}
	if got := circle.X.(*NumberLit).Text; got != "10" {
		t.Errorf("x = %q, want 10", got)
	}
	if got := circle.Size.(*NumberLit).Text; got != "5" {
		t.Errorf("size = %q, want 5", got)
	}
	if got := circle.Color.(*ColorLit).Value; got != "#fff" {
		t.Errorf("color = %q, want #fff", got)
	}
}

func TestCircleMissingSize(t *testing.T) {
	prog, diags := Parse(lexer.Tokenize("circle at (10, 20) color #fff"))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "'size'") {
		t.Errorf("message %q does not name the missing clause", diags[0].Message)
	}
	if len(prog.Statements) != 0 {
		t.Errorf("broken statement should not reach the tree, got %d", len(prog.Statements))
	}
}

func TestPrecedence(t *testing.T) {
	prog := parseClean(t, "let x = 1 + 2 * 3")
	value := prog.Statements[0].(*LetStmt).Value
	add, ok := value.(*BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("top operator = %v, want +", value)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("right operand = %v, want * expression", add.Right)
	}
}

func TestComparisonDoesNotChain(t *testing.T) {
	_, diags := Parse(lexer.Tokenize("let x = 1 < 2 < 3"))
	if len(diags) == 0 {
		t.Fatal("chained comparison parsed without a diagnostic")
	}
}

func TestErrorRecovery(t *testing.T) {
	src := strings.Join([]string{
		"let = 5",
		"let y = 10",
		"let = 7",
		"let z = 1",
	}, "\n")
	prog, diags := Parse(lexer.Tokenize(src))
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d surviving statements, want 2", len(prog.Statements))
	}
	if name := prog.Statements[0].(*LetStmt).Name; name != "y" {
		t.Errorf("first surviving binding = %q, want y", name)
	}
	if name := prog.Statements[1].(*LetStmt).Name; name != "z" {
		t.Errorf("second surviving binding = %q, want z", name)
	}
}

func TestAnimateCommands(t *testing.T) {
	prog := parseClean(t, "animate {\n  move 5 left\n  rotate 2\n  fade 0.1\n}")
	anim := prog.Statements[0].(*AnimateStmt)
	if len(anim.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(anim.Commands))
	}
	move := anim.Commands[0].(*MoveCmd)
	if move.Axis != AxisX || move.Sign != SignSub {
		t.Errorf("move left = axis %v sign %v, want x axis subtract", move.Axis, move.Sign)
	}
	if _, ok := anim.Commands[1].(*RotateCmd); !ok {
		t.Errorf("second command is %T, want *RotateCmd", anim.Commands[1])
	}
	if _, ok := anim.Commands[2].(*FadeCmd); !ok {
		t.Errorf("third command is %T, want *FadeCmd", anim.Commands[2])
	}
}

func TestAnimateSkipsUnknownTokens(t *testing.T) {
	prog := parseClean(t, "animate {\n  17 +\n  move 3 down\n}")
	anim := prog.Statements[0].(*AnimateStmt)
	if len(anim.Commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(anim.Commands))
	}
	move := anim.Commands[0].(*MoveCmd)
	if move.Axis != AxisY || move.Sign != SignAdd {
		t.Errorf("move down = axis %v sign %v, want y axis add", move.Axis, move.Sign)
	}
}

func TestMoveRequiresDirection(t *testing.T) {
	_, diags := Parse(lexer.Tokenize("animate { move 5 }"))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
}

func TestRepeatCount(t *testing.T) {
	prog := parseClean(t, "repeat 3 {\n  let a = 1\n}")
	rep := prog.Statements[0].(*RepeatStmt)
	if got := rep.Count.(*NumberLit).Text; got != "3" {
		t.Errorf("count = %q, want 3", got)
	}
	if len(rep.Body) != 1 {
		t.Errorf("body has %d statements, want 1", len(rep.Body))
	}
}

func TestRepeatCountParenthesized(t *testing.T) {
	prog := parseClean(t, "let n = 2\nrepeat (n + 1) { }")
	rep := prog.Statements[1].(*RepeatStmt)
	if _, ok := rep.Count.(*BinaryExpr); !ok {
		t.Errorf("count is %T, want parenthesized *BinaryExpr", rep.Count)
	}
}

func TestFunctionAndCall(t *testing.T) {
	prog := parseClean(t, "fn dot(x, y) {\n  circle at (x, y) size 2 color #000\n}\ndot(1, 2)")
	fn := prog.Statements[0].(*FnStmt)
	if fn.Name != "dot" || len(fn.Params) != 2 {
		t.Fatalf("fn = %q with %d params, want dot with 2", fn.Name, len(fn.Params))
	}
	call := prog.Statements[1].(*ExprStmt).Value.(*CallExpr)
	if callee := call.Callee.(*IdentExpr).Name; callee != "dot" {
		t.Errorf("callee = %q, want dot", callee)
	}
	if len(call.Args) != 2 {
		t.Errorf("got %d args, want 2", len(call.Args))
	}
}

func TestIfElseChain(t *testing.T) {
	prog := parseClean(t, "if 1 < 2 {\n  let a = 1\n} else if 2 < 3 {\n  let b = 2\n} else {\n  let c = 3\n}")
	stmt := prog.Statements[0].(*IfStmt)
	nested, ok := stmt.Else[0].(*IfStmt)
	if !ok {
		t.Fatalf("else branch is %T, want nested *IfStmt", stmt.Else[0])
	}
	if nested.Else == nil {
		t.Error("nested if lost its else branch")
	}
}

func TestReturnWithoutValue(t *testing.T) {
	prog := parseClean(t, "fn f() {\n  return\n}")
	ret := prog.Statements[0].(*FnStmt).Body[0].(*ReturnStmt)
	if ret.Value != nil {
		t.Errorf("return value = %v, want nil", ret.Value)
	}
}

func TestShapeGrammars(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"rect", "rect at (1, 2) size 3 4 color #abc"},
		{"line", "line from (0, 0) to (10, 10) color #abc"},
		{"triangle", "triangle at (0, 0) to (5, 5) to (10, 0) color #abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, n := parseSource(t, tt.src)
			if n != 0 {
				t.Fatalf("got %d diagnostics, want 0", n)
			}
			if len(prog.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(prog.Statements))
			}
		})
	}
}

func TestShapeClausesAreOrderFixed(t *testing.T) {
	_, diags := Parse(lexer.Tokenize("circle size 5 at (1, 2) color #fff"))
	if len(diags) == 0 {
		t.Fatal("reordered clauses parsed without a diagnostic")
	}
}

func TestStrayClosingBrace(t *testing.T) {
	prog, diags := Parse(lexer.Tokenize("}\nlet x = 1"))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if len(prog.Statements) != 1 {
		t.Errorf("got %d statements, want 1", len(prog.Statements))
	}
}
