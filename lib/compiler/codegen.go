// Package compiler turns an analyzed Program into runnable canvas
// JavaScript, and fronts the whole lex/parse/analyze/generate pipeline.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pencil-lang/pencilc/lib/parser"
)

// Generator emits one program. Routine names come from plain counters so the
// same tree always produces byte-identical output.
type Generator struct {
	buf    strings.Builder
	indent int

	frameID int
	sceneID int
	loopID  int
}

// Generate renders prog as a self-contained script. The tree must have
// passed semantic analysis; an unknown node kind here is a defect and
// panics.
func Generate(prog *parser.Program) string {
	g := &Generator{}
	g.preamble()
	for _, s := range prog.Statements {
		g.stmt(s)
	}
	return g.buf.String()
}

// preamble binds the drawing surface and the shared transform state every
// emitted shape and animation command works against.
func (g *Generator) preamble() {
	g.write(`const __canvas = document.getElementById('canvas');
const __ctx = __canvas.getContext('2d');
const __pencil = { x: 0, y: 0, rotation: 0, scale: 1, opacity: 1 };
function __pencilTransform(x, y) {
  __ctx.translate(__pencil.x + x, __pencil.y + y);
  __ctx.rotate(__pencil.rotation * Math.PI / 180);
  __ctx.scale(__pencil.scale, __pencil.scale);
  __ctx.globalAlpha = __pencil.opacity;
}
function __pencilClear() {
  __ctx.clearRect(0, 0, __canvas.width, __canvas.height);
}
`)
}

func (g *Generator) stmt(s parser.Stmt) {
	switch stmt := s.(type) {
	case *parser.LetStmt:
		g.line("let %s = %s;", stmt.Name, g.expr(stmt.Value))
	case *parser.FnStmt:
		g.line("function %s(%s) {", stmt.Name, strings.Join(stmt.Params, ", "))
		g.block(stmt.Body)
		g.line("}")
	case *parser.ReturnStmt:
		if stmt.Value == nil {
			g.line("return;")
		} else {
			g.line("return %s;", g.expr(stmt.Value))
		}
	case *parser.IfStmt:
		g.line("if (%s) {", g.expr(stmt.Cond))
		g.block(stmt.Then)
		if stmt.Else != nil {
			g.line("} else {")
			g.block(stmt.Else)
		}
		g.line("}")
	case *parser.RepeatStmt:
		// The bound is evaluated once, at loop entry.
		n := fmt.Sprintf("__n%d", g.loopID)
		i := fmt.Sprintf("__i%d", g.loopID)
		g.loopID++
		g.line("const %s = %s;", n, g.expr(stmt.Count))
		g.line("for (let %s = 0; %s < %s; %s++) {", i, i, n, i)
		g.block(stmt.Body)
		g.line("}")
	case *parser.AnimateStmt:
		g.animate(stmt)
	case *parser.SceneStmt:
		name := fmt.Sprintf("__scene%d", g.sceneID)
		g.sceneID++
		g.line("function %s() {", name)
		g.block(stmt.Body)
		g.line("}")
		g.line("%s();", name)
	case *parser.ExprStmt:
		g.line("%s;", g.expr(stmt.Value))
	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", s))
	}
}

// animate emits a per-frame routine: clear, apply every command as an
// in-place mutation of the transform state, schedule the next frame. The
// routine is invoked once to start the loop.
func (g *Generator) animate(stmt *parser.AnimateStmt) {
	name := fmt.Sprintf("__frame%d", g.frameID)
	g.frameID++
	g.line("function %s() {", name)
	g.indent++
	g.line("__pencilClear();")
	for _, cmd := range stmt.Commands {
		g.animCmd(cmd)
	}
	g.line("requestAnimationFrame(%s);", name)
	g.indent--
	g.line("}")
	g.line("%s();", name)
}

func (g *Generator) animCmd(cmd parser.AnimCmd) {
	switch c := cmd.(type) {
	case *parser.MoveCmd:
		field := "x"
		if c.Axis == parser.AxisY {
			field = "y"
		}
		op := "+="
		if c.Sign == parser.SignSub {
			op = "-="
		}
		g.line("__pencil.%s %s %s;", field, op, g.expr(c.Amount))
	case *parser.RotateCmd:
		g.line("__pencil.rotation += %s;", g.expr(c.Amount))
	case *parser.ScaleCmd:
		g.line("__pencil.scale *= %s;", g.expr(c.Amount))
	case *parser.FadeCmd:
		g.line("__pencil.opacity -= %s;", g.expr(c.Amount))
	default:
		panic(fmt.Sprintf("codegen: unhandled animation command %T", cmd))
	}
}

func (g *Generator) expr(e parser.Expr) string {
	switch expr := e.(type) {
	case *parser.NumberLit:
		return expr.Text
	case *parser.StringLit:
		return strconv.Quote(expr.Value)
	case *parser.ColorLit:
		return "'" + expr.Value + "'"
	case *parser.IdentExpr:
		return expr.Name
	case *parser.BinaryExpr:
		return "(" + g.expr(expr.Left) + " " + expr.Op + " " + g.expr(expr.Right) + ")"
	case *parser.CallExpr:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = g.expr(arg)
		}
		return g.expr(expr.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *parser.CircleExpr:
		return g.shape(func(b *shapeBody) {
			b.bind("x", expr.X)
			b.bind("y", expr.Y)
			b.bind("size", expr.Size)
			b.bind("color", expr.Color)
			b.put("__pencilTransform(x, y);")
			b.put("__ctx.fillStyle = color;")
			b.put("__ctx.beginPath();")
			b.put("__ctx.arc(0, 0, size, 0, Math.PI * 2);")
			b.put("__ctx.fill();")
		})
	case *parser.RectExpr:
		// Rectangles are centered on the given point, not anchored at
		// the top-left corner.
		return g.shape(func(b *shapeBody) {
			b.bind("x", expr.X)
			b.bind("y", expr.Y)
			b.bind("w", expr.Width)
			b.bind("h", expr.Height)
			b.bind("color", expr.Color)
			b.put("__pencilTransform(x, y);")
			b.put("__ctx.fillStyle = color;")
			b.put("__ctx.fillRect(-w / 2, -h / 2, w, h);")
		})
	case *parser.LineExpr:
		return g.shape(func(b *shapeBody) {
			b.bind("x1", expr.X1)
			b.bind("y1", expr.Y1)
			b.bind("x2", expr.X2)
			b.bind("y2", expr.Y2)
			b.bind("color", expr.Color)
			b.put("__pencilTransform(x1, y1);")
			b.put("__ctx.strokeStyle = color;")
			b.put("__ctx.beginPath();")
			b.put("__ctx.moveTo(0, 0);")
			b.put("__ctx.lineTo(x2 - x1, y2 - y1);")
			b.put("__ctx.stroke();")
		})
	case *parser.TriangleExpr:
		return g.shape(func(b *shapeBody) {
			b.bind("x1", expr.X1)
			b.bind("y1", expr.Y1)
			b.bind("x2", expr.X2)
			b.bind("y2", expr.Y2)
			b.bind("x3", expr.X3)
			b.bind("y3", expr.Y3)
			b.bind("color", expr.Color)
			b.put("__pencilTransform(x1, y1);")
			b.put("__ctx.fillStyle = color;")
			b.put("__ctx.beginPath();")
			b.put("__ctx.moveTo(0, 0);")
			b.put("__ctx.lineTo(x2 - x1, y2 - y1);")
			b.put("__ctx.lineTo(x3 - x1, y3 - y1);")
			b.put("__ctx.closePath();")
			b.put("__ctx.fill();")
		})
	default:
		panic(fmt.Sprintf("codegen: unhandled expression %T", e))
	}
}

// shapeBody collects the lines of one shape invocation: bindings in
// declaration order, then the drawing calls.
type shapeBody struct {
	g     *Generator
	lines []string
}

func (b *shapeBody) bind(name string, e parser.Expr) {
	b.lines = append(b.lines, fmt.Sprintf("const %s = %s;", name, b.g.expr(e)))
}

func (b *shapeBody) put(line string) {
	b.lines = append(b.lines, line)
}

// shape wraps the body in a self-contained invocation that saves and
// restores the drawing surface state around it.
func (g *Generator) shape(fill func(*shapeBody)) string {
	body := &shapeBody{g: g}
	fill(body)

	pad := g.pad()
	var b strings.Builder
	b.WriteString("(function () {\n")
	fmt.Fprintf(&b, "%s  __ctx.save();\n", pad)
	for _, line := range body.lines {
		fmt.Fprintf(&b, "%s  %s\n", pad, line)
	}
	fmt.Fprintf(&b, "%s  __ctx.restore();\n", pad)
	fmt.Fprintf(&b, "%s})()", pad)
	return b.String()
}

func (g *Generator) block(stmts []parser.Stmt) {
	g.indent++
	for _, s := range stmts {
		g.stmt(s)
	}
	g.indent--
}

func (g *Generator) pad() string {
	return strings.Repeat("  ", g.indent)
}

func (g *Generator) line(format string, args ...interface{}) {
	g.buf.WriteString(g.pad())
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *Generator) write(s string) {
	g.buf.WriteString(s)
}
