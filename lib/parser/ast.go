package parser

// Node is any element of the syntax tree. Positions are 1-based and point at
// the first token of the construct.
type Node interface {
	Pos() (line, column int)
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type base struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (b base) Pos() (int, int) { return b.Line, b.Column }

// Program is the root of every parse, valid or not.
type Program struct {
	Statements []Stmt `json:"statements"`
}

type LetStmt struct {
	base
	Name  string `json:"name"`
	Value Expr   `json:"value"`
}

type FnStmt struct {
	base
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   []Stmt   `json:"body"`
}

type ReturnStmt struct {
	base
	Value Expr `json:"value,omitempty"`
}

type IfStmt struct {
	base
	Cond Expr   `json:"cond"`
	Then []Stmt `json:"then"`
	Else []Stmt `json:"else,omitempty"`
}

type RepeatStmt struct {
	base
	Count Expr   `json:"count"`
	Body  []Stmt `json:"body"`
}

type AnimateStmt struct {
	base
	Commands []AnimCmd `json:"commands"`
}

type SceneStmt struct {
	base
	Body []Stmt `json:"body"`
}

type ExprStmt struct {
	base
	Value Expr `json:"value"`
}

func (*LetStmt) stmtNode()     {}
func (*FnStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()  {}
func (*IfStmt) stmtNode()      {}
func (*RepeatStmt) stmtNode()  {}
func (*AnimateStmt) stmtNode() {}
func (*SceneStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}

type IdentExpr struct {
	base
	Name string `json:"name"`
}

type NumberLit struct {
	base
	Text string `json:"text"`
}

type StringLit struct {
	base
	Value string `json:"value"`
}

type ColorLit struct {
	base
	Value string `json:"value"`
}

type BinaryExpr struct {
	base
	Op    string `json:"op"`
	Left  Expr   `json:"left"`
	Right Expr   `json:"right"`
}

type CallExpr struct {
	base
	Callee Expr   `json:"callee"`
	Args   []Expr `json:"args"`
}

type CircleExpr struct {
	base
	X     Expr `json:"x"`
	Y     Expr `json:"y"`
	Size  Expr `json:"size"`
	Color Expr `json:"color"`
}

type RectExpr struct {
	base
	X      Expr `json:"x"`
	Y      Expr `json:"y"`
	Width  Expr `json:"width"`
	Height Expr `json:"height"`
	Color  Expr `json:"color"`
}

type LineExpr struct {
	base
	X1    Expr `json:"x1"`
	Y1    Expr `json:"y1"`
	X2    Expr `json:"x2"`
	Y2    Expr `json:"y2"`
	Color Expr `json:"color"`
}

type TriangleExpr struct {
	base
	X1    Expr `json:"x1"`
	Y1    Expr `json:"y1"`
	X2    Expr `json:"x2"`
	Y2    Expr `json:"y2"`
	X3    Expr `json:"x3"`
	Y3    Expr `json:"y3"`
	Color Expr `json:"color"`
}

func (*IdentExpr) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*ColorLit) exprNode()     {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*CircleExpr) exprNode()   {}
func (*RectExpr) exprNode()     {}
func (*LineExpr) exprNode()     {}
func (*TriangleExpr) exprNode() {}

// Axis and Sign describe how a move command shifts the transform origin.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

type Sign int

const (
	SignAdd Sign = iota
	SignSub
)

// AnimCmd is one instruction inside an animate block.
type AnimCmd interface {
	Node
	animCmd()
}

type MoveCmd struct {
	base
	Axis   Axis `json:"axis"`
	Sign   Sign `json:"sign"`
	Amount Expr `json:"amount"`
}

type RotateCmd struct {
	base
	Amount Expr `json:"amount"`
}

type ScaleCmd struct {
	base
	Amount Expr `json:"amount"`
}

type FadeCmd struct {
	base
	Amount Expr `json:"amount"`
}

func (*MoveCmd) animCmd()   {}
func (*RotateCmd) animCmd() {}
func (*ScaleCmd) animCmd()  {}
func (*FadeCmd) animCmd()   {}
