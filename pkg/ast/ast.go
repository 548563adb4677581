package ast

// Node is the shared behaviour of every AST node.
type Node interface {
	NodeType() string
	StartLine() int
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is the root produced by the parser: the ordered top-level statements.
type Program struct {
	Statements []Stmt
}

func (p *Program) NodeType() string { return "Program" }
func (p *Program) StartLine() int {
	if len(p.Statements) == 0 {
		return 0
	}
	return p.Statements[0].StartLine()
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// ExprStmt wraps an expression evaluated for its side effects.
type ExprStmt struct {
	Expression Expr
	Line       int
}

// PrintStmt writes the canonical string form of its value to the output sink.
type PrintStmt struct {
	Expression Expr
	Line       int
}

// LetStmt declares a variable in the current scope. A nil Initializer binds nil.
type LetStmt struct {
	Name        string
	Initializer Expr
	Line        int
}

// BlockStmt executes its statements in a fresh child scope.
type BlockStmt struct {
	Statements []Stmt
	Line       int
}

type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // nil when absent
	Line       int
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Line      int
}

// FunctionStmt declares a named function: sugar for binding a function
// literal to a name in the current scope.
type FunctionStmt struct {
	Name string
	Fn   *FunctionLit
	Line int
}

// ReturnStmt unwinds to the nearest enclosing call frame. A nil Value means nil.
type ReturnStmt struct {
	Value Expr
	Line  int
}

// ClassStmt declares a class with an optional superclass and its methods.
type ClassStmt struct {
	Name       string
	Superclass *VariableExpr // nil when the class has no superclass
	Methods    []*FunctionLit
	Line       int
}

func (s *ExprStmt) NodeType() string     { return "ExprStmt" }
func (s *PrintStmt) NodeType() string    { return "PrintStmt" }
func (s *LetStmt) NodeType() string      { return "LetStmt" }
func (s *BlockStmt) NodeType() string    { return "BlockStmt" }
func (s *IfStmt) NodeType() string       { return "IfStmt" }
func (s *WhileStmt) NodeType() string    { return "WhileStmt" }
func (s *FunctionStmt) NodeType() string { return "FunctionStmt" }
func (s *ReturnStmt) NodeType() string   { return "ReturnStmt" }
func (s *ClassStmt) NodeType() string    { return "ClassStmt" }

func (s *ExprStmt) StartLine() int     { return s.Line }
func (s *PrintStmt) StartLine() int    { return s.Line }
func (s *LetStmt) StartLine() int      { return s.Line }
func (s *BlockStmt) StartLine() int    { return s.Line }
func (s *IfStmt) StartLine() int       { return s.Line }
func (s *WhileStmt) StartLine() int    { return s.Line }
func (s *FunctionStmt) StartLine() int { return s.Line }
func (s *ReturnStmt) StartLine() int   { return s.Line }
func (s *ClassStmt) StartLine() int    { return s.Line }

func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*LetStmt) stmtNode()      {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*ClassStmt) stmtNode()    {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type NilLit struct {
	Line int
}

type BoolLit struct {
	Value bool
	Line  int
}

type NumberLit struct {
	Value float64
	Line  int
}

type StringLit struct {
	Value string
	Line  int
}

type VariableExpr struct {
	Name string
	Line int
}

// AssignExpr mutates an existing binding; it never creates one.
type AssignExpr struct {
	Name  string
	Value Expr
	Line  int
}

type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
	Line     int
}

type UnaryExpr struct {
	Operator string
	Operand  Expr
	Line     int
}

// LogicalExpr short-circuits and yields the deciding operand, not a bool.
type LogicalExpr struct {
	Left     Expr
	Operator string // "and" or "or"
	Right    Expr
	Line     int
}

type CallExpr struct {
	Callee    Expr
	Arguments []Expr
	Line      int
}

// GetExpr reads a property: field first, then bound method.
type GetExpr struct {
	Object Expr
	Name   string
	Line   int
}

// SetExpr writes an instance field, shadowing any method of the same name.
type SetExpr struct {
	Object Expr
	Name   string
	Value  Expr
	Line   int
}

type ThisExpr struct {
	Line int
}

// SuperExpr accesses a method starting the lookup at the superclass.
type SuperExpr struct {
	Method string
	Line   int
}

type GroupingExpr struct {
	Expression Expr
	Line       int
}

// FunctionLit is a function literal. Name is empty for anonymous functions
// and carries the declared name for `def` declarations and class methods.
type FunctionLit struct {
	Name   string
	Params []string
	Body   []Stmt
	Line   int
}

func (e *NilLit) NodeType() string       { return "NilLit" }
func (e *BoolLit) NodeType() string      { return "BoolLit" }
func (e *NumberLit) NodeType() string    { return "NumberLit" }
func (e *StringLit) NodeType() string    { return "StringLit" }
func (e *VariableExpr) NodeType() string { return "VariableExpr" }
func (e *AssignExpr) NodeType() string   { return "AssignExpr" }
func (e *BinaryExpr) NodeType() string   { return "BinaryExpr" }
func (e *UnaryExpr) NodeType() string    { return "UnaryExpr" }
func (e *LogicalExpr) NodeType() string  { return "LogicalExpr" }
func (e *CallExpr) NodeType() string     { return "CallExpr" }
func (e *GetExpr) NodeType() string      { return "GetExpr" }
func (e *SetExpr) NodeType() string      { return "SetExpr" }
func (e *ThisExpr) NodeType() string     { return "ThisExpr" }
func (e *SuperExpr) NodeType() string    { return "SuperExpr" }
func (e *GroupingExpr) NodeType() string { return "GroupingExpr" }
func (e *FunctionLit) NodeType() string  { return "FunctionLit" }

func (e *NilLit) StartLine() int       { return e.Line }
func (e *BoolLit) StartLine() int      { return e.Line }
func (e *NumberLit) StartLine() int    { return e.Line }
func (e *StringLit) StartLine() int    { return e.Line }
func (e *VariableExpr) StartLine() int { return e.Line }
func (e *AssignExpr) StartLine() int   { return e.Line }
func (e *BinaryExpr) StartLine() int   { return e.Line }
func (e *UnaryExpr) StartLine() int    { return e.Line }
func (e *LogicalExpr) StartLine() int  { return e.Line }
func (e *CallExpr) StartLine() int     { return e.Line }
func (e *GetExpr) StartLine() int      { return e.Line }
func (e *SetExpr) StartLine() int      { return e.Line }
func (e *ThisExpr) StartLine() int     { return e.Line }
func (e *SuperExpr) StartLine() int    { return e.Line }
func (e *GroupingExpr) StartLine() int { return e.Line }
func (e *FunctionLit) StartLine() int  { return e.Line }

func (*NilLit) exprNode()       {}
func (*BoolLit) exprNode()      {}
func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*LogicalExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}
func (*FunctionLit) exprNode()  {}
