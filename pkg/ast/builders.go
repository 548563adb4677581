package ast

// Builder helpers keep AST construction in tests readable. They mirror the
// parser's output shapes; production code should go through the parser.

func Prog(stmts ...Stmt) *Program {
	return &Program{Statements: stmts}
}

func ID(name string) *VariableExpr {
	return &VariableExpr{Name: name}
}

func Num(v float64) *NumberLit {
	return &NumberLit{Value: v}
}

func Str(v string) *StringLit {
	return &StringLit{Value: v}
}

func Bool(v bool) *BoolLit {
	return &BoolLit{Value: v}
}

func Nil() *NilLit {
	return &NilLit{}
}

func Let(name string, init Expr) *LetStmt {
	return &LetStmt{Name: name, Initializer: init}
}

func Assign(name string, value Expr) *AssignExpr {
	return &AssignExpr{Name: name, Value: value}
}

func Bin(left Expr, op string, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: op, Right: right}
}

func Logic(left Expr, op string, right Expr) *LogicalExpr {
	return &LogicalExpr{Left: left, Operator: op, Right: right}
}

func Call(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Arguments: args}
}

func Get(object Expr, name string) *GetExpr {
	return &GetExpr{Object: object, Name: name}
}

func Set(object Expr, name string, value Expr) *SetExpr {
	return &SetExpr{Object: object, Name: name, Value: value}
}

func Block(stmts ...Stmt) *BlockStmt {
	return &BlockStmt{Statements: stmts}
}

func ExprS(expr Expr) *ExprStmt {
	return &ExprStmt{Expression: expr}
}

func Print(expr Expr) *PrintStmt {
	return &PrintStmt{Expression: expr}
}

func Ret(value Expr) *ReturnStmt {
	return &ReturnStmt{Value: value}
}

func Fn(name string, params []string, body ...Stmt) *FunctionLit {
	return &FunctionLit{Name: name, Params: params, Body: body}
}

func FnStmt(name string, params []string, body ...Stmt) *FunctionStmt {
	return &FunctionStmt{Name: name, Fn: Fn(name, params, body...)}
}

func Class(name string, superclass *VariableExpr, methods ...*FunctionLit) *ClassStmt {
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}
