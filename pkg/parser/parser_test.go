package parser

import (
	"strings"
	"testing"

	"sox/interpreter-go/pkg/ast"
)

func parseOne(t *testing.T, source string) ast.Stmt {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	return program.Statements[0]
}

func parseExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	stmt, ok := parseOne(t, source+";").(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement")
	}
	return stmt.Expression
}

func TestPrecedenceArithmetic(t *testing.T) {
	expr := parseExpr(t, `1 + 2 * 3`)
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("root = %#v, want '+'", expr)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Operator != "*" {
		t.Errorf("right = %#v, want '*' nested under '+'", bin.Right)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	expr := parseExpr(t, `(1 + 2) * 3`)
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Operator != "*" {
		t.Fatalf("root = %#v, want '*'", expr)
	}
	if _, ok := bin.Left.(*ast.GroupingExpr); !ok {
		t.Errorf("left = %#v, want grouping", bin.Left)
	}
}

func TestLogicalOperatorShapes(t *testing.T) {
	expr := parseExpr(t, `a or b and c`)
	or, ok := expr.(*ast.LogicalExpr)
	if !ok || or.Operator != "or" {
		t.Fatalf("root = %#v, want 'or'", expr)
	}
	and, ok := or.Right.(*ast.LogicalExpr)
	if !ok || and.Operator != "and" {
		t.Errorf("right = %#v, want 'and' binding tighter", or.Right)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr := parseExpr(t, `a = b = 1`)
	outer, ok := expr.(*ast.AssignExpr)
	if !ok || outer.Name != "a" {
		t.Fatalf("root = %#v, want assignment to a", expr)
	}
	inner, ok := outer.Value.(*ast.AssignExpr)
	if !ok || inner.Name != "b" {
		t.Errorf("value = %#v, want nested assignment to b", outer.Value)
	}
}

func TestPropertyAssignmentBecomesSet(t *testing.T) {
	expr := parseExpr(t, `obj.field = 1`)
	set, ok := expr.(*ast.SetExpr)
	if !ok || set.Name != "field" {
		t.Fatalf("got %#v, want SetExpr on 'field'", expr)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, err := Parse(`1 = 2;`)
	if err == nil || !strings.Contains(err.Error(), "Invalid assignment target.") {
		t.Fatalf("expected invalid target error, got %v", err)
	}
}

func TestChainedCallsAndGets(t *testing.T) {
	expr := parseExpr(t, `a.b(1).c`)
	get, ok := expr.(*ast.GetExpr)
	if !ok || get.Name != "c" {
		t.Fatalf("root = %#v, want get of 'c'", expr)
	}
	call, ok := get.Object.(*ast.CallExpr)
	if !ok || len(call.Arguments) != 1 {
		t.Fatalf("object = %#v, want one-arg call", get.Object)
	}
	if inner, ok := call.Callee.(*ast.GetExpr); !ok || inner.Name != "b" {
		t.Errorf("callee = %#v, want get of 'b'", call.Callee)
	}
}

func TestLetDeclaration(t *testing.T) {
	stmt := parseOne(t, `let answer = 42;`)
	let, ok := stmt.(*ast.LetStmt)
	if !ok || let.Name != "answer" {
		t.Fatalf("got %#v, want let of 'answer'", stmt)
	}
	if num, ok := let.Initializer.(*ast.NumberLit); !ok || num.Value != 42 {
		t.Errorf("initializer = %#v, want 42", let.Initializer)
	}
}

func TestLetWithoutInitializer(t *testing.T) {
	let := parseOne(t, `let empty;`).(*ast.LetStmt)
	if let.Initializer != nil {
		t.Errorf("initializer = %#v, want nil", let.Initializer)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	stmt := parseOne(t, `def add(a, b) { return a + b; }`)
	fn, ok := stmt.(*ast.FunctionStmt)
	if !ok || fn.Name != "add" {
		t.Fatalf("got %#v, want function 'add'", stmt)
	}
	if len(fn.Fn.Params) != 2 || fn.Fn.Params[0] != "a" || fn.Fn.Params[1] != "b" {
		t.Errorf("params = %v", fn.Fn.Params)
	}
	if len(fn.Fn.Body) != 1 {
		t.Errorf("body has %d statements, want 1", len(fn.Fn.Body))
	}
}

func TestAnonymousFunctionExpression(t *testing.T) {
	let := parseOne(t, `let f = def(x) { return x; };`).(*ast.LetStmt)
	lit, ok := let.Initializer.(*ast.FunctionLit)
	if !ok {
		t.Fatalf("initializer = %#v, want function literal", let.Initializer)
	}
	if lit.Name != "" || len(lit.Params) != 1 {
		t.Errorf("literal = %+v, want anonymous one-param function", lit)
	}
}

func TestClassDeclaration(t *testing.T) {
	stmt := parseOne(t, `
class Greeter < Base {
  init(name) { this.name = name; }
  greet() { return this.name; }
}`)
	class, ok := stmt.(*ast.ClassStmt)
	if !ok || class.Name != "Greeter" {
		t.Fatalf("got %#v, want class 'Greeter'", stmt)
	}
	if class.Superclass == nil || class.Superclass.Name != "Base" {
		t.Errorf("superclass = %#v, want 'Base'", class.Superclass)
	}
	if len(class.Methods) != 2 || class.Methods[0].Name != "init" || class.Methods[1].Name != "greet" {
		t.Errorf("methods = %#v", class.Methods)
	}
}

func TestSuperExpression(t *testing.T) {
	stmt := parseOne(t, `
class B < A {
  m() { return super.m(); }
}`)
	class := stmt.(*ast.ClassStmt)
	ret := class.Methods[0].Body[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.CallExpr)
	super, ok := call.Callee.(*ast.SuperExpr)
	if !ok || super.Method != "m" {
		t.Errorf("callee = %#v, want super.m", call.Callee)
	}
}

func TestForLoopDesugarsToWhile(t *testing.T) {
	stmt := parseOne(t, `for (let i = 0; i < 3; i = i + 1) print i;`)
	block, ok := stmt.(*ast.BlockStmt)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("got %#v, want block {init, while}", stmt)
	}
	if _, ok := block.Statements[0].(*ast.LetStmt); !ok {
		t.Errorf("first statement = %#v, want initializer", block.Statements[0])
	}
	loop, ok := block.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second statement = %#v, want while", block.Statements[1])
	}
	body, ok := loop.Body.(*ast.BlockStmt)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("loop body = %#v, want {body, increment}", loop.Body)
	}
}

func TestInfiniteForLoop(t *testing.T) {
	loop, ok := parseOne(t, `for (;;) print 1;`).(*ast.WhileStmt)
	if !ok {
		t.Fatalf("want bare while loop")
	}
	cond, ok := loop.Condition.(*ast.BoolLit)
	if !ok || !cond.Value {
		t.Errorf("condition = %#v, want true literal", loop.Condition)
	}
}

func TestIfElse(t *testing.T) {
	stmt := parseOne(t, `if (cond) print 1; else print 2;`)
	ifStmt, ok := stmt.(*ast.IfStmt)
	if !ok || ifStmt.ElseBranch == nil {
		t.Fatalf("got %#v, want if with else", stmt)
	}
}

func TestDanglingElseBindsToNearestIf(t *testing.T) {
	stmt := parseOne(t, `if (a) if (b) print 1; else print 2;`)
	outer := stmt.(*ast.IfStmt)
	if outer.ElseBranch != nil {
		t.Fatal("else should bind to the inner if")
	}
	inner := outer.ThenBranch.(*ast.IfStmt)
	if inner.ElseBranch == nil {
		t.Error("inner if should own the else branch")
	}
}

func TestErrorMessagesCarryPosition(t *testing.T) {
	_, err := Parse("let a = 1;\nlet = 2;")
	if err == nil || !strings.Contains(err.Error(), "[line 2] Error at '=': Expect variable name.") {
		t.Fatalf("error = %v", err)
	}
}

func TestErrorAtEndOfInput(t *testing.T) {
	_, err := Parse(`print 1 +`)
	if err == nil || !strings.Contains(err.Error(), "at end") {
		t.Fatalf("error = %v", err)
	}
}

func TestParserRecoversAndReportsMultipleErrors(t *testing.T) {
	_, err := Parse("let = 1;\nprint ;\n")
	if err == nil {
		t.Fatal("expected parse errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Expect variable name.") || !strings.Contains(msg, "Expect expression.") {
		t.Errorf("expected both diagnostics, got %q", msg)
	}
}

func TestReturnWithoutValue(t *testing.T) {
	stmt := parseOne(t, `def f() { return; }`).(*ast.FunctionStmt)
	ret := stmt.Fn.Body[0].(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Errorf("return value = %#v, want nil", ret.Value)
	}
}

func TestLineNumbersOnStatements(t *testing.T) {
	program, err := Parse("let a = 1;\n\nprint a;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := program.Statements[0].StartLine(); got != 1 {
		t.Errorf("first statement line = %d, want 1", got)
	}
	if got := program.Statements[1].StartLine(); got != 3 {
		t.Errorf("second statement line = %d, want 3", got)
	}
}
