package parser

import (
	"errors"
	"fmt"

	"sox/interpreter-go/pkg/ast"
)

// Parser builds a Program from a token stream via recursive descent.
// Statement-level errors are collected and the parser re-synchronizes at the
// next statement boundary, so one bad statement does not hide the rest.
type Parser struct {
	tokens  []Token
	current int
	errs    []error
}

// Parse scans and parses source text in one step.
func Parse(source string) (*ast.Program, error) {
	tokens, err := NewScanner(source).ScanTokens()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).ParseProgram()
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.errs = append(p.errs, err)
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}
	if len(p.errs) > 0 {
		return nil, joinErrors(p.errs)
	}
	return program, nil
}

//-----------------------------------------------------------------------------
// Declarations and statements
//-----------------------------------------------------------------------------

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(ClassKw):
		return p.classDeclaration()
	case p.check(Def) && p.checkNext(Identifier):
		p.advance()
		return p.functionDeclaration()
	case p.match(LetKw):
		return p.letDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	line := p.previous().Line
	name, err := p.consume(Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}
	var superclass *ast.VariableExpr
	if p.match(Less) {
		superName, err := p.consume(Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.VariableExpr{Name: superName.Lexeme, Line: superName.Line}
	}
	if _, err := p.consume(LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionLit
	for !p.check(RightBrace) && !p.atEnd() {
		methodName, err := p.consume(Identifier, "Expect method name.")
		if err != nil {
			return nil, err
		}
		method, err := p.functionBody(methodName.Lexeme, methodName.Line)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ast.ClassStmt{Name: name.Lexeme, Superclass: superclass, Methods: methods, Line: line}, nil
}

func (p *Parser) functionDeclaration() (ast.Stmt, error) {
	name, err := p.consume(Identifier, "Expect function name.")
	if err != nil {
		return nil, err
	}
	fn, err := p.functionBody(name.Lexeme, name.Line)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Name: name.Lexeme, Fn: fn, Line: name.Line}, nil
}

func (p *Parser) functionBody(name string, line int) (*ast.FunctionLit, error) {
	if _, err := p.consume(LeftParen, "Expect '(' after function name."); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(RightParen) {
		for {
			param, err := p.consume(Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(Comma) {
				break
			}
		}
	}
	if _, err := p.consume(RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(LeftBrace, "Expect '{' before function body."); err != nil {
		return nil, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLit{Name: name, Params: params, Body: body, Line: line}, nil
}

func (p *Parser) letDeclaration() (ast.Stmt, error) {
	name, err := p.consume(Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semi, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Name: name.Lexeme, Initializer: initializer, Line: name.Line}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(For):
		return p.forStatement()
	case p.match(If):
		return p.ifStatement()
	case p.match(PrintKw):
		return p.printStatement()
	case p.match(Return):
		return p.returnStatement()
	case p.match(While):
		return p.whileStatement()
	case p.match(LeftBrace):
		line := p.previous().Line
		stmts, err := p.blockStatements()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Statements: stmts, Line: line}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into a while loop.
func (p *Parser) forStatement() (ast.Stmt, error) {
	line := p.previous().Line
	if _, err := p.consume(LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}
	var initializer ast.Stmt
	var err error
	switch {
	case p.match(Semi):
		initializer = nil
	case p.match(LetKw):
		initializer, err = p.letDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(Semi) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semi, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(RightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if increment != nil {
		body = &ast.BlockStmt{
			Statements: []ast.Stmt{body, &ast.ExprStmt{Expression: increment, Line: increment.StartLine()}},
			Line:       line,
		}
	}
	if condition == nil {
		condition = &ast.BoolLit{Value: true, Line: line}
	}
	var loop ast.Stmt = &ast.WhileStmt{Condition: condition, Body: body, Line: line}
	if initializer != nil {
		loop = &ast.BlockStmt{Statements: []ast.Stmt{initializer, loop}, Line: line}
	}
	return loop, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	line := p.previous().Line
	if _, err := p.consume(LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch, Line: line}, nil
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	line := p.previous().Line
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semi, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Expression: value, Line: line}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(Semi) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semi, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Line: keyword.Line}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	line := p.previous().Line
	if _, err := p.consume(LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: condition, Body: body, Line: line}, nil
}

func (p *Parser) blockStatements() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(RightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semi, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expression: expr, Line: expr.StartLine()}, nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if p.match(Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value, Line: target.Line}, nil
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value, Line: target.Line}, nil
		default:
			return nil, p.errorAt(equals, "Invalid assignment target.")
		}
	}
	return expr, nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(Or) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: "or", Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: "and", Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, EqualEqual, BangEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, Less, LessEqual, Greater, GreaterEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, Plus, Minus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, Star, Slash, Rem)
}

func (p *Parser) binary(operand func() (ast.Expr, error), types ...TokenType) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(types...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op.Lexeme, Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(Bang, Minus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: op.Lexeme, Operand: operand, Line: op.Line}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(Dot):
			name, err := p.consume(Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.GetExpr{Object: expr, Name: name.Lexeme, Line: name.Line}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	paren := p.previous()
	var args []ast.Expr
	if !p.check(RightParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(Comma) {
				break
			}
		}
	}
	if _, err := p.consume(RightParen, "Expect ')' after arguments."); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Arguments: args, Line: paren.Line}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(False):
		return &ast.BoolLit{Value: false, Line: p.previous().Line}, nil
	case p.match(True):
		return &ast.BoolLit{Value: true, Line: p.previous().Line}, nil
	case p.match(NilKw):
		return &ast.NilLit{Line: p.previous().Line}, nil
	case p.match(Number):
		tok := p.previous()
		return &ast.NumberLit{Value: tok.Literal.(float64), Line: tok.Line}, nil
	case p.match(String):
		tok := p.previous()
		return &ast.StringLit{Value: tok.Literal.(string), Line: tok.Line}, nil
	case p.match(This):
		return &ast.ThisExpr{Line: p.previous().Line}, nil
	case p.match(Super):
		keyword := p.previous()
		if _, err := p.consume(Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.SuperExpr{Method: method.Lexeme, Line: keyword.Line}, nil
	case p.match(Def):
		// Anonymous function literal.
		return p.functionBody("", p.previous().Line)
	case p.match(Identifier):
		tok := p.previous()
		return &ast.VariableExpr{Name: tok.Lexeme, Line: tok.Line}, nil
	case p.match(LeftParen):
		line := p.previous().Line
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{Expression: expr, Line: line}, nil
	default:
		return nil, p.errorAt(p.peek(), "Expect expression.")
	}
}

//-----------------------------------------------------------------------------
// Token plumbing
//-----------------------------------------------------------------------------

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkNext(t TokenType) bool {
	if p.atEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == t
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) consume(t TokenType, message string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) errorAt(tok Token, message string) error {
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Type == EOF {
		where = "at end"
	}
	return fmt.Errorf("[line %d] Error %s: %s", tok.Line, where, message)
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == Semi {
			return
		}
		switch p.peek().Type {
		case ClassKw, Def, LetKw, For, If, While, PrintKw, Return:
			return
		}
		p.advance()
	}
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
