// Package resolver performs the static semantic checks that must run before
// evaluation: placement of `return`, `this`, and `super`, initializer return
// values, self-inheritance, and local-variable declaration hygiene. Variable
// lookup itself stays dynamic in the evaluator's scope chain; the resolver
// only validates.
package resolver

import (
	"errors"
	"fmt"

	"sox/interpreter-go/pkg/ast"
)

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// Resolver walks the AST once, tracking the lexical scope stack.
type Resolver struct {
	// Each scope maps a declared name to whether its initializer has finished.
	scopes          []map[string]bool
	currentFunction functionKind
	currentClass    classKind
	errs            []error
}

func New() *Resolver {
	return &Resolver{}
}

// Resolve validates a whole program, collecting every diagnostic.
func (r *Resolver) Resolve(program *ast.Program) error {
	for _, stmt := range program.Statements {
		r.resolveStmt(stmt)
	}
	if len(r.errs) > 0 {
		return errors.Join(r.errs...)
	}
	return nil
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)
	case *ast.LetStmt:
		r.declare(s.Name, s.Line)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.BlockStmt:
		r.beginScope()
		for _, inner := range s.Statements {
			r.resolveStmt(inner)
		}
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.FunctionStmt:
		r.declare(s.Name, s.Line)
		r.define(s.Name)
		r.resolveFunction(s.Fn, functionPlain)
	case *ast.ReturnStmt:
		if r.currentFunction == functionNone {
			r.errorAt(s.Line, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.errorAt(s.Line, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(s)
	default:
		r.errorAt(stmt.StartLine(), fmt.Sprintf("Unsupported statement %s.", stmt.NodeType()))
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) {
	enclosing := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosing }()

	r.declare(s.Name, s.Line)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name == s.Name {
			r.errorAt(s.Superclass.Line, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)
	}

	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionLit, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param, fn.Line)
		r.define(param)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.NilLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit:
		// literals carry no names
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name]; ok && !defined {
				r.errorAt(e.Line, "Can't read local variable in its own initializer.")
			}
		}
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Operand)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)
	case *ast.ThisExpr:
		if r.currentClass == classNone {
			r.errorAt(e.Line, "Can't use 'this' outside of a class.")
		}
	case *ast.SuperExpr:
		switch r.currentClass {
		case classNone:
			r.errorAt(e.Line, "Can't use 'super' outside of a class.")
		case classPlain:
			r.errorAt(e.Line, "Can't use 'super' in a class with no superclass.")
		}
	case *ast.GroupingExpr:
		r.resolveExpr(e.Expression)
	case *ast.FunctionLit:
		r.resolveFunction(e, functionPlain)
	default:
		r.errorAt(expr.StartLine(), fmt.Sprintf("Unsupported expression %s.", expr.NodeType()))
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return // global scope allows redeclaration
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.errorAt(line, "Already a variable with this name in this scope.")
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) errorAt(line int, message string) {
	r.errs = append(r.errs, fmt.Errorf("[line %d] Error: %s", line, message))
}
