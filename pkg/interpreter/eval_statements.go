package interpreter

import (
	"fmt"

	"sox/interpreter-go/pkg/ast"
	"sox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Stmt, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.ExprStmt:
		return i.evaluateExpression(n.Expression, env)
	case *ast.PrintStmt:
		return i.evaluatePrintStatement(n, env)
	case *ast.LetStmt:
		return i.evaluateLetStatement(n, env)
	case *ast.BlockStmt:
		return i.executeBlock(n.Statements, env.Extend())
	case *ast.IfStmt:
		return i.evaluateIfStatement(n, env)
	case *ast.WhileStmt:
		return i.evaluateWhileStatement(n, env)
	case *ast.FunctionStmt:
		env.Define(n.Name, &runtime.FunctionValue{Decl: n.Fn, Closure: env})
		return runtime.NilValue{}, nil
	case *ast.ReturnStmt:
		return i.evaluateReturnStatement(n, env)
	case *ast.ClassStmt:
		return i.evaluateClassStatement(n, env)
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, scope *runtime.Environment) (runtime.Value, error) {
	for _, stmt := range stmts {
		if _, err := i.evaluateStatement(stmt, scope); err != nil {
			return nil, err
		}
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evaluatePrintStatement(n *ast.PrintStmt, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(n.Expression, env)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(i.stdout, runtime.ToString(value))
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evaluateLetStatement(n *ast.LetStmt, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.NilValue{}
	if n.Initializer != nil {
		var err error
		value, err = i.evaluateExpression(n.Initializer, env)
		if err != nil {
			return nil, err
		}
	}
	env.Define(n.Name, value)
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evaluateIfStatement(n *ast.IfStmt, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(n.Condition, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evaluateStatement(n.ThenBranch, env)
	}
	if n.ElseBranch != nil {
		return i.evaluateStatement(n.ElseBranch, env)
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evaluateWhileStatement(n *ast.WhileStmt, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NilValue{}, nil
		}
		if _, err := i.evaluateStatement(n.Body, env); err != nil {
			return nil, err
		}
	}
}

func (i *Interpreter) evaluateReturnStatement(n *ast.ReturnStmt, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.NilValue{}
	if n.Value != nil {
		var err error
		value, err = i.evaluateExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
	}
	return nil, returnSignal{value: value}
}

// evaluateClassStatement builds the class value eagerly: methods close over an
// environment that carries `super` when a superclass exists, so super lookups
// resolve through the ordinary scope chain.
func (i *Interpreter) evaluateClassStatement(n *ast.ClassStmt, env *runtime.Environment) (runtime.Value, error) {
	var superclass *runtime.ClassValue
	if n.Superclass != nil {
		superVal, err := i.evaluateExpression(n.Superclass, env)
		if err != nil {
			return nil, err
		}
		sc, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return nil, runtime.Errorf(runtime.TypeError, "Superclass must be a class.").At(n.Superclass.Line)
		}
		superclass = sc
	}

	env.Define(n.Name, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = env.Extend()
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name] = &runtime.FunctionValue{
			Decl:          m,
			Closure:       methodEnv,
			IsInitializer: m.Name == "init",
		}
	}

	class := &runtime.ClassValue{Name: n.Name, Superclass: superclass, Methods: methods}
	if err := env.Assign(n.Name, class); err != nil {
		return nil, at(err, n.Line)
	}
	return runtime.NilValue{}, nil
}
