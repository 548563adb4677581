package interpreter

import (
	"fmt"
	"math"

	"sox/interpreter-go/pkg/ast"
	"sox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NilLit:
		return runtime.NilValue{}, nil
	case *ast.BoolLit:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NumberLit:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLit:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.VariableExpr:
		value, err := env.Get(n.Name)
		if err != nil {
			return nil, at(err, n.Line)
		}
		return value, nil
	case *ast.AssignExpr:
		return i.evaluateAssign(n, env)
	case *ast.GroupingExpr:
		return i.evaluateExpression(n.Expression, env)
	case *ast.UnaryExpr:
		return i.evaluateUnary(n, env)
	case *ast.BinaryExpr:
		return i.evaluateBinary(n, env)
	case *ast.LogicalExpr:
		return i.evaluateLogical(n, env)
	case *ast.CallExpr:
		return i.evaluateCall(n, env)
	case *ast.GetExpr:
		return i.evaluateGet(n, env)
	case *ast.SetExpr:
		return i.evaluateSet(n, env)
	case *ast.ThisExpr:
		value, err := env.Get("this")
		if err != nil {
			return nil, at(err, n.Line)
		}
		return value, nil
	case *ast.SuperExpr:
		return i.evaluateSuper(n, env)
	case *ast.FunctionLit:
		return &runtime.FunctionValue{Decl: n, Closure: env}, nil
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateAssign(n *ast.AssignExpr, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(n.Name, value); err != nil {
		return nil, at(err, n.Line)
	}
	return value, nil
}

func (i *Interpreter) evaluateUnary(n *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-":
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.Errorf(runtime.TypeError, "Operand must be a number.").At(n.Line)
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case "!":
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator: %s", n.Operator)
	}
}

func (i *Interpreter) evaluateBinary(n *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "==":
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	case "+":
		if ln, lok := left.(runtime.NumberValue); lok {
			if rn, rok := right.(runtime.NumberValue); rok {
				return runtime.NumberValue{Val: ln.Val + rn.Val}, nil
			}
		}
		if ls, lok := left.(runtime.StringValue); lok {
			if rs, rok := right.(runtime.StringValue); rok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		return nil, runtime.Errorf(runtime.TypeError, "Operands must be two numbers or two strings.").At(n.Line)
	}

	ln, lok := left.(runtime.NumberValue)
	rn, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtime.Errorf(runtime.TypeError, "Operands must be numbers.").At(n.Line)
	}

	switch n.Operator {
	case "-":
		return runtime.NumberValue{Val: ln.Val - rn.Val}, nil
	case "*":
		return runtime.NumberValue{Val: ln.Val * rn.Val}, nil
	case "/":
		return runtime.NumberValue{Val: ln.Val / rn.Val}, nil
	case "%":
		return runtime.NumberValue{Val: math.Mod(ln.Val, rn.Val)}, nil
	case ">":
		return runtime.BoolValue{Val: ln.Val > rn.Val}, nil
	case ">=":
		return runtime.BoolValue{Val: ln.Val >= rn.Val}, nil
	case "<":
		return runtime.BoolValue{Val: ln.Val < rn.Val}, nil
	case "<=":
		return runtime.BoolValue{Val: ln.Val <= rn.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator: %s", n.Operator)
	}
}

// evaluateLogical short-circuits and yields the deciding operand value.
func (i *Interpreter) evaluateLogical(n *ast.LogicalExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	if n.Operator == "or" {
		if runtime.Truthy(left) {
			return left, nil
		}
	} else if !runtime.Truthy(left) {
		return left, nil
	}
	return i.evaluateExpression(n.Right, env)
}

func (i *Interpreter) evaluateCall(n *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	switch c := callee.(type) {
	case *runtime.NativeFunctionValue:
		if len(args) != c.Arity {
			return nil, runtime.Errorf(runtime.ArityMismatch, "Expected %d arguments but got %d.", c.Arity, len(args)).At(n.Line)
		}
		result, err := c.Impl(args)
		if err != nil {
			return nil, at(err, n.Line)
		}
		return result, nil
	case *runtime.FunctionValue:
		return i.callFunction(c, nil, args, n.Line)
	case *runtime.BoundMethodValue:
		return i.callFunction(c.Method, c.Receiver, args, n.Line)
	case *runtime.ClassValue:
		return i.instantiate(c, args, n.Line)
	default:
		return nil, runtime.Errorf(runtime.TypeError, "Can only call functions and classes.").At(n.Line)
	}
}

func (i *Interpreter) evaluateGet(n *ast.GetExpr, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "Only instances have properties.").At(n.Line)
	}
	value, found := instance.Get(n.Name)
	if !found {
		return nil, runtime.Errorf(runtime.UndefinedProperty, "Undefined property '%s'.", n.Name).At(n.Line)
	}
	return value, nil
}

func (i *Interpreter) evaluateSet(n *ast.SetExpr, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "Only instances have fields.").At(n.Line)
	}
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(n.Name, value)
	return value, nil
}

// evaluateSuper starts method lookup at the superclass recorded in the method
// closure while binding the method to the current receiver.
func (i *Interpreter) evaluateSuper(n *ast.SuperExpr, env *runtime.Environment) (runtime.Value, error) {
	superVal, err := env.Get("super")
	if err != nil {
		return nil, at(err, n.Line)
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "Superclass must be a class.").At(n.Line)
	}
	thisVal, err := env.Get("this")
	if err != nil {
		return nil, at(err, n.Line)
	}
	receiver, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "Only instances have properties.").At(n.Line)
	}
	method := superclass.FindMethod(n.Method)
	if method == nil {
		return nil, runtime.Errorf(runtime.UndefinedProperty, "Undefined property '%s'.", n.Method).At(n.Line)
	}
	return &runtime.BoundMethodValue{Receiver: receiver, Method: method}, nil
}
