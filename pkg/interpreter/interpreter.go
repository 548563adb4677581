// Package interpreter evaluates Sox programs by walking the AST. Evaluation is
// single-threaded; one Interpreter owns its global environment and output sink
// and must not be shared across goroutines.
package interpreter

import (
	"errors"
	"io"
	"os"
	"time"

	"sox/interpreter-go/pkg/ast"
	"sox/interpreter-go/pkg/runtime"
)

// maxCallDepth bounds interpreter recursion so runaway Sox recursion surfaces
// as a reportable error instead of exhausting the host stack.
const maxCallDepth = 2048

// Interpreter drives evaluation of Sox AST nodes.
type Interpreter struct {
	global *runtime.Environment
	stdout io.Writer
	depth  int
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithStdout redirects `print` output, primarily for tests and the REPL.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// New returns an interpreter with the builtin functions installed in a fresh
// global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.registerBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes a program's statements in order against the global
// environment. The first runtime error aborts execution.
func (i *Interpreter) Interpret(program *ast.Program) error {
	_, err := i.Evaluate(program)
	return err
}

// Evaluate runs a program and returns the value of its last statement, which
// lets the REPL echo expression results.
func (i *Interpreter) Evaluate(program *ast.Program) (runtime.Value, error) {
	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range program.Statements {
		value, err := i.evaluateStatement(stmt, i.global)
		if err != nil {
			return nil, err
		}
		last = value
	}
	return last, nil
}

func (i *Interpreter) registerBuiltins() {
	i.global.Define("clock", &runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(time.Now().UnixNano()) / 1e9}, nil
		},
	})
}

// returnSignal unwinds statement evaluation back to the active call frame. It
// travels the error channel but is control flow, not a runtime error.
type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return outside of a function" }

// callFunction runs a user function body in a child scope of its closure.
// receiver is non-nil for method calls and becomes the frame's `this`.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, receiver *runtime.InstanceValue, args []runtime.Value, line int) (runtime.Value, error) {
	if len(args) != fn.Arity() {
		return nil, runtime.Errorf(runtime.ArityMismatch, "Expected %d arguments but got %d.", fn.Arity(), len(args)).At(line)
	}
	if i.depth >= maxCallDepth {
		return nil, runtime.Errorf(runtime.StackOverflow, "Stack overflow.").At(line)
	}
	i.depth++
	defer func() { i.depth-- }()

	frame := fn.Closure.Extend()
	if receiver != nil {
		frame.Define("this", receiver)
	}
	for idx, param := range fn.Decl.Params {
		frame.Define(param, args[idx])
	}

	for _, stmt := range fn.Decl.Body {
		if _, err := i.evaluateStatement(stmt, frame); err != nil {
			var ret returnSignal
			if errors.As(err, &ret) {
				if fn.IsInitializer {
					return receiver, nil
				}
				return ret.value, nil
			}
			return nil, err
		}
	}
	if fn.IsInitializer {
		return receiver, nil
	}
	return runtime.NilValue{}, nil
}

// instantiate allocates an instance and runs init when the class declares one.
// The constructor call always yields the instance.
func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value, line int) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if init := class.FindMethod("init"); init != nil {
		if _, err := i.callFunction(init, instance, args, line); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, runtime.Errorf(runtime.ArityMismatch, "Expected 0 arguments but got %d.", len(args)).At(line)
	}
	return instance, nil
}

// at stamps a source line onto a runtime error that does not carry one yet.
func at(err error, line int) error {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		rtErr.At(line)
	}
	return err
}
