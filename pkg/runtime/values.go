package runtime

import (
	"fmt"
	"strconv"

	"sox/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindBoundMethod
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindBoundMethod:
		return "bound_method"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue closes over the environment active at its definition site.
// IsInitializer marks class `init` methods, whose calls always yield the
// receiver no matter what the body returns.
type FunctionValue struct {
	Decl          *ast.FunctionLit
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Decl.Params) }

func (v *FunctionValue) Name() string {
	if v.Decl.Name == "" {
		return "<anonymous>"
	}
	return v.Decl.Name
}

type NativeFunc func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// BoundMethodValue pairs a method with a fixed receiver. A fresh one is
// created at every property lookup.
type BoundMethodValue struct {
	Receiver *InstanceValue
	Method   *FunctionValue
}

func (v *BoundMethodValue) Kind() Kind { return KindBoundMethod }

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

// ClassValue holds the method table and the optional superclass link.
// Methods are stored unbound; binding happens at lookup on an instance.
type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod walks the superclass chain for a method of the given name.
func (v *ClassValue) FindMethod(name string) *FunctionValue {
	if method, ok := v.Methods[name]; ok {
		return method
	}
	if v.Superclass != nil {
		return v.Superclass.FindMethod(name)
	}
	return nil
}

// Arity of the constructor call: the init method's arity, or zero.
func (v *ClassValue) Arity() int {
	if init := v.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// InstanceValue carries a mutable field table and its originating class.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Get resolves a property read: fields shadow methods, and a found method is
// returned freshly bound to this instance.
func (v *InstanceValue) Get(name string) (Value, bool) {
	if field, ok := v.Fields[name]; ok {
		return field, true
	}
	if method := v.Class.FindMethod(name); method != nil {
		return &BoundMethodValue{Receiver: v, Method: method}, true
	}
	return nil, false
}

// Set writes into the field table, never the method table.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}

//-----------------------------------------------------------------------------
// Value-level semantics
//-----------------------------------------------------------------------------

// Truthy: everything except nil and false.
func Truthy(val Value) bool {
	switch v := val.(type) {
	case NilValue:
		return false
	case BoolValue:
		return v.Val
	default:
		return true
	}
}

// Equals compares scalars structurally and reference values by identity.
func Equals(left, right Value) bool {
	switch lv := left.(type) {
	case NilValue:
		_, ok := right.(NilValue)
		return ok
	case BoolValue:
		rv, ok := right.(BoolValue)
		return ok && lv.Val == rv.Val
	case NumberValue:
		rv, ok := right.(NumberValue)
		return ok && lv.Val == rv.Val
	case StringValue:
		rv, ok := right.(StringValue)
		return ok && lv.Val == rv.Val
	default:
		return left == right
	}
}

// ToString renders the canonical textual form of a value.
func ToString(val Value) string {
	switch v := val.(type) {
	case NilValue:
		return "nil"
	case BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case *FunctionValue:
		return fmt.Sprintf("<fn %s>", v.Name())
	case *NativeFunctionValue:
		return fmt.Sprintf("<fn %s>", v.Name)
	case *BoundMethodValue:
		return fmt.Sprintf("<fn %s>", v.Method.Name())
	case *ClassValue:
		return fmt.Sprintf("<class %s>", v.Name)
	case *InstanceValue:
		return v.Class.Name + " instance"
	default:
		return fmt.Sprintf("[%s]", val.Kind())
	}
}

// FormatNumber prints the shortest decimal that round-trips; integral values
// print without a fractional part.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
