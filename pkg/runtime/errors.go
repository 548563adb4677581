package runtime

import "fmt"

// ErrorKind classifies the runtime failures the evaluator can produce.
// The `return` control signal is deliberately not part of this taxonomy.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	UndefinedProperty
	TypeError
	ArityMismatch
	StackOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedProperty:
		return "UndefinedProperty"
	case TypeError:
		return "TypeError"
	case ArityMismatch:
		return "ArityMismatch"
	case StackOverflow:
		return "StackOverflow"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a runtime evaluation failure. Line is zero until the evaluator
// attaches the source position of the failing operation.
type Error struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s\n[line %d]", e.Message, e.Line)
	}
	return e.Message
}

// Errorf builds an Error without position information.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source line unless one is already recorded.
func (e *Error) At(line int) *Error {
	if e.Line == 0 {
		e.Line = line
	}
	return e
}
