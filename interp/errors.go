package interp

import "fmt"

// ErrorKind classifies a runtime failure.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	DivisionByZero
	UndefinedVariable
	UndefinedFunction
	DuplicateFunction
	ArityMismatch
	NonVoidFallthrough
	StackLimitExceeded
	StrayLoopControl
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case DivisionByZero:
		return "DivisionByZero"
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case DuplicateFunction:
		return "DuplicateFunction"
	case ArityMismatch:
		return "ArityMismatch"
	case NonVoidFallthrough:
		return "NonVoidFallthrough"
	case StackLimitExceeded:
		return "StackLimitExceeded"
	case StrayLoopControl:
		return "StrayLoopControl"
	}
	return "RuntimeError"
}

// RuntimeError aborts interpretation at the point of failure. Line and Col
// are 1-based and point at the offending node.
type RuntimeError struct {
	Kind ErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}
