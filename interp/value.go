package interp

import "strconv"

// ValueKind tags the runtime representation of a value.
type ValueKind int

const (
	Void ValueKind = iota
	Int
	Bool
	String
)

func (k ValueKind) String() string {
	switch k {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "void"
	}
}

// Value is the tagged union over the language's runtime kinds. There are no
// implicit coercions between kinds; each operator checks its operands.
type Value struct {
	Kind ValueKind
	Int  int64
	Bool bool
	Str  string
}

var VoidValue = Value{Kind: Void}

func IntValue(v int64) Value { return Value{Kind: Int, Int: v} }

func BoolValue(v bool) Value { return Value{Kind: Bool, Bool: v} }

func StringValue(v string) Value { return Value{Kind: String, Str: v} }

// String renders the value the way print does: integers in decimal, booleans
// as true/false, strings unquoted.
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Bool:
		return strconv.FormatBool(v.Bool)
	case String:
		return v.Str
	default:
		return "void"
	}
}

// Equal is value equality within the same kind; values of different kinds
// are never equal (and the caller treats that as a type error).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.Int == o.Int
	case Bool:
		return v.Bool == o.Bool
	case String:
		return v.Str == o.Str
	default:
		return true
	}
}
