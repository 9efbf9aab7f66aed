// Package interp evaluates an ast.Program by tree walking. Non-local control
// flow (return, break, continue) is an explicit signal threaded through every
// statement-execution routine rather than a panic, so the interpreter's
// control flow stays inspectable.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/clitelang/clite/ast"
)

// DefaultMaxDepth bounds combined call and block nesting. Native recursion
// mirrors the program's nesting, so runaway recursion must surface as
// StackLimitExceeded before the goroutine stack gives out.
const DefaultMaxDepth = 2000

// DefaultEntry is the function invoked when no entry override is given.
const DefaultEntry = "main"

type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// control is the result of executing a statement or block: either normal
// completion or an unwinding signal carrying the returned value.
type control struct {
	sig signal
	val Value
	pos ast.Pos
}

var normal = control{sig: sigNone}

// Interpreter runs programs. Output and limits are explicit fields so tests
// and embedders can substitute them; there is no ambient state.
type Interpreter struct {
	Out      io.Writer
	MaxDepth int

	funcs   map[string]*ast.Function
	globals *Env
	depth   int
}

func New() *Interpreter {
	return &Interpreter{
		Out:      os.Stdout,
		MaxDepth: DefaultMaxDepth,
	}
}

// Run loads the program's functions and, when callEntry is set, invokes the
// entry function (empty entry means "main") with no arguments. With callEntry
// unset the program is only loaded, a legitimate mode for files without a
// meaningful main.
func (in *Interpreter) Run(prog *ast.Program, entry string, callEntry bool) error {
	if err := in.load(prog); err != nil {
		return err
	}
	if !callEntry {
		return nil
	}
	if entry == "" {
		entry = DefaultEntry
	}
	fn, ok := in.funcs[entry]
	if !ok {
		return &RuntimeError{
			Kind: UndefinedFunction,
			Msg:  fmt.Sprintf("entry function %q is not defined", entry),
			Line: 1,
			Col:  1,
		}
	}
	_, err := in.call(fn, nil, fn.Pos)
	return err
}

// load registers functions by name. Function names resolve once here, never
// per call.
func (in *Interpreter) load(prog *ast.Program) error {
	in.funcs = make(map[string]*ast.Function, len(prog.Functions))
	in.globals = NewEnv(nil)
	for i := range prog.Functions {
		fn := &prog.Functions[i]
		if _, dup := in.funcs[fn.Name]; dup {
			return &RuntimeError{
				Kind: DuplicateFunction,
				Msg:  fmt.Sprintf("function %q is defined more than once", fn.Name),
				Line: fn.Pos.Line,
				Col:  fn.Pos.Col,
			}
		}
		in.funcs[fn.Name] = fn
	}
	return nil
}

func (in *Interpreter) errAt(kind ErrorKind, p ast.Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: p.Line, Col: p.Col}
}

func (in *Interpreter) push(p ast.Pos) *RuntimeError {
	in.depth++
	limit := in.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if in.depth > limit {
		in.depth--
		return in.errAt(StackLimitExceeded, p, "nesting limit of %d frames exceeded", limit)
	}
	return nil
}

func (in *Interpreter) pop() { in.depth-- }

// call pushes a fresh scope rooted at the globals (the language has no
// closures), binds already-evaluated arguments positionally, and absorbs the
// return signal of the body.
func (in *Interpreter) call(fn *ast.Function, args []Value, at ast.Pos) (Value, error) {
	if len(args) != len(fn.Params) {
		return Value{}, in.errAt(ArityMismatch, at,
			"function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if err := in.push(at); err != nil {
		return Value{}, err
	}
	defer in.pop()

	frame := NewEnv(in.globals)
	for i, param := range fn.Params {
		frame.Define(param.Name, args[i])
	}

	ctl, err := in.execBlock(fn.Body, frame)
	if err != nil {
		return Value{}, err
	}
	switch ctl.sig {
	case sigReturn:
		return ctl.val, nil
	case sigBreak:
		return Value{}, in.errAt(StrayLoopControl, ctl.pos, "'break' outside of a loop")
	case sigContinue:
		return Value{}, in.errAt(StrayLoopControl, ctl.pos, "'continue' outside of a loop")
	}
	if fn.ReturnType != "void" {
		return Value{}, in.errAt(NonVoidFallthrough, fn.Pos,
			"function %q (returns %s) fell off the end without returning", fn.Name, fn.ReturnType)
	}
	return VoidValue, nil
}

// execBlock runs statements in a fresh child scope. The scope is dropped on
// every exit path, whether completion, unwinding signal, or error.
func (in *Interpreter) execBlock(b ast.Block, env *Env) (control, error) {
	if err := in.push(b.Pos); err != nil {
		return normal, err
	}
	defer in.pop()

	scope := NewEnv(env)
	for _, stmt := range b.Stmts {
		ctl, err := in.execStmt(stmt, scope)
		if err != nil {
			return normal, err
		}
		if ctl.sig != sigNone {
			return ctl, nil
		}
	}
	return normal, nil
}

func (in *Interpreter) execStmt(stmt ast.Stmt, env *Env) (control, error) {
	switch s := stmt.(type) {
	case ast.LetDecl:
		v, err := in.evalExpr(s.Init, env)
		if err != nil {
			return normal, err
		}
		env.Define(s.Name, v)
		return normal, nil

	case ast.Assign:
		v, err := in.evalExpr(s.Value, env)
		if err != nil {
			return normal, err
		}
		if !env.Assign(s.Name, v) {
			return normal, in.errAt(UndefinedVariable, s.Pos,
				"assignment to undefined variable %q", s.Name)
		}
		return normal, nil

	case ast.If:
		cond, err := in.evalCond(s.Cond, env, "if")
		if err != nil {
			return normal, err
		}
		if cond {
			return in.execBlock(s.Then, env)
		}
		if s.Else != nil {
			return in.execBlock(*s.Else, env)
		}
		return normal, nil

	case ast.While:
		for {
			cond, err := in.evalCond(s.Cond, env, "while")
			if err != nil {
				return normal, err
			}
			if !cond {
				return normal, nil
			}
			ctl, err := in.execBlock(s.Body, env)
			if err != nil {
				return normal, err
			}
			switch ctl.sig {
			case sigReturn:
				return ctl, nil
			case sigBreak:
				return normal, nil
			}
		}

	case ast.For:
		// Header bindings live in their own scope around the loop.
		header := NewEnv(env)
		if _, err := in.execStmt(s.Init, header); err != nil {
			return normal, err
		}
		for {
			cond, err := in.evalCond(s.Cond, header, "for")
			if err != nil {
				return normal, err
			}
			if !cond {
				return normal, nil
			}
			ctl, err := in.execBlock(s.Body, header)
			if err != nil {
				return normal, err
			}
			if ctl.sig == sigReturn {
				return ctl, nil
			}
			if ctl.sig == sigBreak {
				return normal, nil
			}
			if _, err := in.execStmt(s.Post, header); err != nil {
				return normal, err
			}
		}

	case ast.Break:
		return control{sig: sigBreak, pos: s.Pos}, nil

	case ast.Continue:
		return control{sig: sigContinue, pos: s.Pos}, nil

	case ast.Return:
		val := VoidValue
		if s.Value != nil {
			v, err := in.evalExpr(s.Value, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return control{sig: sigReturn, val: val, pos: s.Pos}, nil

	case ast.ExprStmt:
		_, err := in.evalExpr(s.X, env)
		return normal, err
	}

	return normal, in.errAt(TypeMismatch, stmt.Position(), "unsupported statement %T", stmt)
}

func (in *Interpreter) evalCond(e ast.Expr, env *Env, what string) (bool, error) {
	v, err := in.evalExpr(e, env)
	if err != nil {
		return false, err
	}
	if v.Kind != Bool {
		return false, in.errAt(TypeMismatch, e.Position(),
			"%s condition must be bool, got %s", what, v.Kind)
	}
	return v.Bool, nil
}

func (in *Interpreter) evalExpr(expr ast.Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case ast.IntLit:
		return IntValue(e.Value), nil
	case ast.BoolLit:
		return BoolValue(e.Value), nil
	case ast.StringLit:
		return StringValue(e.Value), nil

	case ast.Ident:
		v, ok := env.Get(e.Name)
		if !ok {
			return Value{}, in.errAt(UndefinedVariable, e.Pos, "undefined variable %q", e.Name)
		}
		return v, nil

	case ast.Unary:
		return in.evalUnary(e, env)

	case ast.Binary:
		return in.evalBinary(e, env)

	case ast.Call:
		return in.evalCall(e, env)
	}

	return Value{}, in.errAt(TypeMismatch, expr.Position(), "unsupported expression %T", expr)
}

func (in *Interpreter) evalUnary(e ast.Unary, env *Env) (Value, error) {
	v, err := in.evalExpr(e.X, env)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case "!":
		if v.Kind != Bool {
			return Value{}, in.errAt(TypeMismatch, e.Pos, "operator '!' requires bool, got %s", v.Kind)
		}
		return BoolValue(!v.Bool), nil
	case "-":
		if v.Kind != Int {
			return Value{}, in.errAt(TypeMismatch, e.Pos, "operator '-' requires int, got %s", v.Kind)
		}
		return IntValue(-v.Int), nil
	}
	return Value{}, in.errAt(TypeMismatch, e.Pos, "unsupported unary operator %q", e.Op)
}

func (in *Interpreter) evalBinary(e ast.Binary, env *Env) (Value, error) {
	// && and || short-circuit: the right operand is untouched when the left
	// already decides the result.
	if e.Op == "&&" || e.Op == "||" {
		left, err := in.evalExpr(e.Left, env)
		if err != nil {
			return Value{}, err
		}
		if left.Kind != Bool {
			return Value{}, in.errAt(TypeMismatch, e.Left.Position(),
				"operator %q requires bool operands, got %s", e.Op, left.Kind)
		}
		if e.Op == "&&" && !left.Bool {
			return BoolValue(false), nil
		}
		if e.Op == "||" && left.Bool {
			return BoolValue(true), nil
		}
		right, err := in.evalExpr(e.Right, env)
		if err != nil {
			return Value{}, err
		}
		if right.Kind != Bool {
			return Value{}, in.errAt(TypeMismatch, e.Right.Position(),
				"operator %q requires bool operands, got %s", e.Op, right.Kind)
		}
		return BoolValue(right.Bool), nil
	}

	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case "+":
		if left.Kind == String && right.Kind == String {
			return StringValue(left.Str + right.Str), nil
		}
		if left.Kind == Int && right.Kind == Int {
			return IntValue(left.Int + right.Int), nil
		}
		return Value{}, in.errAt(TypeMismatch, e.Pos,
			"operator '+' requires two ints or two strings, got %s and %s", left.Kind, right.Kind)
	case "-", "*", "/", "%":
		if left.Kind != Int || right.Kind != Int {
			return Value{}, in.errAt(TypeMismatch, e.Pos,
				"operator %q requires int operands, got %s and %s", e.Op, left.Kind, right.Kind)
		}
		switch e.Op {
		case "-":
			return IntValue(left.Int - right.Int), nil
		case "*":
			return IntValue(left.Int * right.Int), nil
		case "/":
			if right.Int == 0 {
				return Value{}, in.errAt(DivisionByZero, e.Pos, "division by zero")
			}
			return IntValue(left.Int / right.Int), nil
		default:
			if right.Int == 0 {
				return Value{}, in.errAt(DivisionByZero, e.Pos, "modulo by zero")
			}
			return IntValue(left.Int % right.Int), nil
		}
	case "<", "<=", ">", ">=":
		if left.Kind != Int || right.Kind != Int {
			return Value{}, in.errAt(TypeMismatch, e.Pos,
				"operator %q requires int operands, got %s and %s", e.Op, left.Kind, right.Kind)
		}
		switch e.Op {
		case "<":
			return BoolValue(left.Int < right.Int), nil
		case "<=":
			return BoolValue(left.Int <= right.Int), nil
		case ">":
			return BoolValue(left.Int > right.Int), nil
		default:
			return BoolValue(left.Int >= right.Int), nil
		}
	case "==", "!=":
		if left.Kind != right.Kind || left.Kind == Void {
			return Value{}, in.errAt(TypeMismatch, e.Pos,
				"operator %q requires operands of the same kind, got %s and %s", e.Op, left.Kind, right.Kind)
		}
		eq := left.Equal(right)
		if e.Op == "!=" {
			eq = !eq
		}
		return BoolValue(eq), nil
	}
	return Value{}, in.errAt(TypeMismatch, e.Pos, "unsupported binary operator %q", e.Op)
}

// evalCall resolves user functions first; the builtin print is reachable
// unless a user function shadows the name.
func (in *Interpreter) evalCall(e ast.Call, env *Env) (Value, error) {
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := in.evalExpr(arg, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	if fn, ok := in.funcs[e.Callee]; ok {
		return in.call(fn, args, e.Pos)
	}
	if e.Callee == "print" {
		return in.builtinPrint(args, e.Pos)
	}
	return Value{}, in.errAt(UndefinedFunction, e.Pos, "undefined function %q", e.Callee)
}

func (in *Interpreter) builtinPrint(args []Value, at ast.Pos) (Value, error) {
	if len(args) != 1 {
		return Value{}, in.errAt(ArityMismatch, at, "print expects exactly 1 argument, got %d", len(args))
	}
	out := in.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, args[0].String())
	return VoidValue, nil
}
