// Package ast defines the syntax tree shared by the parser and the
// interpreter. Statements and expressions are closed sum types: one struct
// per variant, tied together by an unexported marker method, so evaluation
// is a single exhaustive switch per node kind.
package ast

import "fmt"

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Program is an ordered sequence of function declarations. Names must be
// unique; the parser rejects duplicates and the interpreter re-checks at
// load time.
type Program struct {
	Functions []Function
}

type Param struct {
	Name string
	Type string
	Pos  Pos
}

type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       Block
	Pos        Pos
}

// Block introduces a new lexical scope.
type Block struct {
	Stmts []Stmt
	Pos   Pos
}

type Stmt interface {
	is_Stmt()
	Position() Pos
}

// LetDecl declares a new variable in the current scope. The type annotation
// is mandatory.
type LetDecl struct {
	Name string
	Type string
	Init Expr
	Pos  Pos
}

// Assign mutates an existing binding; it never creates one.
type Assign struct {
	Name  string
	Value Expr
	Pos   Pos
}

type If struct {
	Cond Expr
	Then Block
	Else *Block
	Pos  Pos
}

type While struct {
	Cond Expr
	Body Block
	Pos  Pos
}

// For desugars at evaluation time to: Init; while Cond { Body; Post }.
type For struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body Block
	Pos  Pos
}

type Break struct {
	Pos Pos
}

type Continue struct {
	Pos Pos
}

// Return carries an optional value; a nil Value returns void.
type Return struct {
	Value Expr
	Pos   Pos
}

// ExprStmt is a bare expression in statement position, e.g. print(x);
type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (s LetDecl) is_Stmt()  {}
func (s Assign) is_Stmt()   {}
func (s If) is_Stmt()       {}
func (s While) is_Stmt()    {}
func (s For) is_Stmt()      {}
func (s Break) is_Stmt()    {}
func (s Continue) is_Stmt() {}
func (s Return) is_Stmt()   {}
func (s ExprStmt) is_Stmt() {}

func (s LetDecl) Position() Pos  { return s.Pos }
func (s Assign) Position() Pos   { return s.Pos }
func (s If) Position() Pos       { return s.Pos }
func (s While) Position() Pos    { return s.Pos }
func (s For) Position() Pos      { return s.Pos }
func (s Break) Position() Pos    { return s.Pos }
func (s Continue) Position() Pos { return s.Pos }
func (s Return) Position() Pos   { return s.Pos }
func (s ExprStmt) Position() Pos { return s.Pos }

type Expr interface {
	is_Expr()
	Position() Pos
}

type IntLit struct {
	Value int64
	Pos   Pos
}

type BoolLit struct {
	Value bool
	Pos   Pos
}

type StringLit struct {
	Value string
	Pos   Pos
}

type Ident struct {
	Name string
	Pos  Pos
}

// Unary is "!" or "-".
type Unary struct {
	Op  string
	X   Expr
	Pos Pos
}

type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

// Call names its callee directly; functions are not values in this language.
type Call struct {
	Callee string
	Args   []Expr
	Pos    Pos
}

func (e IntLit) is_Expr()    {}
func (e BoolLit) is_Expr()   {}
func (e StringLit) is_Expr() {}
func (e Ident) is_Expr()     {}
func (e Unary) is_Expr()     {}
func (e Binary) is_Expr()    {}
func (e Call) is_Expr()      {}

func (e IntLit) Position() Pos    { return e.Pos }
func (e BoolLit) Position() Pos   { return e.Pos }
func (e StringLit) Position() Pos { return e.Pos }
func (e Ident) Position() Pos     { return e.Pos }
func (e Unary) Position() Pos     { return e.Pos }
func (e Binary) Position() Pos    { return e.Pos }
func (e Call) Position() Pos      { return e.Pos }
