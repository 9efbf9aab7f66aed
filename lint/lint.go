// Package lint scans clite source for common mistakes without executing it.
// The checks are token- and line-level heuristics, not semantic analysis, and
// they keep working on malformed programs: the lexer runs in lenient mode and
// the one AST-based check (W002) is skipped when parsing fails.
package lint

import (
	"fmt"
	"os"
	"sort"

	"github.com/clitelang/clite/ast"
	"github.com/clitelang/clite/lexer"
	"github.com/clitelang/clite/parser"
	"github.com/clitelang/clite/token"
)

// Warning is a non-fatal diagnostic. Warnings never abort a scan.
type Warning struct {
	Code    string
	Message string
	File    string
	Line    int
	Col     int
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", w.File, w.Line, w.Col, w.Code, w.Message)
}

type Linter struct {
	cfg *Config
}

func New(cfg *Config) *Linter {
	return &Linter{cfg: cfg}
}

// LintFiles lints each file in order and concatenates the warnings in
// file-then-line order.
func (l *Linter) LintFiles(paths []string) ([]Warning, error) {
	var all []Warning
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, l.LintSource(path, string(data))...)
	}
	return all, nil
}

// LintSource is a pure function of the file contents: same input, same
// ordered warning list.
func (l *Linter) LintSource(file, src string) []Warning {
	lx := lexer.NewLenient(src)
	toks, _ := lx.Scan()

	var warns []Warning
	warns = append(warns, unterminatedStrings(lx.Errors())...)
	warns = append(warns, missingSemicolons(toks)...)
	warns = append(warns, missingColonInLet(toks)...)
	warns = append(warns, unbalancedDelimiters(toks)...)
	warns = append(warns, controlMissingParen(toks)...)

	// W002 needs an AST; a file that does not parse just skips it.
	if len(lx.Errors()) == 0 {
		if prog, err := parser.Parse(toks); err == nil {
			warns = append(warns, undefinedNames(prog)...)
		}
	}

	out := warns[:0]
	for _, w := range warns {
		if l.cfg.enabled(w.Code) {
			w.File = file
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].Col != out[j].Col {
			return out[i].Col < out[j].Col
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// FailOnWarn reports whether the config asks for a non-zero exit when any
// warning was produced.
func (l *Linter) FailOnWarn() bool {
	return l.cfg != nil && l.cfg.FailOnWarn
}

// W006: the lenient lexer records unterminated string literals as errors and
// keeps scanning.
func unterminatedStrings(errs []*lexer.LexError) []Warning {
	var out []Warning
	for _, e := range errs {
		if e.Kind != lexer.UnterminatedString {
			continue
		}
		out = append(out, Warning{
			Code:    "W006",
			Message: "string literal is never closed",
			Line:    e.Line,
			Col:     e.Col,
		})
	}
	return out
}

// W001: heuristic scan for statements that reach a statement boundary
// without a terminating ';'. Function headers are skipped up to their body
// brace, and anything inside parentheses is ignored.
func missingSemicolons(toks []token.Token) []Warning {
	needsEnd := func(t token.Token) bool {
		return t.Is(token.LET, token.RETURN, token.BREAK, token.CONTINUE,
			token.IDENT, token.INT, token.STRING, token.LPAREN)
	}
	stmtStart := func(t token.Token) bool {
		return t.Is(token.LET, token.FN, token.IF, token.WHILE, token.FOR,
			token.RETURN, token.BREAK, token.CONTINUE, token.ELSE)
	}

	var out []Warning
	n := len(toks)
	if n > 0 && toks[n-1].Kind == token.EOF {
		n--
	}

	i := 0
	braceDepth := 0
	parenDepth := 0
	suppressLevel := -1 // brace depth of a pending fn header, -1 when none

	for i < n {
		t := toks[i]
		if t.Kind == token.LBRACE {
			braceDepth++
			if suppressLevel >= 0 && braceDepth > suppressLevel {
				suppressLevel = -1
			}
			i++
			continue
		}
		if t.Kind == token.RBRACE {
			if braceDepth > 0 {
				braceDepth--
			}
			i++
			continue
		}
		if t.Kind == token.LPAREN {
			parenDepth++
		} else if t.Kind == token.RPAREN && parenDepth > 0 {
			parenDepth--
		}

		if parenDepth == 0 && t.Kind == token.FN && suppressLevel < 0 {
			suppressLevel = braceDepth
			i++
			continue
		}

		if parenDepth == 0 && suppressLevel < 0 && needsEnd(t) {
			startBrace := braceDepth
			j := i + 1
			inner := 0
			foundEnd := false
			last := t.Kind
			for j < n {
				tj := toks[j]
				if tj.Kind == token.LPAREN {
					inner++
				} else if tj.Kind == token.RPAREN && inner > 0 {
					inner--
				}
				if inner == 0 && braceDepth == startBrace && tj.Kind == token.SEMI {
					foundEnd = true
					j++
					break
				}
				// A likely new statement start means the previous one never
				// ended, e.g. `print(x) x = 1;`.
				if inner == 0 && braceDepth == startBrace &&
					(tj.Kind == token.RBRACE || stmtStart(tj) ||
						(tj.Kind == token.IDENT && last == token.RPAREN)) {
					break
				}
				last = tj.Kind
				j++
			}
			if !foundEnd {
				out = append(out, Warning{
					Code:    "W001",
					Message: "possible missing ';' at end of statement",
					Line:    t.Line,
					Col:     t.Col,
				})
				if j > i+1 {
					i = j
				} else {
					i++
				}
				continue
			}
			i = j
			continue
		}
		i++
	}
	return out
}

// W003: `let NAME` not followed by ':'.
func missingColonInLet(toks []token.Token) []Warning {
	var out []Warning
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Kind != token.LET || toks[i+1].Kind != token.IDENT {
			continue
		}
		if toks[i+2].Kind != token.COLON {
			out = append(out, Warning{
				Code:    "W003",
				Message: "missing ':' type annotation in variable declaration",
				Line:    toks[i+1].Line,
				Col:     toks[i+1].Col,
			})
		}
	}
	return out
}

// W004: unmatched or unclosed (), {} and [].
func unbalancedDelimiters(toks []token.Token) []Warning {
	opens := map[token.Kind]string{
		token.LPAREN:   "(",
		token.LBRACE:   "{",
		token.LBRACKET: "[",
	}
	closes := map[token.Kind]struct {
		lexeme string
		open   string
	}{
		token.RPAREN:   {")", "("},
		token.RBRACE:   {"}", "{"},
		token.RBRACKET: {"]", "["},
	}

	type open struct {
		kind string
		tok  token.Token
	}
	var out []Warning
	var stack []open
	for _, t := range toks {
		if kind, ok := opens[t.Kind]; ok {
			stack = append(stack, open{kind, t})
			continue
		}
		c, ok := closes[t.Kind]
		if !ok {
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].kind != c.open {
			out = append(out, Warning{
				Code:    "W004",
				Message: fmt.Sprintf("unmatched '%s'", c.lexeme),
				Line:    t.Line,
				Col:     t.Col,
			})
			continue
		}
		stack = stack[:len(stack)-1]
	}
	for _, o := range stack {
		out = append(out, Warning{
			Code:    "W004",
			Message: fmt.Sprintf("unclosed '%s'", o.kind),
			Line:    o.tok.Line,
			Col:     o.tok.Col,
		})
	}
	return out
}

// W005: if/while/for not immediately followed by '('.
func controlMissingParen(toks []token.Token) []Warning {
	var out []Warning
	for i, t := range toks {
		if !t.Is(token.IF, token.WHILE, token.FOR) {
			continue
		}
		if i+1 >= len(toks) || toks[i+1].Kind != token.LPAREN {
			out = append(out, Warning{
				Code:    "W005",
				Message: fmt.Sprintf("expected '(' after '%s'", t.Lexeme),
				Line:    t.Line,
				Col:     t.Col,
			})
		}
	}
	return out
}

// W002: identifiers used or assigned without a visible binding. Function
// names and parameters count as bindings; print is builtin.
func undefinedNames(prog *ast.Program) []Warning {
	var out []Warning

	global := map[string]bool{"print": true}
	for _, fn := range prog.Functions {
		global[fn.Name] = true
	}
	scopes := []map[string]bool{global}

	push := func() { scopes = append(scopes, map[string]bool{}) }
	pop := func() { scopes = scopes[:len(scopes)-1] }
	define := func(name string) { scopes[len(scopes)-1][name] = true }
	defined := func(name string) bool {
		for i := len(scopes) - 1; i >= 0; i-- {
			if scopes[i][name] {
				return true
			}
		}
		return false
	}
	warn := func(msg string, p ast.Pos) {
		out = append(out, Warning{Code: "W002", Message: msg, Line: p.Line, Col: p.Col})
	}

	var visitExpr func(e ast.Expr)
	var visitStmt func(s ast.Stmt)
	var visitBlock func(b ast.Block)

	visitExpr = func(e ast.Expr) {
		switch x := e.(type) {
		case ast.Ident:
			if !defined(x.Name) {
				warn(fmt.Sprintf("use of undefined variable %q", x.Name), x.Pos)
			}
		case ast.Unary:
			visitExpr(x.X)
		case ast.Binary:
			visitExpr(x.Left)
			visitExpr(x.Right)
		case ast.Call:
			if !defined(x.Callee) {
				warn(fmt.Sprintf("call to undefined function %q", x.Callee), x.Pos)
			}
			for _, a := range x.Args {
				visitExpr(a)
			}
		}
	}

	visitStmt = func(s ast.Stmt) {
		switch x := s.(type) {
		case ast.LetDecl:
			visitExpr(x.Init)
			define(x.Name)
		case ast.Assign:
			if !defined(x.Name) {
				warn(fmt.Sprintf("assignment to undefined variable %q", x.Name), x.Pos)
			}
			visitExpr(x.Value)
		case ast.If:
			visitExpr(x.Cond)
			visitBlock(x.Then)
			if x.Else != nil {
				visitBlock(*x.Else)
			}
		case ast.While:
			visitExpr(x.Cond)
			visitBlock(x.Body)
		case ast.For:
			push()
			visitStmt(x.Init)
			visitExpr(x.Cond)
			visitStmt(x.Post)
			visitBlock(x.Body)
			pop()
		case ast.Return:
			if x.Value != nil {
				visitExpr(x.Value)
			}
		case ast.ExprStmt:
			visitExpr(x.X)
		}
	}

	visitBlock = func(b ast.Block) {
		push()
		for _, s := range b.Stmts {
			visitStmt(s)
		}
		pop()
	}

	for _, fn := range prog.Functions {
		push()
		for _, p := range fn.Params {
			define(p.Name)
		}
		visitBlock(fn.Body)
		pop()
	}
	return out
}
