// Package parser builds an ast.Program from a token slice by recursive
// descent with precedence climbing. The first grammar violation aborts
// parsing; there is no recovery or resynchronization.
package parser

import (
	"fmt"
	"strconv"

	"github.com/clitelang/clite/ast"
	"github.com/clitelang/clite/token"
)

// maxNesting bounds parser recursion so pathological inputs surface as a
// ParseError instead of exhausting the goroutine stack.
const maxNesting = 256

// ParseError reports the first grammar violation with the offending token's
// 1-based position.
type ParseError struct {
	Expected string
	Found    string
	Line     int
	Col      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, found %q", e.Line, e.Col, e.Expected, e.Found)
}

type Parser struct {
	toks  []token.Token
	pos   int
	depth int
}

// Parse consumes a token stream produced by the lexer (which always ends in
// an EOF sentinel) and returns the Program or the first *ParseError.
func Parse(toks []token.Token) (prog *ast.Program, err error) {
	p := &Parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			prog, err = nil, perr
		}
	}()
	return p.parseProgram(), nil
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		// The lexer's EOF sentinel makes this unreachable for its output;
		// hand-built slices without one still terminate cleanly.
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekNext() token.Token {
	if p.pos+1 >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+1]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) at(kinds ...token.Kind) bool {
	return p.peek().Is(kinds...)
}

func (p *Parser) fail(expected string, found token.Token) {
	lexeme := found.Lexeme
	if found.Kind == token.EOF {
		lexeme = "end of input"
	}
	panic(&ParseError{
		Expected: expected,
		Found:    lexeme,
		Line:     found.Line,
		Col:      found.Col,
	})
}

func (p *Parser) expect(kind token.Kind, expected string) token.Token {
	if !p.at(kind) {
		p.fail(expected, p.peek())
	}
	return p.next()
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > maxNesting {
		t := p.peek()
		p.fail("shallower nesting", t)
	}
}

func (p *Parser) leave() {
	p.depth--
}

func pos(t token.Token) ast.Pos {
	return ast.Pos{Line: t.Line, Col: t.Col}
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	seen := map[string]bool{}
	for !p.at(token.EOF) {
		if !p.at(token.FN) {
			p.fail("'fn'", p.peek())
		}
		fn := p.parseFunction()
		if seen[fn.Name] {
			p.fail("a unique function name", token.Token{
				Lexeme: fn.Name,
				Line:   fn.Pos.Line,
				Col:    fn.Pos.Col,
			})
		}
		seen[fn.Name] = true
		prog.Functions = append(prog.Functions, fn)
	}
	return prog
}

func (p *Parser) parseFunction() ast.Function {
	fnTok := p.expect(token.FN, "'fn'")
	name := p.expect(token.IDENT, "function name")

	p.expect(token.LPAREN, "'('")
	var params []ast.Param
	if !p.at(token.RPAREN) {
		for {
			pname := p.expect(token.IDENT, "parameter name")
			p.expect(token.COLON, "':'")
			ptype := p.parseType()
			params = append(params, ast.Param{
				Name: pname.Lexeme,
				Type: ptype,
				Pos:  pos(pname),
			})
			if !p.at(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RPAREN, "')'")
	p.expect(token.COLON, "':'")
	ret := p.parseType()
	body := p.parseBlock()

	return ast.Function{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Pos:        pos(fnTok),
	}
}

// parseType accepts the builtin type keywords plus bare identifiers, so
// user-named types lex the same way they did before "int"/"bool"/"void"
// became keywords.
func (p *Parser) parseType() string {
	if !p.at(token.TYPE, token.IDENT) {
		p.fail("a type name", p.peek())
	}
	return p.next().Lexeme
}

func (p *Parser) parseBlock() ast.Block {
	p.enter()
	defer p.leave()

	lbrace := p.expect(token.LBRACE, "'{'")
	blk := ast.Block{Pos: pos(lbrace)}
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			p.fail("'}'", p.peek())
		}
		blk.Stmts = append(blk.Stmts, p.parseStmt())
	}
	p.expect(token.RBRACE, "'}'")
	return blk
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Kind {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		t := p.next()
		p.expect(token.SEMI, "';'")
		return ast.Break{Pos: pos(t)}
	case token.CONTINUE:
		t := p.next()
		p.expect(token.SEMI, "';'")
		return ast.Continue{Pos: pos(t)}
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT:
		if p.peekNext().Kind == token.ASSIGN {
			stmt := p.parseAssign()
			p.expect(token.SEMI, "';'")
			return stmt
		}
	}

	t := p.peek()
	expr := p.parseExpr()
	p.expect(token.SEMI, "';'")
	return ast.ExprStmt{X: expr, Pos: pos(t)}
}

func (p *Parser) parseLet() ast.Stmt {
	letTok := p.expect(token.LET, "'let'")
	name := p.expect(token.IDENT, "variable name")
	p.expect(token.COLON, "':' and a type annotation")
	typ := p.parseType()
	p.expect(token.ASSIGN, "'='")
	init := p.parseExpr()
	p.expect(token.SEMI, "';'")
	return ast.LetDecl{
		Name: name.Lexeme,
		Type: typ,
		Init: init,
		Pos:  pos(letTok),
	}
}

// parseAssign consumes "IDENT = expr" without the trailing semicolon; the
// for-statement's post clause reuses it inside the header parentheses.
func (p *Parser) parseAssign() ast.Stmt {
	name := p.expect(token.IDENT, "assignment target")
	p.expect(token.ASSIGN, "'='")
	value := p.parseExpr()
	return ast.Assign{Name: name.Lexeme, Value: value, Pos: pos(name)}
}

func (p *Parser) parseIf() ast.Stmt {
	ifTok := p.expect(token.IF, "'if'")
	p.expect(token.LPAREN, "'('")
	cond := p.parseExpr()
	p.expect(token.RPAREN, "')'")
	then := p.parseBlock()

	stmt := ast.If{Cond: cond, Then: then, Pos: pos(ifTok)}
	if p.at(token.ELSE) {
		p.next()
		if p.at(token.IF) {
			// else-if chains: wrap the nested if in a synthetic block.
			nested := p.parseStmt()
			stmt.Else = &ast.Block{Stmts: []ast.Stmt{nested}, Pos: nested.Position()}
		} else {
			blk := p.parseBlock()
			stmt.Else = &blk
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	whileTok := p.expect(token.WHILE, "'while'")
	p.expect(token.LPAREN, "'('")
	cond := p.parseExpr()
	p.expect(token.RPAREN, "')'")
	body := p.parseBlock()
	return ast.While{Cond: cond, Body: body, Pos: pos(whileTok)}
}

// parseFor reads "for (init; cond; post) block" where init is a let
// declaration or an assignment and post is an assignment or an expression.
func (p *Parser) parseFor() ast.Stmt {
	forTok := p.expect(token.FOR, "'for'")
	p.expect(token.LPAREN, "'('")

	var init ast.Stmt
	switch {
	case p.at(token.LET):
		init = p.parseLet() // consumes its ';'
	case p.at(token.IDENT) && p.peekNext().Kind == token.ASSIGN:
		init = p.parseAssign()
		p.expect(token.SEMI, "';'")
	default:
		p.fail("a 'let' declaration or assignment", p.peek())
	}

	cond := p.parseExpr()
	p.expect(token.SEMI, "';'")

	var post ast.Stmt
	if p.at(token.IDENT) && p.peekNext().Kind == token.ASSIGN {
		post = p.parseAssign()
	} else {
		t := p.peek()
		post = ast.ExprStmt{X: p.parseExpr(), Pos: pos(t)}
	}
	p.expect(token.RPAREN, "')'")
	body := p.parseBlock()

	return ast.For{Init: init, Cond: cond, Post: post, Body: body, Pos: pos(forTok)}
}

func (p *Parser) parseReturn() ast.Stmt {
	retTok := p.expect(token.RETURN, "'return'")
	var value ast.Expr
	if !p.at(token.SEMI) {
		value = p.parseExpr()
	}
	p.expect(token.SEMI, "';'")
	return ast.Return{Value: value, Pos: pos(retTok)}
}

// Expression grammar, precedence low to high, all binary operators
// left-associative:
//
//	or > and > equality > relational > additive > multiplicative > unary

func (p *Parser) parseExpr() ast.Expr {
	p.enter()
	defer p.leave()
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for p.at(token.OR) {
		op := p.next()
		right := p.parseAnd()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for p.at(token.AND) {
		op := p.next()
		right := p.parseEquality()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseEquality() ast.Expr {
	expr := p.parseRelational()
	for p.at(token.EQ, token.NEQ) {
		op := p.next()
		right := p.parseRelational()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseRelational() ast.Expr {
	expr := p.parseAdditive()
	for p.at(token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ) {
		op := p.next()
		right := p.parseAdditive()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseAdditive() ast.Expr {
	expr := p.parseMultiplicative()
	for p.at(token.PLUS, token.MINUS) {
		op := p.next()
		right := p.parseMultiplicative()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseMultiplicative() ast.Expr {
	expr := p.parseUnary()
	for p.at(token.STAR, token.SLASH, token.PERCENT) {
		op := p.next()
		right := p.parseUnary()
		expr = ast.Binary{Op: op.Lexeme, Left: expr, Right: right, Pos: pos(op)}
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.BANG, token.MINUS) {
		p.enter()
		defer p.leave()
		op := p.next()
		operand := p.parseUnary()
		return ast.Unary{Op: op.Lexeme, X: operand, Pos: pos(op)}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.peek()
	switch t.Kind {
	case token.INT:
		p.next()
		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.fail("an integer literal in range", t)
		}
		return ast.IntLit{Value: v, Pos: pos(t)}
	case token.BOOLEAN:
		p.next()
		return ast.BoolLit{Value: t.Lexeme == "true", Pos: pos(t)}
	case token.STRING:
		p.next()
		return ast.StringLit{Value: t.Lexeme, Pos: pos(t)}
	case token.IDENT:
		p.next()
		if p.at(token.LPAREN) {
			return p.parseCall(t)
		}
		return ast.Ident{Name: t.Lexeme, Pos: pos(t)}
	case token.LPAREN:
		p.next()
		expr := p.parseExpr()
		p.expect(token.RPAREN, "')'")
		return expr
	}
	p.fail("an expression", t)
	return nil
}

// parseCall is entered with the callee name consumed and '(' pending.
func (p *Parser) parseCall(callee token.Token) ast.Expr {
	p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	if !p.at(token.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if !p.at(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RPAREN, "')'")
	return ast.Call{Callee: callee.Lexeme, Args: args, Pos: pos(callee)}
}
