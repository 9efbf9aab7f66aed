package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/clitelang/clite/interp"
	"github.com/clitelang/clite/lexer"
	"github.com/clitelang/clite/parser"
)

const src = "fn main(): void {\n\tlet x: int = ;\n}\n"

func TestParseErrorSnippet(t *testing.T) {
	err := &parser.ParseError{Expected: "an expression", Found: "';'", Line: 2, Col: 15}
	got := Render(err, "bad.cl", src)

	if !strings.Contains(got, "parse error in bad.cl at 2:15") {
		t.Fatalf("missing header:\n%s", got)
	}
	if !strings.Contains(got, `expected an expression, found "';'"`) {
		t.Fatalf("missing message:\n%s", got)
	}
	caret := "     | " + strings.Repeat(" ", 14) + "^\n"
	if !strings.Contains(got, caret) {
		t.Fatalf("caret misplaced:\n%s", got)
	}
	// One context line each side.
	if !strings.Contains(got, "   1 | fn main(): void {") || !strings.Contains(got, "   3 | }") {
		t.Fatalf("missing context lines:\n%s", got)
	}
}

func TestLexErrorSnippet(t *testing.T) {
	err := &lexer.LexError{Kind: lexer.UnterminatedString, Msg: "unterminated string literal", Line: 2, Col: 7}
	got := Render(err, "bad.cl", src)
	if !strings.Contains(got, "lex error in bad.cl at 2:7: unterminated string literal") {
		t.Fatalf("header:\n%s", got)
	}
}

func TestRuntimeErrorHeaderNamesKind(t *testing.T) {
	err := &interp.RuntimeError{Kind: interp.DivisionByZero, Msg: "division by zero", Line: 2, Col: 2}
	got := Render(err, "", src)
	if !strings.Contains(got, "runtime error (DivisionByZero) at 2:2: division by zero") {
		t.Fatalf("header:\n%s", got)
	}
}

func TestOutOfRangePositionIsClamped(t *testing.T) {
	err := &interp.RuntimeError{Kind: interp.TypeMismatch, Msg: "oops", Line: 99, Col: 0}
	got := Render(err, "x.cl", "one line")
	if !strings.Contains(got, "at 1:1") {
		t.Fatalf("clamping:\n%s", got)
	}
	if !strings.Contains(got, "   1 | one line") {
		t.Fatalf("source line:\n%s", got)
	}
}

func TestPlainErrorPassesThrough(t *testing.T) {
	err := errors.New("open bad.cl: no such file or directory")
	if got := Render(err, "bad.cl", ""); got != err.Error() {
		t.Fatalf("want passthrough, got %q", got)
	}
}
