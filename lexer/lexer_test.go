package lexer

import (
	"reflect"
	"testing"

	"github.com/clitelang/clite/token"
)

func toks(t *testing.T, src string) []token.Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return ts
}

func kinds(ts []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(ts))
	for _, tk := range ts {
		out = append(out, tk.Kind)
	}
	return out
}

func wantKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	want = append(want, token.EOF)
	got := kinds(toks(t, src))
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("source %q:\nwant %v\ngot  %v", src, want, got)
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	wantKinds(t, "+ - * / % = ( ) { } [ ] , ; :", []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.SEMI, token.COLON,
	})
}

func TestGreedyMultiCharOperators(t *testing.T) {
	wantKinds(t, "a<=b>=c==d!=e&&f||g<h>i!j", []token.Kind{
		token.IDENT, token.LESS_EQ,
		token.IDENT, token.GREATER_EQ,
		token.IDENT, token.EQ,
		token.IDENT, token.NEQ,
		token.IDENT, token.AND,
		token.IDENT, token.OR,
		token.IDENT, token.LESS,
		token.IDENT, token.GREATER,
		token.IDENT, token.BANG,
		token.IDENT,
	})
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	wantKinds(t, "let fn if else while for break continue return true false int bool void foo _bar x1", []token.Kind{
		token.LET, token.FN, token.IF, token.ELSE, token.WHILE, token.FOR,
		token.BREAK, token.CONTINUE, token.RETURN, token.BOOLEAN, token.BOOLEAN,
		token.TYPE, token.TYPE, token.TYPE,
		token.IDENT, token.IDENT, token.IDENT,
	})
}

func TestIntegerLexeme(t *testing.T) {
	ts := toks(t, "040 7;")
	if ts[0].Lexeme != "040" || ts[1].Lexeme != "7" {
		t.Fatalf("integer lexemes: got %q, %q", ts[0].Lexeme, ts[1].Lexeme)
	}
}

func TestStringEscapes(t *testing.T) {
	ts := toks(t, `"a\"b\\c\n\td\r"`)
	if ts[0].Kind != token.STRING {
		t.Fatalf("kind: got %v", ts[0].Kind)
	}
	want := "a\"b\\c\n\td\r"
	if ts[0].Lexeme != want {
		t.Fatalf("string value: want %q, got %q", want, ts[0].Lexeme)
	}
}

func TestComments(t *testing.T) {
	src := `let a // trailing comment
/* block
   spanning lines */ = 1;`
	wantKinds(t, src, []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
	})
}

func TestPositions(t *testing.T) {
	ts := toks(t, "let x = 1;\n x = 2;")
	type at struct{ line, col int }
	want := []at{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {1, 10},
		{2, 2}, {2, 4}, {2, 6}, {2, 7},
	}
	for i, w := range want {
		if ts[i].Line != w.line || ts[i].Col != w.col {
			t.Fatalf("token %d (%q): want %d:%d, got %d:%d",
				i, ts[i].Lexeme, w.line, w.col, ts[i].Line, ts[i].Col)
		}
	}
}

func TestPositionAfterBlockComment(t *testing.T) {
	ts := toks(t, "/* one\ntwo */ x")
	if ts[0].Line != 2 || ts[0].Col != 8 {
		t.Fatalf("want 2:8, got %d:%d", ts[0].Line, ts[0].Col)
	}
}

func TestEOFSentinel(t *testing.T) {
	ts := toks(t, "")
	if len(ts) != 1 || ts[0].Kind != token.EOF {
		t.Fatalf("want lone EOF, got %v", ts)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize("let s = \"abc\nlet t = 1;")
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %v", err)
	}
	if lexErr.Kind != UnterminatedString {
		t.Fatalf("kind: want UnterminatedString, got %v", lexErr.Kind)
	}
	if lexErr.Line != 1 || lexErr.Col != 9 {
		t.Fatalf("position: want 1:9, got %d:%d", lexErr.Line, lexErr.Col)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("x /* never closed")
	lexErr, ok := err.(*LexError)
	if !ok || lexErr.Kind != UnterminatedComment {
		t.Fatalf("want UnterminatedComment, got %v", err)
	}
	if lexErr.Line != 1 || lexErr.Col != 3 {
		t.Fatalf("position: want 1:3, got %d:%d", lexErr.Line, lexErr.Col)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("let @ = 1;")
	lexErr, ok := err.(*LexError)
	if !ok || lexErr.Kind != UnexpectedChar {
		t.Fatalf("want UnexpectedChar, got %v", err)
	}
}

func TestLenientScanContinues(t *testing.T) {
	l := NewLenient("let s = \"abc\nlet t = 1;")
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("lenient Scan failed: %v", err)
	}
	if len(l.Errors()) != 1 || l.Errors()[0].Kind != UnterminatedString {
		t.Fatalf("errors: %v", l.Errors())
	}
	// The second line still tokenizes.
	got := kinds(ts)
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.STRING,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.EOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestDeterminism(t *testing.T) {
	src := `fn main(): void { let x: int = 40 + 2; print(x); }`
	first := toks(t, src)
	second := toks(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tokenizing twice differs:\n%v\n%v", first, second)
	}
}
