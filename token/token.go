package token

// Kind classifies a lexical token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Literals and identifiers
	IDENT
	INT
	STRING
	BOOLEAN // "true" or "false"

	// Keywords
	LET
	FN
	IF
	ELSE
	WHILE
	FOR
	BREAK
	CONTINUE
	RETURN
	TYPE // "int", "bool" or "void"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	EQ
	NEQ
	AND
	OR
	BANG
	ASSIGN

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMI
	COLON
)

var names = map[Kind]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	IDENT:      "IDENT",
	INT:        "INT",
	STRING:     "STRING",
	BOOLEAN:    "BOOLEAN",
	LET:        "let",
	FN:         "fn",
	IF:         "if",
	ELSE:       "else",
	WHILE:      "while",
	FOR:        "for",
	BREAK:      "break",
	CONTINUE:   "continue",
	RETURN:     "return",
	TYPE:       "TYPE",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	LESS:       "<",
	LESS_EQ:    "<=",
	GREATER:    ">",
	GREATER_EQ: ">=",
	EQ:         "==",
	NEQ:        "!=",
	AND:        "&&",
	OR:         "||",
	BANG:       "!",
	ASSIGN:     "=",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACE:     "{",
	RBRACE:     "}",
	LBRACKET:   "[",
	RBRACKET:   "]",
	COMMA:      ",",
	SEMI:       ";",
	COLON:      ":",
}

func (k Kind) String() string {
	return names[k]
}

// Keywords maps keyword lexemes to their token kinds.
var Keywords = map[string]Kind{
	"let":      LET,
	"fn":       FN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
	"int":      TYPE,
	"bool":     TYPE,
	"void":     TYPE,
}

// Token is an immutable lexical unit. Line and Col are 1-based and point at
// the first character of the lexeme.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Col    int
}

// Is reports whether the token is one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
