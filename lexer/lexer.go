package lexer

import (
	"fmt"

	"github.com/clitelang/clite/token"
)

// ErrorKind classifies a lexical error.
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	UnterminatedString
	UnterminatedComment
	BadEscape
)

// LexError is a fatal scanning error with a 1-based source position.
type LexError struct {
	Kind ErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans clite source text into tokens. In lenient mode, malformed
// input produces ILLEGAL tokens and recorded errors instead of aborting the
// scan; the linter relies on this to keep working on broken files.
type Lexer struct {
	src     string
	start   int
	cur     int
	line    int
	col     int // column of the next unread character, 1-based
	lenient bool

	tokStartLine int
	tokStartCol  int

	tokens []token.Token
	errs   []*LexError
}

func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func NewLenient(src string) *Lexer {
	l := New(src)
	l.lenient = true
	return l
}

// Tokenize scans src strictly, returning the token slice ending in an EOF
// sentinel, or the first *LexError encountered.
func Tokenize(src string) ([]token.Token, error) {
	return New(src).Scan()
}

// Scan runs the lexer to completion. In strict mode the first error aborts;
// in lenient mode tokens and errors accumulate and Scan never fails.
func (l *Lexer) Scan() ([]token.Token, error) {
	for !l.atEnd() {
		l.markStart()
		if err := l.scanToken(); err != nil {
			if !l.lenient {
				return nil, err
			}
			l.errs = append(l.errs, err)
		}
	}
	l.markStart()
	l.add(token.EOF, "")
	return l.tokens, nil
}

// Errors returns the errors recorded during a lenient scan.
func (l *Lexer) Errors() []*LexError {
	return l.errs
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekNext() byte {
	if l.cur+1 >= len(l.src) {
		return 0
	}
	return l.src[l.cur+1]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) markStart() {
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col
}

func (l *Lexer) add(kind token.Kind, lexeme string) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Line:   l.tokStartLine,
		Col:    l.tokStartCol,
	})
}

func (l *Lexer) errorf(kind ErrorKind, line, col int, format string, args ...interface{}) *LexError {
	return &LexError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func (l *Lexer) scanToken() *LexError {
	ch := l.advance()

	switch ch {
	case ' ', '\t', '\r', '\n':
		return nil
	case '(':
		l.add(token.LPAREN, "(")
	case ')':
		l.add(token.RPAREN, ")")
	case '{':
		l.add(token.LBRACE, "{")
	case '}':
		l.add(token.RBRACE, "}")
	case '[':
		l.add(token.LBRACKET, "[")
	case ']':
		l.add(token.RBRACKET, "]")
	case ',':
		l.add(token.COMMA, ",")
	case ';':
		l.add(token.SEMI, ";")
	case ':':
		l.add(token.COLON, ":")
	case '+':
		l.add(token.PLUS, "+")
	case '-':
		l.add(token.MINUS, "-")
	case '*':
		l.add(token.STAR, "*")
	case '%':
		l.add(token.PERCENT, "%")
	case '/':
		switch l.peek() {
		case '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case '*':
			return l.skipBlockComment()
		default:
			l.add(token.SLASH, "/")
		}
	case '=':
		if l.peek() == '=' {
			l.advance()
			l.add(token.EQ, "==")
		} else {
			l.add(token.ASSIGN, "=")
		}
	case '!':
		if l.peek() == '=' {
			l.advance()
			l.add(token.NEQ, "!=")
		} else {
			l.add(token.BANG, "!")
		}
	case '<':
		if l.peek() == '=' {
			l.advance()
			l.add(token.LESS_EQ, "<=")
		} else {
			l.add(token.LESS, "<")
		}
	case '>':
		if l.peek() == '=' {
			l.advance()
			l.add(token.GREATER_EQ, ">=")
		} else {
			l.add(token.GREATER, ">")
		}
	case '&':
		if l.peek() == '&' {
			l.advance()
			l.add(token.AND, "&&")
		} else {
			l.add(token.ILLEGAL, "&")
			return l.errorf(UnexpectedChar, l.tokStartLine, l.tokStartCol, "unexpected character '&'")
		}
	case '|':
		if l.peek() == '|' {
			l.advance()
			l.add(token.OR, "||")
		} else {
			l.add(token.ILLEGAL, "|")
			return l.errorf(UnexpectedChar, l.tokStartLine, l.tokStartCol, "unexpected character '|'")
		}
	case '"':
		return l.scanString()
	default:
		if isDigit(ch) {
			l.scanInt()
			return nil
		}
		if isIdentStart(ch) {
			l.scanIdent()
			return nil
		}
		l.add(token.ILLEGAL, string(ch))
		return l.errorf(UnexpectedChar, l.tokStartLine, l.tokStartCol, "unexpected character %q", ch)
	}
	return nil
}

// skipBlockComment is entered with the cursor on the '*' of "/*". Block
// comments may span multiple lines but do not nest.
func (l *Lexer) skipBlockComment() *LexError {
	l.advance() // consume '*'
	for !l.atEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return l.errorf(UnterminatedComment, l.tokStartLine, l.tokStartCol, "unterminated block comment")
}

// scanString is entered with the opening quote consumed. A newline or EOF
// before the closing quote is an error; in lenient mode the partial content
// is still emitted as a STRING token so the linter can keep scanning.
func (l *Lexer) scanString() *LexError {
	var buf []byte
	for {
		if l.atEnd() || l.peek() == '\n' {
			if l.lenient {
				l.add(token.STRING, string(buf))
			}
			return l.errorf(UnterminatedString, l.tokStartLine, l.tokStartCol, "unterminated string literal")
		}
		ch := l.advance()
		if ch == '"' {
			l.add(token.STRING, string(buf))
			return nil
		}
		if ch == '\\' {
			if l.atEnd() {
				continue
			}
			esc := l.advance()
			switch esc {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			default:
				if l.lenient {
					buf = append(buf, esc)
					continue
				}
				return l.errorf(BadEscape, l.line, l.col-2, "unknown escape sequence '\\%c'", esc)
			}
			continue
		}
		buf = append(buf, ch)
	}
}

func (l *Lexer) scanInt() {
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	l.add(token.INT, l.src[l.start:l.cur])
}

func (l *Lexer) scanIdent() {
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	lit := l.src[l.start:l.cur]
	if kind, ok := token.Keywords[lit]; ok {
		l.add(kind, lit)
		return
	}
	l.add(token.IDENT, lit)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
