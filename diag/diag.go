// Package diag renders positioned errors as caret-annotated source snippets:
//
//	parse error in examples/bad.cl at 3:12: expected ';', found ')'
//
//	   2 | let x: int = (1 + 2
//	   3 |              );
//	     |            ^
//
// Plain errors without a known position pass through unchanged.
package diag

import (
	"fmt"
	"strings"

	"github.com/clitelang/clite/interp"
	"github.com/clitelang/clite/lexer"
	"github.com/clitelang/clite/parser"
)

// Render formats err against the source text it came from. name is the file
// name shown in the header; it may be empty.
func Render(err error, name, src string) string {
	switch e := err.(type) {
	case *lexer.LexError:
		return snippet(src, "lex error", name, e.Line, e.Col, e.Msg)
	case *parser.ParseError:
		msg := fmt.Sprintf("expected %s, found %q", e.Expected, e.Found)
		return snippet(src, "parse error", name, e.Line, e.Col, msg)
	case *interp.RuntimeError:
		return snippet(src, fmt.Sprintf("runtime error (%s)", e.Kind), name, e.Line, e.Col, e.Msg)
	default:
		return err.Error()
	}
}

// snippet shows the offending line with one line of context on each side and
// a caret under the 1-based column. Out-of-range positions are clamped so
// rendering never fails.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
