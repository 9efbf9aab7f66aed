package lint

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func warningsOf(t *testing.T, src string) []Warning {
	t.Helper()
	return New(nil).LintSource("test.cl", src)
}

func codesOf(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

func TestMissingTypeAnnotation(t *testing.T) {
	ws := warningsOf(t, "fn main(): void {\n\tlet x int = 1;\n}\n")
	if len(ws) != 1 || ws[0].Code != "W003" {
		t.Fatalf("want a single W003, got %v", ws)
	}
	if ws[0].Line != 2 {
		t.Fatalf("line: want 2, got %d", ws[0].Line)
	}
}

func TestUnclosedBrace(t *testing.T) {
	ws := warningsOf(t, "fn main(): void {\n\tlet x: int = 1;\n")
	if len(ws) != 1 || ws[0].Code != "W004" {
		t.Fatalf("want a single W004, got %v", ws)
	}
	if ws[0].Line != 1 || ws[0].Col != 17 {
		t.Fatalf("position: want 1:17, got %d:%d", ws[0].Line, ws[0].Col)
	}
}

func TestUnmatchedCloser(t *testing.T) {
	ws := warningsOf(t, "fn main(): void {\n\tlet x: int = (1 + 2];\n}\n")
	found := false
	for _, w := range ws {
		if w.Code == "W004" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want W004, got %v", ws)
	}
}

func TestMissingSemicolon(t *testing.T) {
	ws := warningsOf(t, "fn main(): void { print(1) x = 1; }\n")
	if got := codesOf(ws); !reflect.DeepEqual(got, []string{"W001"}) {
		t.Fatalf("want [W001], got %v (%v)", got, ws)
	}
}

func TestUndefinedVariableUse(t *testing.T) {
	ws := warningsOf(t, "fn main(): void { print(y); }\n")
	if got := codesOf(ws); !reflect.DeepEqual(got, []string{"W002"}) {
		t.Fatalf("want [W002], got %v (%v)", got, ws)
	}
}

func TestUndefinedVariableAssignment(t *testing.T) {
	ws := warningsOf(t, "fn main(): void { y = 2; }\n")
	if got := codesOf(ws); !reflect.DeepEqual(got, []string{"W002"}) {
		t.Fatalf("want [W002], got %v (%v)", got, ws)
	}
}

func TestParamsAndFunctionsCountAsBindings(t *testing.T) {
	src := `fn add(a: int, b: int): int { return a + b; }
fn main(): void { let y: int = add(40, 2); print(y); }
`
	if ws := warningsOf(t, src); len(ws) != 0 {
		t.Fatalf("want no warnings, got %v", ws)
	}
}

func TestLetBindingVisibleAfterDeclaration(t *testing.T) {
	src := `fn main(): void {
	let x: int = 1;
	x = x + 1;
	if (x > 0) { print(x); }
}
`
	if ws := warningsOf(t, src); len(ws) != 0 {
		t.Fatalf("want no warnings, got %v", ws)
	}
}

func TestControlWithoutParen(t *testing.T) {
	ws := warningsOf(t, "fn main(): void { while true { } }\n")
	if got := codesOf(ws); !reflect.DeepEqual(got, []string{"W005"}) {
		t.Fatalf("want [W005], got %v (%v)", got, ws)
	}
}

func TestUnclosedString(t *testing.T) {
	ws := warningsOf(t, "fn main(): void { print(\"abc); }\n")
	found := false
	for _, w := range ws {
		if w.Code == "W006" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want W006, got %v", ws)
	}
}

func TestWarningsSortedByPosition(t *testing.T) {
	src := "fn main(): void {\n\twhile true { }\n\tlet a int = 1;\n}\n"
	ws := warningsOf(t, src)
	if got := codesOf(ws); !reflect.DeepEqual(got, []string{"W005", "W003"}) {
		t.Fatalf("want [W005 W003] in line order, got %v (%v)", got, ws)
	}
}

func TestIdempotence(t *testing.T) {
	src := "fn main(): void {\n\tlet a int = 1;\n\twhile true { }\n"
	first := warningsOf(t, src)
	second := warningsOf(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("linting twice differs:\n%v\n%v", first, second)
	}
}

func TestDisabledCodes(t *testing.T) {
	l := New(&Config{Disable: []string{"W003"}})
	ws := l.LintSource("test.cl", "fn main(): void {\n\tlet x int = 1;\n}\n")
	if len(ws) != 0 {
		t.Fatalf("W003 disabled, got %v", ws)
	}
}

func TestMultiFileOrdering(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cl")
	b := filepath.Join(dir, "b.cl")
	if err := os.WriteFile(a, []byte("fn main(): void {\n\tlet x int = 1;\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("fn other(): void { while true { } }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws, err := New(nil).LintFiles([]string{a, b})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	if len(ws) != 2 {
		t.Fatalf("want 2 warnings, got %v", ws)
	}
	if ws[0].File != a || ws[0].Code != "W003" {
		t.Fatalf("first warning: %v", ws[0])
	}
	if ws[1].File != b || ws[1].Code != "W005" {
		t.Fatalf("second warning: %v", ws[1])
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Code: "W003", Message: "missing ':' type annotation in variable declaration", File: "x.cl", Line: 2, Col: 6}
	want := "x.cl:2:6: W003 missing ':' type annotation in variable declaration"
	if w.String() != want {
		t.Fatalf("want %q, got %q", want, w.String())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clite-lint.yml")
	if err := os.WriteFile(path, []byte("disable: [W001, W003]\nfail-on-warn: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Disable, []string{"W001", "W003"}) || !cfg.FailOnWarn {
		t.Fatalf("config: %+v", cfg)
	}
	if !New(cfg).FailOnWarn() {
		t.Fatalf("FailOnWarn should reflect the config")
	}
}
