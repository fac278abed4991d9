package format

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/parser"
)

func formatSrc(t *testing.T, src string) string {
	t.Helper()
	f, err := parser.ParseFile("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}
	out, err := Source(f)
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	return out
}

func TestFuncDecl(t *testing.T) {
	got := formatSrc(t, "fun add(x: i64, y: i64) -> i64 { x + y }")
	want := "fun add(x: i64, y: i64) -> i64 {\n    x + y\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestStructDecl(t *testing.T) {
	got := formatSrc(t, "struct Point { x: i64, y: i64 }")
	want := "struct Point {\n    x: i64,\n    y: i64,\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	// Integer underscores and hex spellings are preserved verbatim since
	// IntLit.Value carries the raw source text.
	for _, src := range []string{
		"fun f() { 1_000 }",
		"fun f() { 0x1F }",
		"fun f() { 3.14 }",
	} {
		got := formatSrc(t, src)
		lit := strings.TrimSuffix(strings.TrimPrefix(src, "fun f() { "), " }")
		if !strings.Contains(got, lit) {
			t.Errorf("formatSrc(%q) = %q, want it to contain %q", src, got, lit)
		}
	}
}

func TestIfElse(t *testing.T) {
	got := formatSrc(t, `fun f(x: i64) -> i64 { if x > 0 { x } else { 0 - x } }`)
	if !strings.Contains(got, "if x > 0 {") || !strings.Contains(got, "} else {") {
		t.Errorf("formatSrc if/else = %q", got)
	}
}

func TestMatchExpr(t *testing.T) {
	got := formatSrc(t, `fun f(x: i64) -> i64 { match x { 0 => 1, _ => x } }`)
	if !strings.Contains(got, "match x {") || !strings.Contains(got, "_ => x,") {
		t.Errorf("formatSrc match = %q", got)
	}
}

func TestFuncLitBarPreserved(t *testing.T) {
	got := formatSrc(t, "fun f() { |x| x + 1 }")
	if !strings.Contains(got, "|x|") {
		t.Errorf("formatSrc bar-lambda = %q, want |x| shorthand preserved", got)
	}
}

func TestFuncLitFunFormPreserved(t *testing.T) {
	got := formatSrc(t, "fun f() { fun(x) x + 1 }")
	if !strings.Contains(got, "fun(x)") {
		t.Errorf("formatSrc fun-lambda = %q, want fun(x) form preserved", got)
	}
}

func TestUseDecl(t *testing.T) {
	got := formatSrc(t, "use collections::List")
	want := "use collections::List\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListComprehension(t *testing.T) {
	got := formatSrc(t, "fun f() { [x for x in xs if x > 0] }")
	if !strings.Contains(got, "[x for x in xs if x > 0]") {
		t.Errorf("formatSrc comprehension = %q", got)
	}
}
