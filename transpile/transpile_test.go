package transpile_test

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/transpile"
	"github.com/ruchy-lang/ruchy/types"
)

func transpileSrc(t *testing.T, src string) *transpile.Result {
	t.Helper()
	f, err := parser.ParseFile("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}
	inferred := types.Infer(f)
	return transpile.File(f, inferred)
}

func TestFuncDeclEmitsTypedSignature(t *testing.T) {
	res := transpileSrc(t, "fun add(a: Int, b: Int) -> Int { a + b }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "fn add(a: i64, b: i64) -> i64")))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "a + b")))
}

func TestPubFuncEmitsExactlyOnePub(t *testing.T) {
	res := transpileSrc(t, "pub fun f() -> Int { 1 }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.Equals(strings.Count(res.Source, "pub fn f"), 1))
}

func TestUnitReturnOmitsArrow(t *testing.T) {
	res := transpileSrc(t, "fun f() { () }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsFalse(strings.Contains(res.Source, "->")))
}

func TestStructDeclEmitsFields(t *testing.T) {
	res := transpileSrc(t, "struct Point { x: Int, y: Int }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "struct Point {")))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "x: i64,")))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "y: i64,")))
}

func TestEnumDeclWithTupleVariant(t *testing.T) {
	res := transpileSrc(t, "enum Shape { Circle(Float), Unit }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "enum Shape {")))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "Circle(f64),")))
}

func TestUseDeclDedupesRepeatedImports(t *testing.T) {
	res := transpileSrc(t, "use a::b; use a::b; fun f() { 1 }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.Equals(strings.Count(res.Source, "use a::b;"), 1))
}

func TestModDeclWrapsInnerDecls(t *testing.T) {
	res := transpileSrc(t, "mod m { pub fun f() -> Int { 7 } }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "mod m {")))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "pub fn f")))
}

func TestListLitEmitsVecMacro(t *testing.T) {
	res := transpileSrc(t, "fun f() { [1, 2, 3] }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "vec![1, 2, 3]")))
}

func TestSingleElementTupleGetsTrailingComma(t *testing.T) {
	res := transpileSrc(t, "fun f() { (1,) }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "(1,)")))
}

func TestUnresolvedTypeErrorsBlocksTranspilation(t *testing.T) {
	// spec 4.3: a transpile request fails with TypeError when the type
	// environment is not fully solved, rather than emitting partial output.
	res := transpileSrc(t, "fun f() { [1, true] }")
	qt.Assert(t, qt.IsNotNil(res.Errs))
	qt.Check(t, qt.Equals(res.Source, ""))
}

func TestSpansCoverEveryTopLevelDecl(t *testing.T) {
	res := transpileSrc(t, "fun a() { 1 };\nfun b() { 2 }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Assert(t, qt.Equals(len(res.Spans), 2))
	for _, sp := range res.Spans {
		qt.Check(t, qt.IsTrue(sp.End > sp.Start))
	}
}

func TestIfExprRoundTrips(t *testing.T) {
	res := transpileSrc(t, "fun f(b: Bool) -> Int { if b { 1 } else { 2 } }")
	qt.Assert(t, qt.IsNil(res.Errs))
	qt.Check(t, qt.IsTrue(strings.Contains(res.Source, "if b")))
}
