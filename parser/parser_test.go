// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"testing"

	"github.com/ruchy-lang/ruchy/ast"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	x, err := ParseExpr("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	return x
}

func TestParseLiterals(t *testing.T) {
	if lit, ok := parseExpr(t, "42").(*ast.IntLit); !ok || lit.Value != "42" {
		t.Errorf("got %#v, want IntLit(42)", parseExpr(t, "42"))
	}
	if lit, ok := parseExpr(t, "3.14").(*ast.FloatLit); !ok || lit.Value != "3.14" {
		t.Errorf("got %#v, want FloatLit(3.14)", parseExpr(t, "3.14"))
	}
	if lit, ok := parseExpr(t, `"hi"`).(*ast.StringLit); !ok || lit.Value != "hi" {
		t.Errorf("got %#v, want StringLit(hi)", parseExpr(t, `"hi"`))
	}
	if lit, ok := parseExpr(t, "true").(*ast.BoolLit); !ok || !lit.Value {
		t.Errorf("got %#v, want BoolLit(true)", parseExpr(t, "true"))
	}
	if _, ok := parseExpr(t, "null").(*ast.UnitLit); !ok {
		t.Errorf("got %#v, want UnitLit", parseExpr(t, "null"))
	}
	if lit, ok := parseExpr(t, ":ok").(*ast.AtomLit); !ok || lit.Name != "ok" {
		t.Errorf("got %#v, want AtomLit(ok)", parseExpr(t, ":ok"))
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should group as 1 + (2 * 3).
	x, ok := parseExpr(t, "1 + 2 * 3").(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %#v, want top-level BinaryExpr", x)
	}
	if _, ok := x.Y.(*ast.BinaryExpr); !ok {
		t.Errorf("rhs = %#v, want nested BinaryExpr for 2 * 3", x.Y)
	}
	if _, ok := x.X.(*ast.IntLit); !ok {
		t.Errorf("lhs = %#v, want IntLit", x.X)
	}
}

func TestParseRightAssociativePow(t *testing.T) {
	// 2 ** 3 ** 2 should group as 2 ** (3 ** 2).
	x, ok := parseExpr(t, "2 ** 3 ** 2").(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %#v, want BinaryExpr", x)
	}
	if _, ok := x.Y.(*ast.BinaryExpr); !ok {
		t.Errorf("rhs = %#v, want nested BinaryExpr (right-associative)", x.Y)
	}
}

func TestParsePipeDesugars(t *testing.T) {
	x, ok := parseExpr(t, "xs |> map(f)").(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %#v, want CallExpr (pipe desugared)", x)
	}
	if len(x.Args) != 1 {
		t.Fatalf("got %d args, want 1 (the piped lhs)", len(x.Args))
	}
	if _, ok := x.Args[0].(*ast.Ident); !ok {
		t.Errorf("arg[0] = %#v, want Ident(xs)", x.Args[0])
	}
}

func TestParseRange(t *testing.T) {
	x, ok := parseExpr(t, "0..10").(*ast.RangeExpr)
	if !ok {
		t.Fatalf("got %#v, want RangeExpr", x)
	}
	if x.Inclusive {
		t.Error("Inclusive = true, want false for '..'")
	}
	x2 := parseExpr(t, "0..=10").(*ast.RangeExpr)
	if !x2.Inclusive {
		t.Error("Inclusive = false, want true for '..='")
	}
}

func TestParseBlockVsMapLit(t *testing.T) {
	if _, ok := parseExpr(t, "{ 1; 2 }").(*ast.BlockExpr); !ok {
		t.Errorf("got %#v, want BlockExpr", parseExpr(t, "{ 1; 2 }"))
	}
	m, ok := parseExpr(t, `{ "a": 1, "b": 2 }`).(*ast.MapLit)
	if !ok {
		t.Fatalf("got %#v, want MapLit", m)
	}
	if len(m.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(m.Entries))
	}
}

func TestParseLetBodyAbsorption(t *testing.T) {
	// Body is nil when nothing follows the binding.
	let1 := parseExpr(t, "let x = 1").(*ast.LetExpr)
	if let1.Body != nil {
		t.Errorf("Body = %#v, want nil", let1.Body)
	}

	// Body absorbs the remainder of the ';'-sequence when something follows.
	let2 := parseExpr(t, "let x = 1; x + 1").(*ast.LetExpr)
	if let2.Body == nil {
		t.Fatal("Body = nil, want the trailing expression")
	}
	if _, ok := let2.Body.(*ast.BinaryExpr); !ok {
		t.Errorf("Body = %#v, want BinaryExpr", let2.Body)
	}
}

func TestParseIfElse(t *testing.T) {
	x := parseExpr(t, "if x { 1 } else { 2 }").(*ast.IfExpr)
	if x.Then == nil || x.Else == nil {
		t.Fatalf("got %#v, want both Then and Else set", x)
	}
	elseIf := parseExpr(t, "if x { 1 } else if y { 2 } else { 3 }").(*ast.IfExpr)
	if _, ok := elseIf.Else.(*ast.IfExpr); !ok {
		t.Errorf("Else = %#v, want chained IfExpr", elseIf.Else)
	}
}

func TestParseMatch(t *testing.T) {
	x := parseExpr(t, `match x { 0 => "zero", n if n > 0 => "pos", _ => "neg" }`).(*ast.MatchExpr)
	if len(x.Arms) != 3 {
		t.Fatalf("got %d arms, want 3", len(x.Arms))
	}
	if x.Arms[1].Guard == nil {
		t.Error("arm[1].Guard = nil, want the 'if n > 0' guard")
	}
	if _, ok := x.Arms[2].Pat.(*ast.WildcardPattern); !ok {
		t.Errorf("arm[2].Pat = %#v, want WildcardPattern", x.Arms[2].Pat)
	}
}

func TestParseListAndComprehension(t *testing.T) {
	list := parseExpr(t, "[1, 2, 3]").(*ast.ListLit)
	if len(list.Elts) != 3 {
		t.Fatalf("got %d elements, want 3", len(list.Elts))
	}
	comp := parseExpr(t, "[x * 2 for x in xs if x > 0]").(*ast.ListComprehension)
	if len(comp.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(comp.Clauses))
	}
	if _, ok := comp.Clauses[0].(*ast.ForClause); !ok {
		t.Errorf("clause[0] = %#v, want ForClause", comp.Clauses[0])
	}
	if _, ok := comp.Clauses[1].(*ast.IfClause); !ok {
		t.Errorf("clause[1] = %#v, want IfClause", comp.Clauses[1])
	}
}

func TestParseTupleAndUnit(t *testing.T) {
	if _, ok := parseExpr(t, "()").(*ast.UnitLit); !ok {
		t.Errorf("got %#v, want UnitLit", parseExpr(t, "()"))
	}
	tup := parseExpr(t, "(1, 2)").(*ast.TupleLit)
	if len(tup.Elts) != 2 {
		t.Errorf("got %d elts, want 2", len(tup.Elts))
	}
	if _, ok := parseExpr(t, "(1)").(*ast.ParenExpr); !ok {
		t.Errorf("got %#v, want ParenExpr for a singleton paren group", parseExpr(t, "(1)"))
	}
}

func TestParseClosureAndFuncLit(t *testing.T) {
	cl := parseExpr(t, "|a, b| a + b").(*ast.FuncLit)
	if len(cl.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(cl.Params))
	}
	fl := parseExpr(t, "fun(a: Int) -> Int { a }").(*ast.FuncLit)
	if fl.ReturnType == nil {
		t.Error("ReturnType = nil, want Int")
	}
}

func TestParseGenericType(t *testing.T) {
	f, err := ParseFile("g.ruchy", `fun head(xs: List<Int>) -> Int { 0 }`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	decl := f.Decls[0].(*ast.FuncDecl)
	typ, ok := decl.Params[0].Type.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("param type = %#v, want IndexExpr", decl.Params[0].Type)
	}
	if _, ok := typ.Index.(*ast.Ident); !ok {
		t.Errorf("type arg = %#v, want Ident(Int)", typ.Index)
	}
}

func TestParseNestedGenericClosingAngles(t *testing.T) {
	f, err := ParseFile("g2.ruchy", `fun f(xs: List<List<Int>>) -> Int { 0 }`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	decl := f.Decls[0].(*ast.FuncDecl)
	outer, ok := decl.Params[0].Type.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("param type = %#v, want IndexExpr", decl.Params[0].Type)
	}
	if _, ok := outer.Index.(*ast.IndexExpr); !ok {
		t.Errorf("type arg = %#v, want nested IndexExpr for List<Int>", outer.Index)
	}
}

func TestParseFString(t *testing.T) {
	x := parseExpr(t, `f"hello {name}, you are {age + 1}"`).(*ast.FStringLit)
	var exprSegs int
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			exprSegs++
		}
	}
	if exprSegs != 2 {
		t.Errorf("got %d expression segments, want 2", exprSegs)
	}
}

func TestParsePatterns(t *testing.T) {
	f, err := ParseFile("p.ruchy", `
		match p {
			(a, b) => 1,
			Point { x, y } => 2,
			Some(v) => 3,
			None => 4,
			[a, ..rest] => 5,
			1 | 2 | 3 => 6,
			_ => 7,
		}
	`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	decl := f.Decls[0].(*ast.ExprDecl)
	m := decl.X.(*ast.MatchExpr)
	if len(m.Arms) != 7 {
		t.Fatalf("got %d arms, want 7", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pat.(*ast.TuplePattern); !ok {
		t.Errorf("arm[0] = %#v, want TuplePattern", m.Arms[0].Pat)
	}
	if _, ok := m.Arms[1].Pat.(*ast.StructPattern); !ok {
		t.Errorf("arm[1] = %#v, want StructPattern", m.Arms[1].Pat)
	}
	if _, ok := m.Arms[2].Pat.(*ast.EnumVariantPattern); !ok {
		t.Errorf("arm[2] = %#v, want EnumVariantPattern", m.Arms[2].Pat)
	}
	if _, ok := m.Arms[4].Pat.(*ast.ListPattern); !ok {
		t.Errorf("arm[4] = %#v, want ListPattern", m.Arms[4].Pat)
	}
	if _, ok := m.Arms[5].Pat.(*ast.OrPattern); !ok {
		t.Errorf("arm[5] = %#v, want OrPattern", m.Arms[5].Pat)
	}
}

func TestParseStructEnumTraitImpl(t *testing.T) {
	f, err := ParseFile("decls.ruchy", `
		struct Point { x: Int, y: Int }

		enum Shape {
			Circle(Float),
			Rect { w: Float, h: Float },
			Empty,
		}

		trait Area {
			fun area(self) -> Float;
		}

		impl Area for Shape {
			fun area(self) -> Float { 0.0 }
		}
	`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Decls) != 4 {
		t.Fatalf("got %d decls, want 4", len(f.Decls))
	}
	sd := f.Decls[0].(*ast.StructDecl)
	if len(sd.Fields) != 2 {
		t.Errorf("got %d fields, want 2", len(sd.Fields))
	}
	ed := f.Decls[1].(*ast.EnumDecl)
	if len(ed.Variants) != 3 {
		t.Errorf("got %d variants, want 3", len(ed.Variants))
	}
	td := f.Decls[2].(*ast.TraitDecl)
	if len(td.Methods) != 1 || len(td.Methods[0].Body.Exprs) != 0 {
		t.Errorf("trait method should have an empty signature-only body")
	}
	id := f.Decls[3].(*ast.ImplDecl)
	if id.Trait == nil || id.Trait.Name != "Area" {
		t.Errorf("impl Trait = %#v, want Area", id.Trait)
	}
}

func TestParseUseAndMod(t *testing.T) {
	f, err := ParseFile("mods.ruchy", `
		use std::collections::List as Lst;

		mod util {
			fun double(x: Int) -> Int { x * 2 }
		}
	`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	ud := f.Decls[0].(*ast.UseDecl)
	if ud.Alias == nil || ud.Alias.Name != "Lst" {
		t.Errorf("Alias = %#v, want Lst", ud.Alias)
	}
	if len(ud.Path.Components) != 3 {
		t.Errorf("got %d path components, want 3", len(ud.Path.Components))
	}
	md := f.Decls[1].(*ast.ModDecl)
	if len(md.Decls) != 1 {
		t.Errorf("got %d decls in mod, want 1", len(md.Decls))
	}
}

func TestParseLoopsAndLabels(t *testing.T) {
	f, err := ParseFile("loops.ruchy", `
		'outer: while true {
			for x in xs {
				break 'outer;
			}
		}
	`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	decl := f.Decls[0].(*ast.ExprDecl)
	w := decl.X.(*ast.WhileExpr)
	if w.Label == nil || w.Label.Name != "outer" {
		t.Errorf("Label = %#v, want outer", w.Label)
	}
}

func TestParseAssignOps(t *testing.T) {
	f, err := ParseFile("assign.ruchy", `x += 1`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	decl := f.Decls[0].(*ast.ExprDecl)
	a, ok := decl.X.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("got %#v, want AssignExpr", decl.X)
	}
	if a.Op.String() != "+=" {
		t.Errorf("Op = %v, want +=", a.Op)
	}
}
