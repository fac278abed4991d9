package transpile

import (
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
)

// rustPattern renders pat as a Rust pattern, used both for `let` targets and
// `match` arms (spec 4.5's "Pattern match -> target's native match where
// available" — Rust's match natively covers every pattern kind spec 3.3
// defines, so no if/else decision-tree fallback is needed here, unlike a
// target without first-class pattern matching).
func (em *emitter) rustPattern(pat ast.Pattern) string {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.BindingPattern:
		if p.Mutable {
			return "mut " + p.Name.Name
		}
		return p.Name.Name
	case *ast.LiteralPattern:
		return em.rustExpr(p.Value)
	case *ast.TuplePattern:
		parts := make([]string, len(p.Elts))
		for i, e := range p.Elts {
			parts[i] = em.rustPattern(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ListPattern:
		parts := make([]string, len(p.Elts))
		for i, e := range p.Elts {
			parts[i] = em.rustPattern(e)
		}
		if p.Rest != nil {
			parts = append(parts, p.Rest.Name+" @ ..")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.StructPattern:
		parts := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			parts[i] = f.Name.Name + ": " + em.rustPattern(f.Pat)
		}
		if p.Rest {
			parts = append(parts, "..")
		}
		name := "Self"
		if p.Name != nil {
			name = p.Name.Name
		}
		return name + " { " + strings.Join(parts, ", ") + " }"
	case *ast.EnumVariantPattern:
		return em.rustEnumVariantPattern(p)
	case *ast.OrPattern:
		parts := make([]string, len(p.Alts))
		for i, a := range p.Alts {
			parts[i] = em.rustPattern(a)
		}
		return strings.Join(parts, " | ")
	}
	em.errf(pat.Pos(), "transpile: unsupported pattern %T", pat)
	return "_"
}

func (em *emitter) rustEnumVariantPattern(p *ast.EnumVariantPattern) string {
	names := make([]string, len(p.Path))
	for i, id := range p.Path {
		names[i] = id.Name
	}
	path := strings.Join(names, "::")
	if p.IsStruct {
		parts := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			parts[i] = f.Name.Name + ": " + em.rustPattern(f.Pat)
		}
		if p.Rest {
			parts = append(parts, "..")
		}
		return path + " { " + strings.Join(parts, ", ") + " }"
	}
	if len(p.Elts) == 0 {
		return path
	}
	parts := make([]string, len(p.Elts))
	for i, e := range p.Elts {
		parts[i] = em.rustPattern(e)
	}
	return path + "(" + strings.Join(parts, ", ") + ")"
}
