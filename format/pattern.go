package format

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/ast"
)

func (p *printer) pattern(pat ast.Pattern) string {
	switch x := pat.(type) {
	case nil:
		return "_"
	case *ast.WildcardPattern:
		return "_"
	case *ast.BindingPattern:
		if x.Mutable {
			return "mut " + x.Name.Name
		}
		return x.Name.Name
	case *ast.LiteralPattern:
		return p.expr(x.Value)
	case *ast.TuplePattern:
		parts := make([]string, len(x.Elts))
		for i, e := range x.Elts {
			parts[i] = p.pattern(e)
		}
		return "(" + join(parts, ", ") + ")"
	case *ast.StructPattern:
		return p.structPattern(x)
	case *ast.EnumVariantPattern:
		return p.enumVariantPattern(x)
	case *ast.ListPattern:
		return p.listPattern(x)
	case *ast.OrPattern:
		parts := make([]string, len(x.Alts))
		for i, a := range x.Alts {
			parts[i] = p.pattern(a)
		}
		return join(parts, " | ")
	default:
		return fmt.Sprintf("/* unsupported pattern %T */", pat)
	}
}

func (p *printer) structPattern(x *ast.StructPattern) string {
	prefix := ""
	if x.Name != nil {
		prefix = x.Name.Name + " "
	}
	parts := make([]string, len(x.Fields))
	for i, f := range x.Fields {
		if bp, ok := f.Pat.(*ast.BindingPattern); ok && !bp.Mutable && bp.Name.Name == f.Name.Name {
			parts[i] = f.Name.Name
			continue
		}
		parts[i] = f.Name.Name + ": " + p.pattern(f.Pat)
	}
	if x.Rest {
		parts = append(parts, "..")
	}
	return prefix + "{ " + join(parts, ", ") + " }"
}

func (p *printer) enumVariantPattern(x *ast.EnumVariantPattern) string {
	names := make([]string, len(x.Path))
	for i, id := range x.Path {
		names[i] = id.Name
	}
	path := join(names, "::")
	if !x.IsStruct {
		if len(x.Elts) == 0 && !x.Rparen.IsValid() {
			return path
		}
		parts := make([]string, len(x.Elts))
		for i, e := range x.Elts {
			parts[i] = p.pattern(e)
		}
		return path + "(" + join(parts, ", ") + ")"
	}
	parts := make([]string, len(x.Fields))
	for i, f := range x.Fields {
		parts[i] = f.Name.Name + ": " + p.pattern(f.Pat)
	}
	if x.Rest {
		parts = append(parts, "..")
	}
	return path + " { " + join(parts, ", ") + " }"
}

func (p *printer) listPattern(x *ast.ListPattern) string {
	parts := make([]string, len(x.Elts))
	for i, e := range x.Elts {
		parts[i] = p.pattern(e)
	}
	if x.Rest != nil {
		parts = append(parts, ".."+x.Rest.Name)
	}
	return "[" + join(parts, ", ") + "]"
}
