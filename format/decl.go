package format

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/ast"
)

func pub(p bool) string {
	if p {
		return "pub "
	}
	return ""
}

func (p *printer) decl(d ast.Decl) {
	switch x := d.(type) {
	case *ast.BadDecl:
		p.line("/* bad decl */")
	case *ast.FuncDecl:
		p.funcDecl(x)
	case *ast.StructDecl:
		p.structDecl(x)
	case *ast.EnumDecl:
		p.enumDecl(x)
	case *ast.TraitDecl:
		p.traitDecl(x)
	case *ast.ImplDecl:
		p.implDecl(x)
	case *ast.UseDecl:
		p.useDecl(x)
	case *ast.ModDecl:
		p.modDecl(x)
	case *ast.ExprDecl:
		p.line(p.expr(x.X))
	default:
		p.line(fmt.Sprintf("/* unsupported decl %T */", d))
	}
}

func (p *printer) paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		s := p.pattern(prm.Pat)
		if prm.Type != nil {
			s += ": " + p.expr(prm.Type)
		}
		parts[i] = s
	}
	return join(parts, ", ")
}

func (p *printer) funcSignature(name string, params []*ast.Param, ret ast.Expr) string {
	sig := "fun " + name + "(" + p.paramList(params) + ")"
	if ret != nil {
		sig += " -> " + p.expr(ret)
	}
	return sig
}

func (p *printer) funcDecl(x *ast.FuncDecl) {
	sig := pub(x.Pub) + p.funcSignature(x.Name.Name, x.Params, x.ReturnType)
	p.line(sig + " " + p.blockString(x.Body))
}

func (p *printer) structDecl(x *ast.StructDecl) {
	if len(x.Fields) == 0 {
		p.line(pub(x.Pub) + "struct " + x.Name.Name + " {}")
		return
	}
	p.line(pub(x.Pub) + "struct " + x.Name.Name + " {")
	p.indent++
	for _, f := range x.Fields {
		p.line(pub(f.Pub) + f.Name.Name + ": " + p.expr(f.Type) + ",")
	}
	p.indent--
	p.line("}")
}

func (p *printer) variant(v *ast.VariantDef) string {
	switch {
	case len(v.Fields) > 0:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name.Name + ": " + p.expr(f.Type)
		}
		return v.Name.Name + " { " + join(parts, ", ") + " }"
	case len(v.Elts) > 0:
		parts := make([]string, len(v.Elts))
		for i, e := range v.Elts {
			parts[i] = p.expr(e)
		}
		return v.Name.Name + "(" + join(parts, ", ") + ")"
	default:
		return v.Name.Name
	}
}

func (p *printer) enumDecl(x *ast.EnumDecl) {
	p.line(pub(x.Pub) + "enum " + x.Name.Name + " {")
	p.indent++
	for _, v := range x.Variants {
		p.line(p.variant(v) + ",")
	}
	p.indent--
	p.line("}")
}

func (p *printer) traitDecl(x *ast.TraitDecl) {
	p.line(pub(x.Pub) + "trait " + x.Name.Name + " {")
	p.indent++
	for _, m := range x.Methods {
		p.funcDecl(m)
	}
	p.indent--
	p.line("}")
}

func (p *printer) implDecl(x *ast.ImplDecl) {
	header := "impl "
	if x.Trait != nil {
		header += x.Trait.Name + " for "
	}
	header += x.Type.Name + " {"
	p.line(header)
	p.indent++
	for _, m := range x.Methods {
		p.funcDecl(m)
	}
	p.indent--
	p.line("}")
}

func (p *printer) useDecl(x *ast.UseDecl) {
	s := "use " + x.Path.String()
	if x.Alias != nil {
		s += " as " + x.Alias.Name
	}
	p.line(s)
}

func (p *printer) modDecl(x *ast.ModDecl) {
	p.line(pub(x.Pub) + "mod " + x.Name.Name + " {")
	p.indent++
	for _, d := range x.Decls {
		p.decl(d)
	}
	p.indent--
	p.line("}")
}

func join(parts []string, sep string) string {
	out := ""
	for i, s := range parts {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}
