package format

import (
	"fmt"
	"strconv"

	"github.com/ruchy-lang/ruchy/ast"
)

// expr renders x as Ruchy source text. Literal nodes carry their original
// source text (IntLit.Value, StringLit.Raw, CharLit.Raw, FStringLit.Raw,
// FloatLit.Value) and are emitted verbatim rather than reconstructed, so a
// parse-then-format round trip reproduces the input exactly for anything
// not touched by this pass (digit grouping, escape spelling, and so on).
func (p *printer) expr(x ast.Expr) string {
	switch e := x.(type) {
	case nil:
		return ""
	case *ast.BadExpr:
		return "/* bad expr */"
	case *ast.Ident:
		return e.Name
	case *ast.IntLit:
		return e.Value
	case *ast.FloatLit:
		return e.Value
	case *ast.StringLit:
		return e.Raw
	case *ast.FStringLit:
		return e.Raw
	case *ast.CharLit:
		return e.Raw
	case *ast.BoolLit:
		return strconv.FormatBool(e.Value)
	case *ast.AtomLit:
		return ":" + e.Name
	case *ast.UnitLit:
		return "()"
	case *ast.ParenExpr:
		return "(" + p.expr(e.X) + ")"
	case *ast.BinaryExpr:
		return p.expr(e.X) + " " + e.Op.String() + " " + p.expr(e.Y)
	case *ast.UnaryExpr:
		return e.Op.String() + p.expr(e.X)
	case *ast.AssignExpr:
		return p.expr(e.Target) + " " + e.Op.String() + " " + p.expr(e.Value)
	case *ast.LetExpr:
		return p.letExpr(e)
	case *ast.BlockExpr:
		return p.blockString(e)
	case *ast.IfExpr:
		return p.ifExpr(e)
	case *ast.MatchExpr:
		return p.matchExpr(e)
	case *ast.WhileExpr:
		return p.label(e.Label) + "while " + p.expr(e.Cond) + " " + p.blockString(e.Body)
	case *ast.ForExpr:
		return p.label(e.Label) + "for " + p.pattern(e.Pat) + " in " + p.expr(e.Iter) + " " + p.blockString(e.Body)
	case *ast.LoopExpr:
		return p.label(e.Label) + "loop " + p.blockString(e.Body)
	case *ast.BreakExpr:
		return p.jumpExpr("break", e.Label, e.Value)
	case *ast.ContinueExpr:
		s := "continue"
		if e.Label != nil {
			s += " '" + e.Label.Name
		}
		return s
	case *ast.ReturnExpr:
		return p.jumpExpr("return", nil, e.Value)
	case *ast.Param:
		s := p.pattern(e.Pat)
		if e.Type != nil {
			s += ": " + p.expr(e.Type)
		}
		return s
	case *ast.FuncLit:
		return p.funcLit(e)
	case *ast.CallExpr:
		return p.expr(e.Fun) + "(" + p.exprList(e.Args) + ")"
	case *ast.MethodCallExpr:
		return p.expr(e.Recv) + "." + e.Method.Name + "(" + p.exprList(e.Args) + ")"
	case *ast.SelectorExpr:
		return p.expr(e.X) + "." + e.Sel.Name
	case *ast.IndexExpr:
		return p.expr(e.X) + "[" + p.expr(e.Index) + "]"
	case *ast.ListLit:
		return "[" + p.exprList(e.Elts) + "]"
	case *ast.TupleLit:
		return "(" + p.exprList(e.Elts) + ")"
	case *ast.MapLit:
		return p.mapLit(e)
	case *ast.ListComprehension:
		return p.comprehension(e)
	case *ast.RangeExpr:
		return p.rangeExpr(e)
	case *ast.AsyncExpr:
		return "async " + p.blockString(e.Body)
	case *ast.AwaitExpr:
		return "await " + p.expr(e.X)
	case *ast.AttrExpr:
		return "@" + e.Name.Name + "(" + p.exprList(e.Args) + ") " + p.expr(e.X)
	case *ast.PathExpr:
		return p.pathExpr(e)
	default:
		return fmt.Sprintf("/* unsupported expr %T */", x)
	}
}

func (p *printer) exprList(xs []ast.Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = p.expr(x)
	}
	return join(parts, ", ")
}

func (p *printer) pathExpr(e *ast.PathExpr) string {
	parts := make([]string, len(e.Components))
	for i, c := range e.Components {
		parts[i] = c.Name
	}
	return join(parts, "::")
}

func (p *printer) label(l *ast.Ident) string {
	if l == nil {
		return ""
	}
	return "'" + l.Name + ": "
}

func (p *printer) jumpExpr(kw string, label *ast.Ident, value ast.Expr) string {
	s := kw
	if label != nil {
		s += " '" + label.Name
	}
	if value != nil {
		s += " " + p.expr(value)
	}
	return s
}

func (p *printer) letExpr(e *ast.LetExpr) string {
	s := "let "
	if e.Mutable {
		s += "mut "
	}
	s += p.pattern(e.Pat)
	if e.Type != nil {
		s += ": " + p.expr(e.Type)
	}
	s += " = " + p.expr(e.Value)
	if e.Body != nil {
		s += "\n" + indentPrefix(p.indent) + p.expr(e.Body)
	}
	return s
}

func indentPrefix(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += indentUnit
	}
	return s
}

func (p *printer) ifExpr(e *ast.IfExpr) string {
	s := "if " + p.expr(e.Cond) + " " + p.blockString(e.Then)
	if e.Else != nil {
		s += " else "
		switch els := e.Else.(type) {
		case *ast.IfExpr:
			s += p.ifExpr(els)
		case *ast.BlockExpr:
			s += p.blockString(els)
		default:
			s += p.expr(e.Else)
		}
	}
	return s
}

func (p *printer) matchExpr(e *ast.MatchExpr) string {
	s := "match " + p.expr(e.Scrutinee) + " {\n"
	p.indent++
	for _, arm := range e.Arms {
		s += indentPrefix(p.indent) + p.pattern(arm.Pat)
		if arm.Guard != nil {
			s += " if " + p.expr(arm.Guard)
		}
		s += " => " + p.expr(arm.Body) + ",\n"
	}
	p.indent--
	s += indentPrefix(p.indent) + "}"
	return s
}

func (p *printer) funcLit(e *ast.FuncLit) string {
	if e.Bar {
		parts := make([]string, len(e.Params))
		for i, prm := range e.Params {
			parts[i] = p.pattern(prm.Pat)
			if prm.Type != nil {
				parts[i] += ": " + p.expr(prm.Type)
			}
		}
		s := "|" + join(parts, ", ") + "|"
		if e.ReturnType != nil {
			s += " -> " + p.expr(e.ReturnType)
		}
		return s + " " + p.expr(e.Body)
	}
	s := "fun(" + p.paramList(e.Params) + ")"
	if e.ReturnType != nil {
		s += " -> " + p.expr(e.ReturnType)
	}
	return s + " " + p.expr(e.Body)
}

func (p *printer) mapLit(e *ast.MapLit) string {
	if len(e.Entries) == 0 {
		return "{}"
	}
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = p.expr(entry.Key) + ": " + p.expr(entry.Value)
	}
	return "{" + join(parts, ", ") + "}"
}

func (p *printer) rangeExpr(e *ast.RangeExpr) string {
	op := ".."
	if e.Inclusive {
		op = "..="
	}
	s := op
	if e.Low != nil {
		s = p.expr(e.Low) + s
	}
	if e.High != nil {
		s += p.expr(e.High)
	}
	return s
}

func (p *printer) comprehension(e *ast.ListComprehension) string {
	s := "[" + p.expr(e.Expr)
	for _, c := range e.Clauses {
		switch cl := c.(type) {
		case *ast.ForClause:
			s += " for " + p.pattern(cl.Pat) + " in " + p.expr(cl.Source)
		case *ast.IfClause:
			s += " if " + p.expr(cl.Cond)
		}
	}
	return s + "]"
}
