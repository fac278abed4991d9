package transpile

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/literal"
	"github.com/ruchy-lang/ruchy/token"
)

// rustExpr renders x as a Rust expression. Every case corresponds to one
// canonical emission pattern (spec 4.5's "every AST node kind has exactly
// one canonical emission pattern"), so the mapping is reversible in
// principle even though no reverse-transpiler is built here.
func (em *emitter) rustExpr(x ast.Expr) string {
	switch e := x.(type) {
	case *ast.IntLit:
		n, err := literal.ParseInt(e.Value)
		if err != nil {
			em.errf(e.Pos(), "transpile: %v", err)
			return "0"
		}
		return strconv.FormatInt(n, 10)
	case *ast.FloatLit:
		return strings.TrimSuffix(e.Value, "_")
	case *ast.StringLit:
		return literal.Quote(e.Value)
	case *ast.FStringLit:
		return em.rustFString(e)
	case *ast.CharLit:
		r := []rune(e.Value)[0]
		return literal.QuoteChar(r)
	case *ast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.AtomLit:
		return literal.Quote(e.Name)
	case *ast.UnitLit:
		return "()"
	case *ast.ParenExpr:
		return "(" + em.rustExpr(e.X) + ")"
	case *ast.Ident:
		return e.Name
	case *ast.PathExpr:
		names := make([]string, len(e.Components))
		for i, c := range e.Components {
			names[i] = c.Name
		}
		return strings.Join(names, "::")
	case *ast.BinaryExpr:
		return em.rustBinary(e)
	case *ast.UnaryExpr:
		return e.Op.String() + em.rustExpr(e.X)
	case *ast.AssignExpr:
		return em.rustAssign(e)
	case *ast.LetExpr:
		return em.rustLet(e)
	case *ast.BlockExpr:
		return em.rustBlock(e)
	case *ast.IfExpr:
		return em.rustIf(e)
	case *ast.MatchExpr:
		return em.rustMatch(e)
	case *ast.WhileExpr:
		return em.rustWhile(e)
	case *ast.ForExpr:
		return em.rustFor(e)
	case *ast.LoopExpr:
		return em.rustLoop(e)
	case *ast.BreakExpr:
		return em.rustBreak(e)
	case *ast.ContinueExpr:
		if e.Label != nil {
			return "continue '" + e.Label.Name
		}
		return "continue"
	case *ast.ReturnExpr:
		if e.Value != nil {
			return "return " + em.rustExpr(e.Value)
		}
		return "return"
	case *ast.FuncLit:
		return em.rustFuncLit(e)
	case *ast.CallExpr:
		return em.rustExpr(e.Fun) + "(" + em.rustExprList(e.Args) + ")"
	case *ast.MethodCallExpr:
		return em.rustExpr(e.Recv) + "." + e.Method.Name + "(" + em.rustExprList(e.Args) + ")"
	case *ast.SelectorExpr:
		return em.rustExpr(e.X) + "." + e.Sel.Name
	case *ast.IndexExpr:
		return em.rustExpr(e.X) + "[" + em.rustExpr(e.Index) + "]"
	case *ast.ListLit:
		return "vec![" + em.rustExprList(e.Elts) + "]"
	case *ast.TupleLit:
		parts := make([]string, len(e.Elts))
		for i, el := range e.Elts {
			parts[i] = em.rustExpr(el)
		}
		// A single-element Rust tuple needs a trailing comma to disambiguate
		// from a parenthesized expression; Ruchy's tuple syntax has no such
		// ambiguity since it has no ParenExpr/TupleLit overlap at arity 1.
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.MapLit:
		return em.rustMapLit(e)
	case *ast.RangeExpr:
		op := ".."
		if e.Inclusive {
			op = "..="
		}
		low, high := "", ""
		if e.Low != nil {
			low = em.rustExpr(e.Low)
		}
		if e.High != nil {
			high = em.rustExpr(e.High)
		}
		return low + op + high
	case *ast.ListComprehension:
		return em.rustComprehension(e)
	case *ast.AsyncExpr, *ast.AwaitExpr:
		// Neither the bytecode VM nor this transpiler model an async
		// runtime (spec 5's concurrency model is cooperative-scheduler-only
		// at the tree-walker level); spec 4.5 calls for UnsupportedFeature
		// here rather than a best-effort lowering.
		em.errf(x.Pos(), "transpile: async/await has no Rust lowering (UnsupportedFeature)")
		return "()"
	}
	em.errf(x.Pos(), "transpile: unsupported expression %T", x)
	return "()"
}

func (em *emitter) rustExprList(xs []ast.Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = em.rustExpr(x)
	}
	return strings.Join(parts, ", ")
}

func (em *emitter) rustFString(x *ast.FStringLit) string {
	var fmtStr strings.Builder
	var args []string
	for _, seg := range x.Segments {
		if seg.Expr == nil {
			fmtStr.WriteString(strings.ReplaceAll(seg.Text, "{", "{{"))
			continue
		}
		fmtStr.WriteString("{}")
		args = append(args, em.rustExpr(seg.Expr))
	}
	parts := append([]string{literal.Quote(fmtStr.String())}, args...)
	return "format!(" + strings.Join(parts, ", ") + ")"
}

// POW has no Rust infix operator; `a ** b` becomes a method call, the one
// binary operator whose canonical emission pattern isn't a plain infix
// symbol (spec 4.5's operator mapping table).
func (em *emitter) rustBinary(x *ast.BinaryExpr) string {
	if x.Op == token.POW {
		return em.rustExpr(x.X) + ".pow(" + em.rustExpr(x.Y) + " as u32)"
	}
	return em.rustExpr(x.X) + " " + x.Op.String() + " " + em.rustExpr(x.Y)
}

func compoundAssignOp(op token.Token) string {
	switch op {
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN, token.QUO_ASSIGN, token.REM_ASSIGN:
		return op.String()
	}
	return "="
}

func (em *emitter) rustAssign(x *ast.AssignExpr) string {
	return em.rustExpr(x.Target) + " " + compoundAssignOp(x.Op) + " " + em.rustExpr(x.Value)
}

func (em *emitter) rustLet(x *ast.LetExpr) string {
	var s strings.Builder
	s.WriteString("let ")
	s.WriteString(em.rustPattern(x.Pat))
	s.WriteString(" = ")
	s.WriteString(em.rustExpr(x.Value))
	s.WriteString(";")
	if x.Body != nil {
		// `let` scoping only the remainder given as Body (spec 3.3) has no
		// direct Rust equivalent (Rust `let` always scopes the rest of its
		// enclosing block) — wrapped in its own block expression so the
		// narrower scope is preserved exactly.
		return "{ " + s.String() + " " + em.rustExpr(x.Body) + " }"
	}
	return s.String()
}

// rustBlock renders a block's statements in sequence inside one pair of
// braces, with the final expression unterminated (Rust's "last expression is
// the block's value" rule matches spec 3.3's exactly). It avoids the
// extra-wrapping-braces pitfall spec 4.5 calls out: the final expression is
// not given braces of its own, so `{ x }` never becomes `{ { x } }`.
func (em *emitter) rustBlock(b *ast.BlockExpr) string {
	if len(b.Exprs) == 0 {
		return "{}"
	}
	var s strings.Builder
	s.WriteString("{ ")
	for i, e := range b.Exprs {
		s.WriteString(em.rustExpr(e))
		last := i == len(b.Exprs)-1
		if !last || (i < len(b.Semi) && b.Semi[i]) {
			s.WriteString("; ")
		} else {
			s.WriteString(" ")
		}
	}
	s.WriteString("}")
	return s.String()
}

func (em *emitter) rustIf(x *ast.IfExpr) string {
	s := "if " + em.rustExpr(x.Cond) + " " + em.rustBlock(x.Then)
	if x.Else != nil {
		s += " else " + em.rustExpr(x.Else)
	}
	return s
}

func (em *emitter) rustMatch(x *ast.MatchExpr) string {
	var s strings.Builder
	s.WriteString("match ")
	s.WriteString(em.rustExpr(x.Scrutinee))
	s.WriteString(" { ")
	for i, arm := range x.Arms {
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(em.rustPattern(arm.Pat))
		if arm.Guard != nil {
			s.WriteString(" if ")
			s.WriteString(em.rustExpr(arm.Guard))
		}
		s.WriteString(" => ")
		s.WriteString(em.rustExpr(arm.Body))
		s.WriteString(",")
	}
	s.WriteString(" }")
	return s.String()
}

func (em *emitter) rustWhile(x *ast.WhileExpr) string {
	label := ""
	if x.Label != nil {
		label = "'" + x.Label.Name + ": "
	}
	return label + "while " + em.rustExpr(x.Cond) + " " + em.rustBlock(x.Body)
}

func (em *emitter) rustFor(x *ast.ForExpr) string {
	label := ""
	if x.Label != nil {
		label = "'" + x.Label.Name + ": "
	}
	return label + "for " + em.rustPattern(x.Pat) + " in " + em.rustExpr(x.Iter) + " " + em.rustBlock(x.Body)
}

func (em *emitter) rustLoop(x *ast.LoopExpr) string {
	label := ""
	if x.Label != nil {
		label = "'" + x.Label.Name + ": "
	}
	return label + "loop " + em.rustBlock(x.Body)
}

func (em *emitter) rustBreak(x *ast.BreakExpr) string {
	s := "break"
	if x.Label != nil {
		s += " '" + x.Label.Name
	}
	if x.Value != nil {
		s += " " + em.rustExpr(x.Value)
	}
	return s
}

// rustFuncLit renders a closure. Captures are by-value (`move`), matching
// the bytecode VM's own capture-by-value closure semantics (see
// vm/compiler.go's resolveCapture) rather than the tree-walker's
// live-reference captures — of the core's two execution strategies, `move`
// closures are the one a transpiled, ahead-of-time-compiled program can
// actually express, since Rust has no persistent heap-shared lexical scope
// to capture by reference safely without explicit Rc<RefCell<_>> wrapping.
func (em *emitter) rustFuncLit(x *ast.FuncLit) string {
	params := make([]string, len(x.Params))
	for i, p := range x.Params {
		params[i] = em.rustPattern(p.Pat)
	}
	return "move |" + strings.Join(params, ", ") + "| " + em.rustExpr(x.Body)
}

func (em *emitter) rustMapLit(x *ast.MapLit) string {
	if len(x.Entries) == 0 {
		return "std::collections::HashMap::new()"
	}
	parts := make([]string, len(x.Entries))
	for i, ent := range x.Entries {
		parts[i] = "(" + em.rustExpr(ent.Key) + ", " + em.rustExpr(ent.Value) + ")"
	}
	return "std::collections::HashMap::from([" + strings.Join(parts, ", ") + "])"
}

// rustComprehension lowers `[expr for pat in iter if cond]` to an imperative
// push loop rather than a `.filter_map()` iterator chain: Ruchy's clause
// sequence interleaves arbitrary for/if clauses with pattern-matched
// bindings (spec 3.3), which nested loops express directly and a chain of
// adapter closures would not improve on.
func (em *emitter) rustComprehension(x *ast.ListComprehension) string {
	var s strings.Builder
	s.WriteString("{ let mut ")
	tmp := em.freshAnon("__comp")
	s.WriteString(tmp)
	s.WriteString(" = Vec::new(); ")
	em.rustComprehensionClauses(&s, x.Clauses, 0, x.Expr, tmp)
	s.WriteString(tmp)
	s.WriteString(" }")
	return s.String()
}

func (em *emitter) rustComprehensionClauses(s *strings.Builder, clauses []ast.Clause, i int, body ast.Expr, tmp string) {
	if i == len(clauses) {
		s.WriteString(tmp)
		s.WriteString(".push(")
		s.WriteString(em.rustExpr(body))
		s.WriteString("); ")
		return
	}
	switch c := clauses[i].(type) {
	case *ast.ForClause:
		s.WriteString("for ")
		s.WriteString(em.rustPattern(c.Pat))
		s.WriteString(" in ")
		s.WriteString(em.rustExpr(c.Source))
		s.WriteString(" { ")
		em.rustComprehensionClauses(s, clauses, i+1, body, tmp)
		s.WriteString("} ")
	case *ast.IfClause:
		s.WriteString("if ")
		s.WriteString(em.rustExpr(c.Cond))
		s.WriteString(" { ")
		em.rustComprehensionClauses(s, clauses, i+1, body, tmp)
		s.WriteString("} ")
	}
}
