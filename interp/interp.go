package interp

import (
	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/literal"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// DefaultRecursionLimit is MAX_DEPTH's default (spec section 4.4.2, 6.5).
const DefaultRecursionLimit = 1000

// control-flow signals: returned as error from eval so every exit path —
// including error unwinding through defer/recover-free Go code — passes
// through ordinary return-value propagation. Each is checked for at the
// one site that can consume it (loop bodies for break/continue, call
// frames for return) and re-wrapped as a real *Error if it escapes its
// only legal context (e.g. `return` outside a function).
type breakSignal struct {
	label    string
	value    value.Value
	hasValue bool
}

func (s *breakSignal) Error() string { return "break outside of a loop" }

type continueSignal struct{ label string }

func (s *continueSignal) Error() string { return "continue outside of a loop" }

type returnSignal struct{ value value.Value }

func (s *returnSignal) Error() string { return "return outside of a function" }

// module is the runtime namespace value backing `mod name { ... }` and a
// parsed file's top-level scope (spec section 3.6).
type module struct {
	env *Environment
	pub map[string]bool
}

// Interpreter holds the state threaded through eval/call/run_module: the
// recursion-depth counter (spec section 4.4.2's CALL_DEPTH, simulated here
// as a field on the Interpreter value since Go has no goroutine-locals,
// per SPEC_FULL.md section 5) and the recursion limit.
type Interpreter struct {
	RecursionLimit int
	depth          int
	modules        map[string]*module
	impls          map[string]map[string]*ast.FuncDecl

	// variantCtors holds each enum variant's constructor, keyed "Enum::Variant"
	// (spec 3.2's enum variant construction, e.g. Option::Some(5)).
	variantCtors map[string]value.Value
}

// New creates an Interpreter with the default recursion limit.
func New() *Interpreter {
	return &Interpreter{
		RecursionLimit: DefaultRecursionLimit,
		modules:        map[string]*module{},
		impls:          map[string]map[string]*ast.FuncDecl{},
		variantCtors:   map[string]value.Value{},
	}
}

// defineVariantCtor registers the constructor for one enum variant, keyed
// "Enum::Variant". Tuple-form variants take positional arguments stored
// under index keys ("0", "1", ...); a unit variant takes none. A
// struct-form variant also gets a zero-argument constructor whose object
// has no fields, since the AST has no named-argument call syntax.
func (it *Interpreter) defineVariantCtor(enumName string, variant *ast.VariantDef) {
	key := enumName + "::" + variant.Name.Name
	name := variant.Name.Name
	n := len(variant.Elts)
	pos := variant.Pos()
	it.variantCtors[key] = value.FromNative(&value.Native{
		Name: key,
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != n {
				return value.Unit(), newErr(KindArityMismatch, pos, "%s expects %d argument(s), got %d", key, n, len(args))
			}
			m := value.NewMap()
			for i, a := range args {
				m.Set(indexKey(i), a)
			}
			return value.FromObject(&value.Object{TypeName: name, Fields: m}), nil
		},
	})
}

// CurrentRecursionDepth reports CALL_DEPTH, per the driver API (spec 6.1).
func (it *Interpreter) CurrentRecursionDepth() int { return it.depth }

// RunModule evaluates a whole file's top-level declarations in a fresh
// environment and returns that environment (spec section 4.4.1).
func (it *Interpreter) RunModule(f *ast.File) (*Environment, error) {
	env := NewEnvironment()
	_, err := it.runDecls(env, f.Decls)
	return env, err
}

// Run is the driver API's whole-file `eval(typed-AST, env)` entry point
// (spec 6.1): it evaluates every top-level declaration in a fresh
// environment and returns the value of the last one, the way a script
// consisting of a flat `ExprDecl` sequence (E1: `let n = 5; n * n`) is
// meant to produce a single result rather than only populating bindings.
// RunModule is kept alongside this for callers (e.g. `use`-driven module
// loading) that only want the resulting environment.
func (it *Interpreter) Run(f *ast.File) (value.Value, *Environment, error) {
	env := NewEnvironment()
	v, err := it.runDecls(env, f.Decls)
	return v, env, err
}

func (it *Interpreter) runDecls(env *Environment, decls []ast.Decl) (value.Value, error) {
	result := value.Unit()
	for _, d := range decls {
		v, err := it.evalDecl(env, d)
		if err != nil {
			if isControlSignal(err) {
				return value.Unit(), newErr(KindRuntimeError, d.Pos(), "%s", err.Error())
			}
			return value.Unit(), err
		}
		result = v
	}
	return result, nil
}

func isControlSignal(err error) bool {
	switch err.(type) {
	case *breakSignal, *continueSignal, *returnSignal:
		return true
	}
	return false
}

func (it *Interpreter) evalDecl(env *Environment, d ast.Decl) (value.Value, error) {
	switch dd := d.(type) {
	case *ast.FuncDecl:
		clo := &value.Closure{Name: dd.Name.Name, Params: dd.Params, Body: dd.Body, Env: env}
		env.Define(dd.Name.Name, value.FromClosure(clo), false, dd.Pos())
		return value.Unit(), nil
	case *ast.ModDecl:
		modEnv := env.Child()
		m := &module{env: modEnv, pub: map[string]bool{}}
		for _, inner := range dd.Decls {
			if _, err := it.evalDecl(modEnv, inner); err != nil {
				return value.Unit(), err
			}
			if pub, name := declPub(inner); pub {
				m.pub[name] = true
			}
		}
		it.modules[dd.Name.Name] = m
		env.Define(dd.Name.Name, value.BuiltinTag("module:"+dd.Name.Name), false, dd.Pos())
		return value.Unit(), nil
	case *ast.UseDecl:
		// File resolution is the driver's job (C7 validates path syntax
		// only); nothing to bind at interpreter level for an external path.
		return value.Unit(), nil
	case *ast.ImplDecl:
		methods, ok := it.impls[dd.Type.Name]
		if !ok {
			methods = map[string]*ast.FuncDecl{}
			it.impls[dd.Type.Name] = methods
		}
		for _, m := range dd.Methods {
			methods[m.Name.Name] = m
		}
		return value.Unit(), nil
	case *ast.StructDecl:
		name := dd.Name.Name
		fields := dd.Fields
		ctor := value.FromNative(&value.Native{
			Name: name,
			Fn: func(args []value.Value) (value.Value, error) {
				if len(args) != len(fields) {
					return value.Unit(), newErr(KindArityMismatch, dd.Pos(), "%s expects %d argument(s), got %d", name, len(fields), len(args))
				}
				m := value.NewMap()
				for i, f := range fields {
					m.Set(f.Name.Name, args[i])
				}
				return value.FromObject(&value.Object{TypeName: name, Fields: m}), nil
			},
		})
		env.Define(name, ctor, false, dd.Pos())
		return value.Unit(), nil
	case *ast.EnumDecl:
		for _, variant := range dd.Variants {
			it.defineVariantCtor(dd.Name.Name, variant)
		}
		return value.Unit(), nil
	case *ast.TraitDecl:
		// A trait declaration has no runtime value of its own, and its
		// default method bodies are not registered for any type: the
		// ImplDecl case records only the methods written in the impl block.
		return value.Unit(), nil
	case *ast.ExprDecl:
		return it.Eval(dd.X, env)
	}
	return value.Unit(), nil
}

func declPub(d ast.Decl) (bool, string) {
	switch dd := d.(type) {
	case *ast.FuncDecl:
		return dd.Pub, dd.Name.Name
	case *ast.StructDecl:
		return dd.Pub, dd.Name.Name
	case *ast.EnumDecl:
		return dd.Pub, dd.Name.Name
	}
	return false, ""
}

// Eval evaluates expr in env (spec section 4.4.1's `eval(expr, env)`).
func (it *Interpreter) Eval(expr ast.Expr, env *Environment) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.IntLit:
		iv, err := literal.ParseInt(x.Value)
		if err != nil {
			return value.Unit(), newErr(KindLexError, x.Pos(), "invalid integer literal %q", x.Value)
		}
		return value.Int(iv), nil
	case *ast.FloatLit:
		fv, err := literal.ParseFloat(x.Value)
		if err != nil {
			return value.Unit(), newErr(KindLexError, x.Pos(), "invalid float literal %q", x.Value)
		}
		return value.Float(fv), nil
	case *ast.StringLit:
		return value.String(x.Value), nil
	case *ast.FStringLit:
		return it.evalFString(x, env)
	case *ast.CharLit:
		r := []rune(x.Value)
		return value.Char(r[0]), nil
	case *ast.BoolLit:
		return value.Bool(x.Value), nil
	case *ast.AtomLit:
		return value.Atom(x.Name), nil
	case *ast.UnitLit:
		return value.Unit(), nil
	case *ast.Ident:
		if v, ok := env.Lookup(x.Name); ok {
			return v, nil
		}
		return value.Unit(), newErr(KindNameResolution, x.Pos(), "undefined name %q", x.Name)
	case *ast.ParenExpr:
		return it.Eval(x.X, env)
	case *ast.BinaryExpr:
		return it.evalBinary(x, env)
	case *ast.UnaryExpr:
		return it.evalUnary(x, env)
	case *ast.AssignExpr:
		return it.evalAssign(x, env)
	case *ast.LetExpr:
		return it.evalLet(x, env)
	case *ast.BlockExpr:
		return it.evalBlockInScope(x, env.Child())
	case *ast.IfExpr:
		return it.evalIf(x, env)
	case *ast.MatchExpr:
		return it.evalMatch(x, env)
	case *ast.WhileExpr:
		return it.evalWhile(x, env)
	case *ast.ForExpr:
		return it.evalFor(x, env)
	case *ast.LoopExpr:
		return it.evalLoop(x, env)
	case *ast.BreakExpr:
		var v value.Value
		has := false
		if x.Value != nil {
			var err error
			v, err = it.Eval(x.Value, env)
			if err != nil {
				return value.Unit(), err
			}
			has = true
		}
		label := ""
		if x.Label != nil {
			label = x.Label.Name
		}
		return value.Unit(), &breakSignal{label: label, value: v, hasValue: has}
	case *ast.ContinueExpr:
		label := ""
		if x.Label != nil {
			label = x.Label.Name
		}
		return value.Unit(), &continueSignal{label: label}
	case *ast.ReturnExpr:
		var v value.Value = value.Unit()
		if x.Value != nil {
			var err error
			v, err = it.Eval(x.Value, env)
			if err != nil {
				return value.Unit(), err
			}
		}
		return value.Unit(), &returnSignal{value: v}
	case *ast.FuncLit:
		clo := &value.Closure{Params: x.Params, Body: x.Body, Env: env}
		return value.FromClosure(clo), nil
	case *ast.CallExpr:
		return it.evalCall(x, env)
	case *ast.MethodCallExpr:
		return it.evalMethodCall(x, env)
	case *ast.SelectorExpr:
		return it.evalSelector(x, env)
	case *ast.IndexExpr:
		return it.evalIndex(x, env)
	case *ast.ListLit:
		elems := make([]value.Value, len(x.Elts))
		for i, e := range x.Elts {
			v, err := it.Eval(e, env)
			if err != nil {
				return value.Unit(), err
			}
			elems[i] = v
		}
		return value.ListOf(elems), nil
	case *ast.TupleLit:
		elems := make([]value.Value, len(x.Elts))
		for i, e := range x.Elts {
			v, err := it.Eval(e, env)
			if err != nil {
				return value.Unit(), err
			}
			elems[i] = v
		}
		return value.TupleOf(elems), nil
	case *ast.MapLit:
		m := value.NewMap()
		for _, e := range x.Entries {
			kv, err := it.Eval(e.Key, env)
			if err != nil {
				return value.Unit(), err
			}
			vv, err := it.Eval(e.Value, env)
			if err != nil {
				return value.Unit(), err
			}
			m.Set(value.Display(kv), vv)
		}
		return value.FromMap(m), nil
	case *ast.ListComprehension:
		return it.evalComprehension(x, env)
	case *ast.RangeExpr:
		return it.evalRange(x, env)
	case *ast.AsyncExpr:
		return it.evalBlockInScope(x.Body, env.Child())
	case *ast.AwaitExpr:
		return it.Eval(x.X, env)
	case *ast.AttrExpr:
		return it.Eval(x.X, env)
	case *ast.PathExpr:
		return it.evalPath(x, env)
	case *ast.BadExpr:
		return value.Unit(), newErr(KindParseError, x.Pos(), "malformed expression")
	}
	return value.Unit(), newErr(KindRuntimeError, expr.Pos(), "unhandled expression type %T", expr)
}

func (it *Interpreter) evalPath(x *ast.PathExpr, env *Environment) (value.Value, error) {
	key := pathString(x)
	if ctor, ok := it.variantCtors[key]; ok {
		return ctor, nil
	}
	if len(x.Components) == 2 {
		modName, name := x.Components[0].Name, x.Components[1].Name
		if m, ok := it.modules[modName]; ok {
			if !m.pub[name] {
				return value.Unit(), newErr(KindNameResolution, x.Pos(), "%q is not a pub member of module %q", name, modName)
			}
			if v, ok := m.env.Lookup(name); ok {
				return v, nil
			}
		}
		return value.Unit(), newErr(KindNameResolution, x.Pos(), "unresolved module path %s::%s", modName, name)
	}
	return value.Unit(), newErr(KindNameResolution, x.Pos(), "unresolved module path %s", key)
}

func pathString(x *ast.PathExpr) string {
	s := ""
	for i, c := range x.Components {
		if i > 0 {
			s += "::"
		}
		s += c.Name
	}
	return s
}

// evalBlockInScope evaluates b's expressions directly in scope, without
// pushing another Child() — the caller decides whether a fresh scope is
// needed. This is what lets callClosure satisfy spec section 9's
// closure-scope invariant: the function's parameter scope *is* the block's
// scope, so parameters are never shadowed by an extra scope push.
func (it *Interpreter) evalBlockInScope(b *ast.BlockExpr, scope *Environment) (value.Value, error) {
	result := value.Unit()
	for i, e := range b.Exprs {
		v, err := it.Eval(e, scope)
		if err != nil {
			return value.Unit(), err
		}
		if i == len(b.Exprs)-1 && !b.Semi[i] {
			result = v
		} else {
			result = value.Unit()
		}
	}
	return result, nil
}

func (it *Interpreter) evalIf(x *ast.IfExpr, env *Environment) (value.Value, error) {
	cond, err := it.Eval(x.Cond, env)
	if err != nil {
		return value.Unit(), err
	}
	if cond.Kind() != value.KindBool {
		return value.Unit(), newErr(KindTypeError, x.Cond.Pos(), "if condition must be Bool")
	}
	if cond.Bool() {
		return it.evalBlockInScope(x.Then, env.Child())
	}
	if x.Else == nil {
		return value.Unit(), nil
	}
	return it.Eval(x.Else, env)
}

func (it *Interpreter) evalWhile(x *ast.WhileExpr, env *Environment) (value.Value, error) {
	label := labelOf(x.Label)
	for {
		cond, err := it.Eval(x.Cond, env)
		if err != nil {
			return value.Unit(), err
		}
		if cond.Kind() != value.KindBool {
			return value.Unit(), newErr(KindTypeError, x.Cond.Pos(), "while condition must be Bool")
		}
		if !cond.Bool() {
			return value.Unit(), nil
		}
		_, err = it.evalBlockInScope(x.Body, env.Child())
		if brk, ok := asBreak(err, label); ok {
			return brk.value, nil
		}
		if ok := asContinue(err, label); ok {
			continue
		}
		if err != nil {
			return value.Unit(), err
		}
	}
}

func (it *Interpreter) evalLoop(x *ast.LoopExpr, env *Environment) (value.Value, error) {
	label := labelOf(x.Label)
	for {
		_, err := it.evalBlockInScope(x.Body, env.Child())
		if brk, ok := asBreak(err, label); ok {
			return brk.value, nil
		}
		if ok := asContinue(err, label); ok {
			continue
		}
		if err != nil {
			return value.Unit(), err
		}
	}
}

func (it *Interpreter) evalFor(x *ast.ForExpr, env *Environment) (value.Value, error) {
	label := labelOf(x.Label)
	iter, err := it.Eval(x.Iter, env)
	if err != nil {
		return value.Unit(), err
	}
	items, err := iterate(iter, x.Iter.Pos())
	if err != nil {
		return value.Unit(), err
	}
	for _, item := range items {
		scope := env.Child()
		if err := it.BindPattern(scope, x.Pat, item); err != nil {
			return value.Unit(), err
		}
		_, err := it.evalBlockInScope(x.Body, scope)
		if brk, ok := asBreak(err, label); ok {
			return brk.value, nil
		}
		if ok := asContinue(err, label); ok {
			continue
		}
		if err != nil {
			return value.Unit(), err
		}
	}
	return value.Unit(), nil
}

func iterate(v value.Value, pos token.Pos) ([]value.Value, error) {
	switch v.Kind() {
	case value.KindList:
		return v.List().Elems, nil
	case value.KindRange:
		r := v.Range()
		var out []value.Value
		end := r.End
		if r.Inclusive {
			end++
		}
		for i := r.Start; i < end; i++ {
			out = append(out, value.Int(i))
		}
		return out, nil
	}
	return nil, newErr(KindTypeError, pos, "value of kind %s is not iterable", v.Kind())
}

func labelOf(id *ast.Ident) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func asBreak(err error, label string) (*breakSignal, bool) {
	b, ok := err.(*breakSignal)
	if !ok {
		return nil, false
	}
	if b.label != "" && b.label != label {
		return nil, false
	}
	return b, true
}

func asContinue(err error, label string) bool {
	c, ok := err.(*continueSignal)
	if !ok {
		return false
	}
	return c.label == "" || c.label == label
}

func (it *Interpreter) evalComprehension(x *ast.ListComprehension, env *Environment) (value.Value, error) {
	var out []value.Value
	var walk func(i int, scope *Environment) error
	walk = func(i int, scope *Environment) error {
		if i == len(x.Clauses) {
			v, err := it.Eval(x.Expr, scope)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		}
		switch c := x.Clauses[i].(type) {
		case *ast.ForClause:
			src, err := it.Eval(c.Source, scope)
			if err != nil {
				return err
			}
			items, err := iterate(src, c.Source.Pos())
			if err != nil {
				return err
			}
			for _, item := range items {
				inner := scope.Child()
				if err := it.BindPattern(inner, c.Pat, item); err != nil {
					return err
				}
				if err := walk(i+1, inner); err != nil {
					return err
				}
			}
			return nil
		case *ast.IfClause:
			cond, err := it.Eval(c.Cond, scope)
			if err != nil {
				return err
			}
			if cond.Kind() == value.KindBool && cond.Bool() {
				return walk(i+1, scope)
			}
			return nil
		}
		return nil
	}
	if err := walk(0, env.Child()); err != nil {
		return value.Unit(), err
	}
	return value.ListOf(out), nil
}

func (it *Interpreter) evalRange(x *ast.RangeExpr, env *Environment) (value.Value, error) {
	var lo, hi int64
	if x.Low != nil {
		v, err := it.Eval(x.Low, env)
		if err != nil {
			return value.Unit(), err
		}
		lo = v.Int()
	}
	if x.High != nil {
		v, err := it.Eval(x.High, env)
		if err != nil {
			return value.Unit(), err
		}
		hi = v.Int()
	}
	return value.FromRange(&value.Range{Start: lo, End: hi, Inclusive: x.Inclusive}), nil
}

func (it *Interpreter) evalFString(x *ast.FStringLit, env *Environment) (value.Value, error) {
	var out []byte
	for _, seg := range x.Segments {
		if seg.Expr == nil {
			out = append(out, seg.Text...)
			continue
		}
		v, err := it.Eval(seg.Expr, env)
		if err != nil {
			return value.Unit(), err
		}
		out = append(out, value.Display(v)...)
	}
	return value.String(string(out)), nil
}
