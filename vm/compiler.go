package vm

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/debug"
	"github.com/ruchy-lang/ruchy/literal"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// funcCompiler compiles one function body (a top-level closure or a
// FuncLit) into a Proto. It is one node of a chain mirroring the lexical
// nesting of FuncLit expressions, used to resolve captured variables.
type funcCompiler struct {
	parent  *funcCompiler
	proto   *Proto
	scopes  []map[string]int
	nextSlot int
	capSlot map[string]int // name -> slot already reserved as a capture here
}

func newFuncCompiler(parent *funcCompiler, name string) *funcCompiler {
	return &funcCompiler{
		parent:  parent,
		proto:   &Proto{Name: name},
		scopes:  []map[string]int{{}},
		capSlot: map[string]int{},
	}
}

func (f *funcCompiler) pushScope() { f.scopes = append(f.scopes, map[string]int{}) }
func (f *funcCompiler) popScope()  { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *funcCompiler) declareLocal(name string) int {
	slot := f.nextSlot
	f.nextSlot++
	if f.nextSlot > f.proto.Locals {
		f.proto.Locals = f.nextSlot
	}
	f.scopes[len(f.scopes)-1][name] = slot
	return slot
}

func (f *funcCompiler) resolveLocal(name string) (int, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if slot, ok := f.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// resolveCapture finds name in an enclosing funcCompiler and reserves a
// local slot in f to hold it at call time, recursing so a doubly-nested
// closure chains the capture down through each intermediate level.
func (f *funcCompiler) resolveCapture(name string) (int, bool) {
	if slot, ok := f.capSlot[name]; ok {
		return slot, true
	}
	if f.parent == nil {
		return 0, false
	}
	if _, ok := f.parent.resolveLocal(name); !ok {
		if _, ok := f.parent.resolveCapture(name); !ok {
			return 0, false
		}
	}
	slot := f.declareLocal(name)
	f.capSlot[name] = slot
	f.proto.CapSlots = append(f.proto.CapSlots, slot)
	return slot, true
}

func (f *funcCompiler) emit(in Instr) int {
	f.proto.Code = append(f.proto.Code, in)
	return len(f.proto.Code) - 1
}

func (f *funcCompiler) addConst(v value.Value) int {
	f.proto.Consts = append(f.proto.Consts, v)
	return len(f.proto.Consts) - 1
}

// Compiler drives compilation of FuncLit expressions into Protos, emitting
// into whichever funcCompiler is current on its stack.
type Compiler struct {
	cur *funcCompiler
}

// NewCompiler returns a compiler for a fresh top-level function (e.g. a
// module's entry point, or a closure being ported from the tree-walker to
// the VM).
func NewCompiler() *Compiler {
	return &Compiler{cur: newFuncCompiler(nil, "")}
}

// CompileFunction compiles a closure's parameter list and body into a
// Proto ready to run on a Machine.
func CompileFunction(params []*ast.Param, body ast.Expr) (*Proto, error) {
	c := NewCompiler()
	proto, err := c.compileFunctionBody(params, body)
	if proto != nil {
		debug.Dump("vm.CompileFunction proto", proto)
	}
	return proto, err
}

func (c *Compiler) compileFunctionBody(params []*ast.Param, body ast.Expr) (*Proto, error) {
	if err := declareSimpleParams(c.cur, params); err != nil {
		return nil, err
	}
	c.cur.proto.NumParams = len(params)
	if err := c.compileBodyAsReturn(body); err != nil {
		return nil, err
	}
	return c.cur.proto, nil
}

// declareSimpleParams allocates one slot per parameter, positionally: slot
// i receives the i-th call argument. This requires each parameter pattern
// to bind exactly one name directly (BindingPattern or WildcardPattern) —
// destructuring parameter patterns (`fun f((a, b)) ...`) aren't lowered by
// this compiler pass (recorded in DESIGN.md); such functions still run on
// the tree-walker, which binds param patterns generally.
func declareSimpleParams(f *funcCompiler, params []*ast.Param) error {
	for _, p := range params {
		switch pat := p.Pat.(type) {
		case *ast.BindingPattern:
			f.declareLocal(pat.Name.Name)
		case *ast.WildcardPattern:
			f.declareLocal("_")
		default:
			return fmt.Errorf("vm: destructuring function parameters not supported (%T)", p.Pat)
		}
	}
	return nil
}

// declarePatternLocals pre-allocates a local slot for every name a pattern
// may bind, in the same depth-first order MatchPattern/BindPattern visit
// them, so the runtime Binder (see frameBinder in vm.go) can map name to
// slot without re-walking the pattern.
func (c *Compiler) declarePatternLocals(pat ast.Pattern) error {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern:
		return nil
	case *ast.BindingPattern:
		c.cur.declareLocal(p.Name.Name)
		return nil
	case *ast.TuplePattern:
		for _, e := range p.Elts {
			if err := c.declarePatternLocals(e); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListPattern:
		for _, e := range p.Elts {
			if err := c.declarePatternLocals(e); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			c.cur.declareLocal(p.Rest.Name)
		}
		return nil
	case *ast.StructPattern:
		for _, f := range p.Fields {
			if err := c.declarePatternLocals(f.Pat); err != nil {
				return err
			}
		}
		return nil
	case *ast.EnumVariantPattern:
		for _, e := range p.Elts {
			if err := c.declarePatternLocals(e); err != nil {
				return err
			}
		}
		for _, f := range p.Fields {
			if err := c.declarePatternLocals(f.Pat); err != nil {
				return err
			}
		}
		return nil
	case *ast.OrPattern:
		// Every alternative of an or-pattern must bind the same names to
		// the same slots; compiling each in turn over-allocates harmlessly
		// since MatchPattern only runs one alternative at a time.
		for _, alt := range p.Alts {
			if err := c.declarePatternLocals(alt); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("vm: unsupported pattern %T", pat)
}

// collectPatternBindings lists the names pat binds, in the same depth-first
// order declarePatternLocals walks, so the two stay in correspondence.
func collectPatternBindings(pat ast.Pattern) []string {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern:
		return nil
	case *ast.BindingPattern:
		return []string{p.Name.Name}
	case *ast.TuplePattern:
		var names []string
		for _, e := range p.Elts {
			names = append(names, collectPatternBindings(e)...)
		}
		return names
	case *ast.ListPattern:
		var names []string
		for _, e := range p.Elts {
			names = append(names, collectPatternBindings(e)...)
		}
		if p.Rest != nil {
			names = append(names, p.Rest.Name)
		}
		return names
	case *ast.StructPattern:
		var names []string
		for _, f := range p.Fields {
			names = append(names, collectPatternBindings(f.Pat)...)
		}
		return names
	case *ast.EnumVariantPattern:
		var names []string
		for _, e := range p.Elts {
			names = append(names, collectPatternBindings(e)...)
		}
		for _, f := range p.Fields {
			names = append(names, collectPatternBindings(f.Pat)...)
		}
		return names
	case *ast.OrPattern:
		if len(p.Alts) == 0 {
			return nil
		}
		return collectPatternBindings(p.Alts[0])
	}
	return nil
}

// emitPatternMatch compiles a `let`-destructure of the value already on top
// of the stack against pat. It pre-allocates a local slot per bound name
// (declarePatternLocals), registers pat in the Proto's pattern table so the
// Machine can run it through interp.MatchPattern at run time, and fails
// with PatternMatchFailed (B=1, "strict") if pat does not match — the same
// contract as interp.BindPattern.
func (c *Compiler) emitPatternMatch(pat ast.Pattern) error {
	if err := c.declarePatternLocals(pat); err != nil {
		return err
	}
	idx := c.registerPattern(pat)
	c.cur.emit(Instr{Op: OpMatch, A: idx, B: 1, Pos: pat.Pos()})
	return nil
}

// registerPattern records pat (and the slot each of its bound names
// resolves to in the current scope) in the current Proto's pattern table,
// returning its index.
func (c *Compiler) registerPattern(pat ast.Pattern) int {
	var slots []PatternSlot
	for _, name := range collectPatternBindings(pat) {
		if slot, ok := c.cur.resolveLocal(name); ok {
			slots = append(slots, PatternSlot{Name: name, Slot: slot})
		}
	}
	c.cur.proto.Patterns = append(c.cur.proto.Patterns, pat)
	c.cur.proto.PatternSlots = append(c.cur.proto.PatternSlots, slots)
	return len(c.cur.proto.Patterns) - 1
}

// compileMatch lowers a `match` expression into a sequence of per-arm
// pattern tests. Each arm's pattern is tested non-strictly (OpMatch, B=0:
// push a Bool rather than failing) against the scrutinee, held in a
// temporary local slot so every arm re-tests the same value; a guard, if
// present, is evaluated only once its pattern already matched and bound.
// If no arm matches, the fallthrough is a runtime NonExhaustiveMatch error
// (OpThrow), matching interp.evalMatch's contract.
func (c *Compiler) compileMatch(x *ast.MatchExpr) error {
	if err := c.compileExpr(x.Scrutinee); err != nil {
		return err
	}
	c.cur.pushScope()
	defer c.cur.popScope()
	tmp := c.cur.declareLocal("")
	c.cur.emit(Instr{Op: OpStoreLocal, A: tmp, Pos: x.Pos()})

	var endJumps []int
	for _, arm := range x.Arms {
		c.cur.pushScope()
		if err := c.declarePatternLocals(arm.Pat); err != nil {
			return err
		}
		idx := c.registerPattern(arm.Pat)
		c.cur.emit(Instr{Op: OpLoadLocal, A: tmp, Pos: arm.Pos()})
		c.cur.emit(Instr{Op: OpMatch, A: idx, B: 0, Pos: arm.Pos()})
		var failJumps []int
		failJumps = append(failJumps, c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: arm.Pos()}))
		if arm.Guard != nil {
			if err := c.compileExpr(arm.Guard); err != nil {
				return err
			}
			failJumps = append(failJumps, c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: arm.Pos()}))
		}
		if err := c.compileExpr(arm.Body); err != nil {
			return err
		}
		endJumps = append(endJumps, c.cur.emit(Instr{Op: OpJump, Pos: arm.Pos()}))
		label := len(c.cur.proto.Code)
		for _, j := range failJumps {
			c.cur.proto.Code[j].A = label
		}
		c.cur.popScope()
	}
	c.cur.emit(Instr{Op: OpThrow, Name: "no match arm matched the scrutinee", Pos: x.Pos()})
	end := len(c.cur.proto.Code)
	for _, j := range endJumps {
		c.cur.proto.Code[j].A = end
	}
	return nil
}

func (c *Compiler) compileBodyAsReturn(body ast.Expr) error {
	if blk, ok := body.(*ast.BlockExpr); ok {
		if err := c.compileBlock(blk); err != nil {
			return err
		}
		c.cur.emit(Instr{Op: OpReturn, Pos: blk.Pos()})
		return nil
	}
	if err := c.compileExpr(body); err != nil {
		return err
	}
	c.cur.emit(Instr{Op: OpReturn, Pos: body.Pos()})
	return nil
}

// compileBlock compiles a block's expressions in sequence, leaving exactly
// one value (the block's result, or Unit for an empty/semicolon-terminated
// block) on the stack.
func (c *Compiler) compileBlock(b *ast.BlockExpr) error {
	c.cur.pushScope()
	defer c.cur.popScope()

	if len(b.Exprs) == 0 {
		c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: b.Pos()})
		return nil
	}
	for i, e := range b.Exprs {
		if err := c.compileExpr(e); err != nil {
			return err
		}
		last := i == len(b.Exprs)-1
		if !last {
			c.cur.emit(Instr{Op: OpPop, Pos: e.Pos()})
			continue
		}
		if i < len(b.Semi) && b.Semi[i] {
			c.cur.emit(Instr{Op: OpPop, Pos: e.Pos()})
			c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: e.Pos()})
		}
	}
	return nil
}

// compileExpr compiles x so that exactly one value is pushed on the stack.
func (c *Compiler) compileExpr(x ast.Expr) error {
	switch e := x.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit, *ast.CharLit, *ast.AtomLit, *ast.UnitLit:
		v, err := constValue(x)
		if err != nil {
			return err
		}
		c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(v), Pos: x.Pos()})
		return nil
	case *ast.ParenExpr:
		return c.compileExpr(e.X)
	case *ast.ForExpr:
		c.cur.emit(Instr{Op: OpFor, Pos: e.Pos()})
		return nil
	case *ast.Ident:
		return c.compileLoadName(e.Name, e.Pos())
	case *ast.BinaryExpr:
		return c.compileBinary(e)
	case *ast.UnaryExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		c.cur.emit(Instr{Op: OpUnOp, Tok: e.Op, Pos: e.Pos()})
		return nil
	case *ast.AssignExpr:
		return c.compileAssign(e)
	case *ast.LetExpr:
		return c.compileLet(e)
	case *ast.BlockExpr:
		return c.compileBlock(e)
	case *ast.IfExpr:
		return c.compileIf(e)
	case *ast.WhileExpr:
		return c.compileWhile(e)
	case *ast.LoopExpr:
		return c.compileLoop(e)
	case *ast.ReturnExpr:
		if e.Value != nil {
			if err := c.compileExpr(e.Value); err != nil {
				return err
			}
		} else {
			c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: e.Pos()})
		}
		c.cur.emit(Instr{Op: OpReturn, Pos: e.Pos()})
		return nil
	case *ast.FuncLit:
		return c.compileFuncLit(e)
	case *ast.CallExpr:
		return c.compileCall(e)
	case *ast.MethodCallExpr:
		return c.compileMethodCall(e)
	case *ast.ListLit:
		for _, elt := range e.Elts {
			if err := c.compileExpr(elt); err != nil {
				return err
			}
		}
		c.cur.emit(Instr{Op: OpMakeList, A: len(e.Elts), Pos: e.Pos()})
		return nil
	case *ast.TupleLit:
		for _, elt := range e.Elts {
			if err := c.compileExpr(elt); err != nil {
				return err
			}
		}
		c.cur.emit(Instr{Op: OpMakeTuple, A: len(e.Elts), Pos: e.Pos()})
		return nil
	case *ast.MapLit:
		for _, ent := range e.Entries {
			if err := c.compileExpr(ent.Key); err != nil {
				return err
			}
			if err := c.compileExpr(ent.Value); err != nil {
				return err
			}
		}
		c.cur.emit(Instr{Op: OpMakeMap, A: 2 * len(e.Entries), Pos: e.Pos()})
		return nil
	case *ast.MatchExpr:
		return c.compileMatch(e)
	case *ast.IndexExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		if err := c.compileExpr(e.Index); err != nil {
			return err
		}
		c.cur.emit(Instr{Op: OpMethodCall, Name: "__index__", A: 1, Pos: e.Pos()})
		return nil
	}
	return fmt.Errorf("vm: unsupported expression %T", x)
}

func constValue(x ast.Expr) (value.Value, error) {
	switch e := x.(type) {
	case *ast.IntLit:
		n, err := literal.ParseInt(e.Value)
		if err != nil {
			return value.Unit(), err
		}
		return value.Int(n), nil
	case *ast.FloatLit:
		f, err := literal.ParseFloat(e.Value)
		if err != nil {
			return value.Unit(), err
		}
		return value.Float(f), nil
	case *ast.StringLit:
		return value.String(e.Value), nil
	case *ast.BoolLit:
		return value.Bool(e.Value), nil
	case *ast.CharLit:
		return value.Char([]rune(e.Value)[0]), nil
	case *ast.AtomLit:
		return value.Atom(e.Name), nil
	case *ast.UnitLit:
		return value.Unit(), nil
	}
	return value.Unit(), fmt.Errorf("vm: not a constant expression %T", x)
}

func (c *Compiler) compileLoadName(name string, pos token.Pos) error {
	if slot, ok := c.cur.resolveLocal(name); ok {
		c.cur.emit(Instr{Op: OpLoadLocal, A: slot, Pos: pos})
		return nil
	}
	if slot, ok := c.cur.resolveCapture(name); ok {
		c.cur.emit(Instr{Op: OpLoadLocal, A: slot, Pos: pos})
		return nil
	}
	c.cur.emit(Instr{Op: OpLoadGlobal, Name: name, Pos: pos})
	return nil
}

func (c *Compiler) compileBinary(x *ast.BinaryExpr) error {
	if x.Op == token.LAND {
		// a && b: short-circuit to `false` without evaluating b.
		if err := c.compileExpr(x.X); err != nil {
			return err
		}
		jmpFalse := c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: x.Pos()})
		if err := c.compileExpr(x.Y); err != nil {
			return err
		}
		jmpEnd := c.cur.emit(Instr{Op: OpJump, Pos: x.Pos()})
		c.cur.proto.Code[jmpFalse].A = len(c.cur.proto.Code)
		c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Bool(false)), Pos: x.Pos()})
		c.cur.proto.Code[jmpEnd].A = len(c.cur.proto.Code)
		return nil
	}
	if x.Op == token.LOR {
		// a || b: short-circuit to `true` without evaluating b.
		if err := c.compileExpr(x.X); err != nil {
			return err
		}
		jmpFalse := c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: x.Pos()})
		c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Bool(true)), Pos: x.Pos()})
		jmpEnd := c.cur.emit(Instr{Op: OpJump, Pos: x.Pos()})
		c.cur.proto.Code[jmpFalse].A = len(c.cur.proto.Code)
		if err := c.compileExpr(x.Y); err != nil {
			return err
		}
		c.cur.proto.Code[jmpEnd].A = len(c.cur.proto.Code)
		return nil
	}
	if err := c.compileExpr(x.X); err != nil {
		return err
	}
	if err := c.compileExpr(x.Y); err != nil {
		return err
	}
	c.cur.emit(Instr{Op: OpBinOp, Tok: x.Op, Pos: x.Pos()})
	return nil
}

func (c *Compiler) compileAssign(x *ast.AssignExpr) error {
	id, ok := x.Target.(*ast.Ident)
	if !ok {
		return fmt.Errorf("vm: unsupported assignment target %T", x.Target)
	}
	if x.Op != token.ASSIGN {
		if err := c.compileLoadName(id.Name, id.Pos()); err != nil {
			return err
		}
		if err := c.compileExpr(x.Value); err != nil {
			return err
		}
		op := compoundTok(x.Op)
		c.cur.emit(Instr{Op: OpBinOp, Tok: op, Pos: x.Pos()})
	} else {
		if err := c.compileExpr(x.Value); err != nil {
			return err
		}
	}
	if err := c.compileStoreName(id.Name, id.Pos()); err != nil {
		return err
	}
	c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: x.Pos()})
	return nil
}

func compoundTok(op token.Token) token.Token {
	switch op {
	case token.ADD_ASSIGN:
		return token.ADD
	case token.SUB_ASSIGN:
		return token.SUB
	case token.MUL_ASSIGN:
		return token.MUL
	case token.QUO_ASSIGN:
		return token.QUO
	case token.REM_ASSIGN:
		return token.REM
	}
	return token.ILLEGAL
}

func (c *Compiler) compileStoreName(name string, pos token.Pos) error {
	if slot, ok := c.cur.resolveLocal(name); ok {
		c.cur.emit(Instr{Op: OpStoreLocal, A: slot, Pos: pos})
		return nil
	}
	if slot, ok := c.cur.resolveCapture(name); ok {
		c.cur.emit(Instr{Op: OpStoreLocal, A: slot, Pos: pos})
		return nil
	}
	c.cur.emit(Instr{Op: OpStoreGlobal, Name: name, Pos: pos})
	return nil
}

// compileLet lowers a `let` binding into local-slot stores. Destructuring
// patterns richer than a single binding name fall back, at runtime, to
// interp.MatchPattern against a per-call Binder (see frameBinder in
// vm.go) so the VM never re-implements pattern semantics separately from
// the tree-walker.
func (c *Compiler) compileLet(x *ast.LetExpr) error {
	if err := c.compileExpr(x.Value); err != nil {
		return err
	}
	if simple, ok := x.Pat.(*ast.BindingPattern); ok {
		slot := c.cur.declareLocal(simple.Name.Name)
		c.cur.emit(Instr{Op: OpStoreLocal, A: slot, Pos: x.Pos()})
	} else {
		if err := c.emitPatternMatch(x.Pat); err != nil {
			return err
		}
	}
	if x.Body != nil {
		if err := c.compileExpr(x.Body); err != nil {
			return err
		}
		return nil
	}
	c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: x.Pos()})
	return nil
}

func (c *Compiler) compileIf(x *ast.IfExpr) error {
	if err := c.compileExpr(x.Cond); err != nil {
		return err
	}
	jmpElse := c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: x.Pos()})
	if err := c.compileBlock(x.Then); err != nil {
		return err
	}
	jmpEnd := c.cur.emit(Instr{Op: OpJump, Pos: x.Pos()})
	c.cur.proto.Code[jmpElse].A = len(c.cur.proto.Code)
	if x.Else != nil {
		if err := c.compileExpr(x.Else); err != nil {
			return err
		}
	} else {
		c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: x.Pos()})
	}
	c.cur.proto.Code[jmpEnd].A = len(c.cur.proto.Code)
	return nil
}

func (c *Compiler) compileWhile(x *ast.WhileExpr) error {
	start := len(c.cur.proto.Code)
	if err := c.compileExpr(x.Cond); err != nil {
		return err
	}
	jmpEnd := c.cur.emit(Instr{Op: OpJumpIfFalse, Pos: x.Pos()})
	if err := c.compileBlock(x.Body); err != nil {
		return err
	}
	c.cur.emit(Instr{Op: OpPop, Pos: x.Pos()})
	c.cur.emit(Instr{Op: OpJump, A: start, Pos: x.Pos()})
	c.cur.proto.Code[jmpEnd].A = len(c.cur.proto.Code)
	c.cur.emit(Instr{Op: OpLoadConst, A: c.cur.addConst(value.Unit()), Pos: x.Pos()})
	return nil
}

func (c *Compiler) compileLoop(x *ast.LoopExpr) error {
	// Unconditional `loop` without break is compiled as an infinite jump;
	// `break`/`continue` aren't lowered by this compiler pass yet (see
	// DESIGN.md) so only loop bodies that return via an enclosing function
	// Return are supported here.
	start := len(c.cur.proto.Code)
	if err := c.compileBlock(x.Body); err != nil {
		return err
	}
	c.cur.emit(Instr{Op: OpPop, Pos: x.Pos()})
	c.cur.emit(Instr{Op: OpJump, A: start, Pos: x.Pos()})
	return nil
}

func (c *Compiler) compileFuncLit(x *ast.FuncLit) error {
	child := newFuncCompiler(c.cur, "")
	inner := &Compiler{cur: child}
	if err := declareSimpleParams(child, x.Params); err != nil {
		return err
	}
	child.proto.NumParams = len(x.Params)
	if err := inner.compileBodyAsReturn(x.Body); err != nil {
		return err
	}

	protoIdx := len(c.cur.proto.Protos)
	c.cur.proto.Protos = append(c.cur.proto.Protos, child.proto)

	// Push each captured value's current binding (in the order the child
	// recorded them) before MakeClosure, per the opcode table's "pop ncaps
	// -> push closure" contract.
	for _, slot := range child.proto.CapSlots {
		name := capturedName(child, slot)
		if err := c.compileLoadName(name, x.Pos()); err != nil {
			return err
		}
	}
	c.cur.emit(Instr{Op: OpMakeClosure, A: protoIdx, B: len(child.proto.CapSlots), Pos: x.Pos()})
	return nil
}

func capturedName(f *funcCompiler, slot int) string {
	for name, s := range f.capSlot {
		if s == slot {
			return name
		}
	}
	return ""
}

func (c *Compiler) compileCall(x *ast.CallExpr) error {
	if err := c.compileExpr(x.Fun); err != nil {
		return err
	}
	for _, a := range x.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.cur.emit(Instr{Op: OpCall, A: len(x.Args), Pos: x.Pos()})
	return nil
}

func (c *Compiler) compileMethodCall(x *ast.MethodCallExpr) error {
	if err := c.compileExpr(x.Recv); err != nil {
		return err
	}
	for _, a := range x.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.cur.emit(Instr{Op: OpMethodCall, Name: x.Method.Name, A: len(x.Args), Pos: x.Pos()})
	return nil
}
