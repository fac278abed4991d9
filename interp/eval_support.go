package interp

import (
	"math"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

func (it *Interpreter) evalBinary(x *ast.BinaryExpr, env *Environment) (value.Value, error) {
	if x.Op == token.LAND {
		l, err := it.Eval(x.X, env)
		if err != nil {
			return value.Unit(), err
		}
		if l.Kind() != value.KindBool {
			return value.Unit(), newErr(KindTypeError, x.Pos(), "&& operands must be Bool")
		}
		if !l.Bool() {
			return value.Bool(false), nil
		}
		r, err := it.Eval(x.Y, env)
		if err != nil {
			return value.Unit(), err
		}
		return r, nil
	}
	if x.Op == token.LOR {
		l, err := it.Eval(x.X, env)
		if err != nil {
			return value.Unit(), err
		}
		if l.Kind() != value.KindBool {
			return value.Unit(), newErr(KindTypeError, x.Pos(), "|| operands must be Bool")
		}
		if l.Bool() {
			return value.Bool(true), nil
		}
		return it.Eval(x.Y, env)
	}

	l, err := it.Eval(x.X, env)
	if err != nil {
		return value.Unit(), err
	}
	r, err := it.Eval(x.Y, env)
	if err != nil {
		return value.Unit(), err
	}
	return ApplyBinaryOp(x.Op, l, r, x.Pos())
}

// ApplyBinaryOp implements every non-short-circuiting binary operator over
// already-evaluated operands, shared by evalBinary and compound-assignment
// (`+=` etc. in evalAssign) so the operator table lives in one place.
func ApplyBinaryOp(op token.Token, l, r value.Value, pos token.Pos) (value.Value, error) {
	switch op {
	case token.EQL:
		return value.Bool(value.Equal(l, r)), nil
	case token.NEQ:
		return value.Bool(!value.Equal(l, r)), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		res, ok := value.Less(l, r)
		if !ok {
			return value.Unit(), newErr(KindTypeError, pos, "values of kind %s and %s are not ordered", l.Kind(), r.Kind())
		}
		eq := value.Equal(l, r)
		switch op {
		case token.LSS:
			return value.Bool(res), nil
		case token.LEQ:
			return value.Bool(res || eq), nil
		case token.GTR:
			return value.Bool(!res && !eq), nil
		default: // GEQ
			return value.Bool(!res || eq), nil
		}
	}

	// Bitwise and shift operators require Int operands (spec 6.2).
	switch op {
	case token.AND, token.OR, token.XOR, token.SHL, token.SHR:
		if l.Kind() != value.KindInt || r.Kind() != value.KindInt {
			return value.Unit(), newErr(KindTypeError, pos, "bitwise operators require Int operands")
		}
		a, b := l.Int(), r.Int()
		switch op {
		case token.AND:
			return value.Int(a & b), nil
		case token.OR:
			return value.Int(a | b), nil
		case token.XOR:
			return value.Int(a ^ b), nil
		case token.SHL:
			return value.Int(a << uint64(b)), nil
		default: // SHR
			return value.Int(a >> uint64(b)), nil
		}
	}

	// Arithmetic: string concatenation for ADD on Strings, int/float
	// promotion per spec section 6.2 otherwise.
	if op == token.ADD && l.Kind() == value.KindString && r.Kind() == value.KindString {
		return value.String(l.String() + r.String()), nil
	}
	if l.Kind() == value.KindList && r.Kind() == value.KindList && op == token.ADD {
		elems := append(append([]value.Value{}, l.List().Elems...), r.List().Elems...)
		return value.ListOf(elems), nil
	}

	isFloat := l.Kind() == value.KindFloat || r.Kind() == value.KindFloat
	if isFloat {
		a, b := l.AsFloat(), r.AsFloat()
		switch op {
		case token.ADD:
			return value.Float(a + b), nil
		case token.SUB:
			return value.Float(a - b), nil
		case token.MUL:
			return value.Float(a * b), nil
		case token.QUO:
			return value.Float(a / b), nil
		case token.REM:
			return value.Float(math.Mod(a, b)), nil
		case token.POW:
			return value.Float(math.Pow(a, b)), nil
		}
	}

	if l.Kind() != value.KindInt || r.Kind() != value.KindInt {
		return value.Unit(), newErr(KindTypeError, pos, "operator %s requires Int or Float operands", op)
	}
	a, b := l.Int(), r.Int()
	switch op {
	case token.ADD:
		return value.Int(a + b), nil
	case token.SUB:
		return value.Int(a - b), nil
	case token.MUL:
		return value.Int(a * b), nil
	case token.QUO:
		if b == 0 {
			return value.Unit(), newErr(KindDivisionByZero, pos, "division by zero")
		}
		return value.Int(a / b), nil
	case token.REM:
		if b == 0 {
			return value.Unit(), newErr(KindDivisionByZero, pos, "division by zero")
		}
		return value.Int(a % b), nil
	case token.POW:
		return value.Int(intPow(a, b)), nil
	}
	return value.Unit(), newErr(KindUnsupportedFeature, pos, "unsupported binary operator %s", op)
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func (it *Interpreter) evalUnary(x *ast.UnaryExpr, env *Environment) (value.Value, error) {
	v, err := it.Eval(x.X, env)
	if err != nil {
		return value.Unit(), err
	}
	return ApplyUnaryOp(x.Op, v, x.Pos())
}

// ApplyUnaryOp implements spec section 6.2's two unary operators over an
// already-evaluated operand. Shared with the bytecode VM's UnOp instruction
// so both execution strategies agree bit-for-bit (spec 4.4.3's parity
// invariant).
func ApplyUnaryOp(op token.Token, v value.Value, pos token.Pos) (value.Value, error) {
	switch op {
	case token.SUB:
		switch v.Kind() {
		case value.KindInt:
			return value.Int(-v.Int()), nil
		case value.KindFloat:
			return value.Float(-v.Float()), nil
		}
		return value.Unit(), newErr(KindTypeError, pos, "unary - requires Int or Float")
	case token.NOT:
		if v.Kind() != value.KindBool {
			return value.Unit(), newErr(KindTypeError, pos, "unary ! requires Bool")
		}
		return value.Bool(!v.Bool()), nil
	}
	return value.Unit(), newErr(KindUnsupportedFeature, pos, "unsupported unary operator %s", op)
}

func (it *Interpreter) evalAssign(x *ast.AssignExpr, env *Environment) (value.Value, error) {
	rhs, err := it.Eval(x.Value, env)
	if err != nil {
		return value.Unit(), err
	}
	if x.Op != token.ASSIGN {
		cur, err := it.Eval(x.Target, env)
		if err != nil {
			return value.Unit(), err
		}
		rhs, err = ApplyBinaryOp(compoundOp(x.Op), cur, rhs, x.Pos())
		if err != nil {
			return value.Unit(), err
		}
	}
	switch t := x.Target.(type) {
	case *ast.Ident:
		if err := env.Assign(t.Name, rhs, x.Pos()); err != nil {
			return value.Unit(), err
		}
		return value.Unit(), nil
	case *ast.IndexExpr:
		recv, err := it.Eval(t.X, env)
		if err != nil {
			return value.Unit(), err
		}
		idx, err := it.Eval(t.Index, env)
		if err != nil {
			return value.Unit(), err
		}
		return value.Unit(), assignIndex(recv, idx, rhs, t.Pos())
	case *ast.SelectorExpr:
		recv, err := it.Eval(t.X, env)
		if err != nil {
			return value.Unit(), err
		}
		if recv.Kind() != value.KindObject {
			return value.Unit(), newErr(KindTypeError, t.Pos(), "cannot assign field on non-Object value")
		}
		recv.Object().Fields.Set(t.Sel.Name, rhs)
		return value.Unit(), nil
	}
	return value.Unit(), newErr(KindUnsupportedFeature, x.Pos(), "unsupported assignment target")
}

func compoundOp(op token.Token) token.Token {
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

func assignIndex(recv, idx, rhs value.Value, pos token.Pos) error {
	switch recv.Kind() {
	case value.KindList:
		l := recv.List()
		if idx.Kind() != value.KindInt {
			return newErr(KindTypeError, pos, "list index must be Int")
		}
		i := idx.Int()
		if i < 0 || i >= int64(len(l.Elems)) {
			return newErr(KindIndexOutOfBounds, pos, "index %d out of bounds (len %d)", i, len(l.Elems))
		}
		l.Elems[i] = rhs
		return nil
	case value.KindMap:
		recv.Map().Set(value.Display(idx), rhs)
		return nil
	}
	return newErr(KindTypeError, pos, "cannot index-assign into value of kind %s", recv.Kind())
}

func (it *Interpreter) evalLet(x *ast.LetExpr, env *Environment) (value.Value, error) {
	v, err := it.Eval(x.Value, env)
	if err != nil {
		return value.Unit(), err
	}
	if x.Body != nil {
		scope := env.Child()
		if err := it.BindPattern(scope, x.Pat, v); err != nil {
			return value.Unit(), err
		}
		return it.Eval(x.Body, scope)
	}
	if err := it.BindPattern(env, x.Pat, v); err != nil {
		return value.Unit(), err
	}
	return value.Unit(), nil
}

// BindPattern binds v's destructured components into scope, per spec
// section 3.3. It reports PatternMatchFailed if v's shape does not fit pat
// (e.g. a tuple pattern against a non-tuple value).
func (it *Interpreter) BindPattern(scope Binder, pat ast.Pattern, v value.Value) error {
	ok, err := it.MatchPattern(scope, pat, v)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(KindPatternMatchFailed, pat.Pos(), "pattern does not match value")
	}
	return nil
}

// MatchPattern tests pat against v, binding any names on success. It never
// returns an error except for a malformed literal pattern; ordinary
// non-matches return (false, nil) so callers distinguish "no match" from a
// genuine fault.
func (it *Interpreter) MatchPattern(scope Binder, pat ast.Pattern, v value.Value) (bool, error) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.BindingPattern:
		scope.Define(p.Name.Name, v, p.Mutable, p.Pos())
		return true, nil
	case *ast.LiteralPattern:
		lv, err := it.Eval(p.Value, scope)
		if err != nil {
			return false, err
		}
		return value.Equal(lv, v), nil
	case *ast.TuplePattern:
		if v.Kind() != value.KindTuple || len(v.Tuple().Elems) != len(p.Elts) {
			return false, nil
		}
		for i, elt := range p.Elts {
			ok, err := it.MatchPattern(scope, elt, v.Tuple().Elems[i])
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *ast.ListPattern:
		if v.Kind() != value.KindList {
			return false, nil
		}
		elems := v.List().Elems
		if p.Rest == nil {
			if len(elems) != len(p.Elts) {
				return false, nil
			}
		} else if len(elems) < len(p.Elts) {
			return false, nil
		}
		for i, elt := range p.Elts {
			ok, err := it.MatchPattern(scope, elt, elems[i])
			if err != nil || !ok {
				return false, err
			}
		}
		if p.Rest != nil {
			scope.Define(p.Rest.Name, value.ListOf(append([]value.Value{}, elems[len(p.Elts):]...)), false, p.Pos())
		}
		return true, nil
	case *ast.StructPattern:
		if v.Kind() != value.KindObject {
			return false, nil
		}
		obj := v.Object()
		if p.Name != nil && obj.TypeName != p.Name.Name {
			return false, nil
		}
		for _, f := range p.Fields {
			fv, ok := obj.Fields.Get(f.Name.Name)
			if !ok {
				return false, nil
			}
			ok2, err := it.MatchPattern(scope, f.Pat, fv)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil
	case *ast.EnumVariantPattern:
		if v.Kind() != value.KindObject {
			return false, nil
		}
		obj := v.Object()
		variant := p.Path[len(p.Path)-1].Name
		if obj.TypeName != variant {
			return false, nil
		}
		if p.IsStruct {
			for _, f := range p.Fields {
				fv, ok := obj.Fields.Get(f.Name.Name)
				if !ok {
					return false, nil
				}
				ok2, err := it.MatchPattern(scope, f.Pat, fv)
				if err != nil || !ok2 {
					return false, err
				}
			}
			return true, nil
		}
		for i, elt := range p.Elts {
			fv, ok := obj.Fields.Get(indexKey(i))
			if !ok {
				return false, nil
			}
			ok2, err := it.MatchPattern(scope, elt, fv)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil
	case *ast.OrPattern:
		for _, alt := range p.Alts {
			ok, err := it.MatchPattern(scope, alt, v)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, newErr(KindUnsupportedFeature, pat.Pos(), "unsupported pattern %T", pat)
}

func indexKey(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return digits[i : i+1]
	}
	// Tuple-form enum payloads are small in practice (spec 3.2); fall back
	// to a general formatter beyond single digits.
	return string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func (it *Interpreter) evalMatch(x *ast.MatchExpr, env *Environment) (value.Value, error) {
	scrutinee, err := it.Eval(x.Scrutinee, env)
	if err != nil {
		return value.Unit(), err
	}
	for _, arm := range x.Arms {
		scope := env.Child()
		ok, err := it.MatchPattern(scope, arm.Pat, scrutinee)
		if err != nil {
			return value.Unit(), err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := it.Eval(arm.Guard, scope)
			if err != nil {
				return value.Unit(), err
			}
			if g.Kind() != value.KindBool || !g.Bool() {
				continue
			}
		}
		return it.Eval(arm.Body, scope)
	}
	return value.Unit(), newErr(KindNonExhaustiveMatch, x.Pos(), "no match arm matched the scrutinee")
}

func (it *Interpreter) evalCall(x *ast.CallExpr, env *Environment) (value.Value, error) {
	fn, err := it.Eval(x.Fun, env)
	if err != nil {
		return value.Unit(), err
	}
	args := make([]value.Value, len(x.Args))
	for i, a := range x.Args {
		v, err := it.Eval(a, env)
		if err != nil {
			return value.Unit(), err
		}
		args[i] = v
	}
	return it.Call(fn, args, x.Pos())
}

// Call invokes fn with args, enforcing the recursion guard (spec section
// 4.4.2): the depth counter increments on entry and is decremented via
// defer so every exit path — including an error return — restores it.
func (it *Interpreter) Call(fn value.Value, args []value.Value, pos token.Pos) (value.Value, error) {
	switch fn.Kind() {
	case value.KindNative:
		it.depth++
		defer func() { it.depth-- }()
		if it.depth > it.RecursionLimit {
			return value.Unit(), recursionLimitExceeded(pos, it.depth, it.RecursionLimit)
		}
		return fn.Native().Fn(args)
	case value.KindClosure:
		return it.callClosure(fn.Closure(), args, pos)
	}
	return value.Unit(), newErr(KindTypeError, pos, "value of kind %s is not callable", fn.Kind())
}

func (it *Interpreter) callClosure(c *value.Closure, args []value.Value, pos token.Pos) (value.Value, error) {
	if len(args) != len(c.Params) {
		return value.Unit(), newErr(KindArityMismatch, pos, "expected %d argument(s), got %d", len(c.Params), len(args))
	}
	it.depth++
	defer func() { it.depth-- }()
	if it.depth > it.RecursionLimit {
		return value.Unit(), recursionLimitExceeded(pos, it.depth, it.RecursionLimit)
	}

	parentEnv, _ := c.Env.(*Environment)
	scope := &Environment{parent: parentEnv, vars: map[string]*binding{}}
	if parentEnv == nil {
		scope = NewEnvironment()
	}
	for i, p := range c.Params {
		if err := it.BindPattern(scope, p.Pat, args[i]); err != nil {
			return value.Unit(), err
		}
	}

	// The closure body reuses this call's parameter scope directly
	// (no extra Child()) — see Environment.Child's doc comment and
	// spec section 9's closure-scope invariant.
	var result value.Value
	var err error
	switch body := c.Body.(type) {
	case *ast.BlockExpr:
		result, err = it.evalBlockInScope(body, scope)
	default:
		result, err = it.Eval(body, scope)
	}
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return result, err
}

func (it *Interpreter) evalSelector(x *ast.SelectorExpr, env *Environment) (value.Value, error) {
	recv, err := it.Eval(x.X, env)
	if err != nil {
		return value.Unit(), err
	}
	if recv.Kind() != value.KindObject {
		return value.Unit(), newErr(KindTypeError, x.Pos(), "cannot access field %q of non-Object value", x.Sel.Name)
	}
	v, ok := recv.Object().Fields.Get(x.Sel.Name)
	if !ok {
		return value.Unit(), newErr(KindKeyNotFound, x.Pos(), "no field %q", x.Sel.Name)
	}
	return v, nil
}

func (it *Interpreter) evalIndex(x *ast.IndexExpr, env *Environment) (value.Value, error) {
	recv, err := it.Eval(x.X, env)
	if err != nil {
		return value.Unit(), err
	}
	idx, err := it.Eval(x.Index, env)
	if err != nil {
		return value.Unit(), err
	}
	return IndexValue(recv, idx, x.Pos())
}

// IndexValue implements `recv[idx]` over already-evaluated operands for
// List/Tuple/Map/String, per spec section 3.4. Exported so the bytecode
// VM's MethodCall-with-"__index__" lowering of IndexExpr (there is no
// dedicated index opcode in the frozen C5' set) shares this exact behavior
// with the tree-walker rather than re-implementing it.
func IndexValue(recv, idx value.Value, pos token.Pos) (value.Value, error) {
	switch recv.Kind() {
	case value.KindList:
		if idx.Kind() != value.KindInt {
			return value.Unit(), newErr(KindTypeError, pos, "list index must be Int")
		}
		elems := recv.List().Elems
		i := idx.Int()
		if i < 0 || i >= int64(len(elems)) {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "index %d out of bounds (len %d)", i, len(elems))
		}
		return elems[i], nil
	case value.KindTuple:
		if idx.Kind() != value.KindInt {
			return value.Unit(), newErr(KindTypeError, pos, "tuple index must be Int")
		}
		elems := recv.Tuple().Elems
		i := idx.Int()
		if i < 0 || i >= int64(len(elems)) {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "index %d out of bounds (len %d)", i, len(elems))
		}
		return elems[i], nil
	case value.KindMap:
		key := value.Display(idx)
		v, ok := recv.Map().Get(key)
		if !ok {
			return value.Unit(), newErr(KindKeyNotFound, pos, "key %q not found", key)
		}
		return v, nil
	case value.KindString:
		if idx.Kind() != value.KindInt {
			return value.Unit(), newErr(KindTypeError, pos, "string index must be Int")
		}
		rs := []rune(recv.String())
		i := idx.Int()
		if i < 0 || i >= int64(len(rs)) {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "index %d out of bounds (len %d)", i, len(rs))
		}
		return value.Char(rs[i]), nil
	}
	return value.Unit(), newErr(KindTypeError, pos, "value of kind %s is not indexable", recv.Kind())
}
