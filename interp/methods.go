package interp

import (
	"sort"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// evalMethodCall dispatches recv.method(args) in the order spec section 9
// fixes: inherent impl methods beat trait-default methods beat the builtin
// method surface (spec section 6.3). Ruchy's impl blocks don't distinguish
// inherent from trait-provided at this layer (both land in it.impls keyed
// by concrete type name), so the lookup here is: user-defined impl method,
// then builtin.
func (it *Interpreter) evalMethodCall(x *ast.MethodCallExpr, env *Environment) (value.Value, error) {
	recv, err := it.Eval(x.Recv, env)
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
	return it.CallMethod(recv, x.Method.Name, args, x.Pos())
}

// CallMethod resolves and invokes recv.name(args) against already-evaluated
// values, in the dispatch order spec section 9 fixes: a user-defined impl
// method beats the builtin method surface (spec section 6.3). Exported so
// the bytecode VM's MethodCall instruction can share this single dispatch
// table with the tree-walker instead of re-implementing it (spec 4.4.3's
// parity invariant).
func (it *Interpreter) CallMethod(recv value.Value, name string, args []value.Value, pos token.Pos) (value.Value, error) {
	if recv.Kind() == value.KindObject {
		if methods, ok := it.impls[recv.Object().TypeName]; ok {
			if m, ok := methods[name]; ok {
				return it.callUserMethod(m, recv, args, pos)
			}
		}
	}

	v, err, handled := it.CallBuiltinMethod(recv, name, args, pos)
	if handled {
		return v, err
	}
	return value.Unit(), newErr(KindNameResolution, pos, "no method %q on value of kind %s", name, recv.Kind())
}

func (it *Interpreter) callUserMethod(m *ast.FuncDecl, recv value.Value, args []value.Value, pos token.Pos) (value.Value, error) {
	clo := &value.Closure{Name: m.Name.Name, Params: m.Params, Body: m.Body, Env: NewEnvironment()}
	full := append([]value.Value{recv}, args...)
	if len(full) != len(clo.Params) {
		// When the parameter count matches the arguments without the
		// receiver, the method is called as a free function attached to the
		// type namespace, with args only; parameter names are not inspected.
		if len(args) == len(clo.Params) {
			return it.callClosure(clo, args, pos)
		}
		return value.Unit(), newErr(KindArityMismatch, pos, "expected %d argument(s), got %d", len(clo.Params), len(args))
	}
	return it.callClosure(clo, full, pos)
}

// CallBuiltinMethod implements the runtime behavior for every builtin
// method whose type signature is declared in types/builtins.go (spec
// section 6.3). handled is false if name isn't a recognized builtin for
// recv's kind, letting the caller produce a NameResolution error.
func (it *Interpreter) CallBuiltinMethod(recv value.Value, name string, args []value.Value, pos token.Pos) (value.Value, error, bool) {
	switch recv.Kind() {
	case value.KindString:
		v, err, ok := stringMethod(recv.String(), name, args, pos)
		return v, err, ok
	case value.KindList:
		v, err, ok := listMethod(it, recv.List(), name, args, pos)
		return v, err, ok
	case value.KindMap:
		v, err, ok := mapMethod(recv.Map(), name, args, pos)
		return v, err, ok
	case value.KindRange:
		v, err, ok := rangeMethod(recv.Range(), name, pos)
		return v, err, ok
	}
	return value.Unit(), nil, false
}

func stringMethod(s, name string, args []value.Value, pos token.Pos) (value.Value, error, bool) {
	switch name {
	case "len":
		return value.Int(int64(len([]rune(s)))), nil, true
	case "to_upper":
		return value.String(strings.ToUpper(s)), nil, true
	case "to_lower":
		return value.String(strings.ToLower(s)), nil, true
	case "trim":
		return value.String(strings.TrimSpace(s)), nil, true
	case "split":
		sep, err := stringArg(args, 0, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		parts := strings.Split(s, sep)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(p)
		}
		return value.ListOf(elems), nil, true
	case "replace":
		old, err := stringArg(args, 0, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		nw, err := stringArg(args, 1, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		return value.String(strings.ReplaceAll(s, old, nw)), nil, true
	case "contains":
		sub, err := stringArg(args, 0, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		return value.Bool(strings.Contains(s, sub)), nil, true
	case "starts_with":
		sub, err := stringArg(args, 0, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		return value.Bool(strings.HasPrefix(s, sub)), nil, true
	case "ends_with":
		sub, err := stringArg(args, 0, pos)
		if err != nil {
			return value.Unit(), err, true
		}
		return value.Bool(strings.HasSuffix(s, sub)), nil, true
	case "chars":
		rs := []rune(s)
		elems := make([]value.Value, len(rs))
		for i, r := range rs {
			elems[i] = value.Char(r)
		}
		return value.ListOf(elems), nil, true
	}
	return value.Unit(), nil, false
}

func stringArg(args []value.Value, i int, pos token.Pos) (string, error) {
	if i >= len(args) || args[i].Kind() != value.KindString {
		return "", newErr(KindTypeError, pos, "argument %d must be a String", i)
	}
	return args[i].String(), nil
}

func listMethod(it *Interpreter, l *value.List, name string, args []value.Value, pos token.Pos) (value.Value, error, bool) {
	switch name {
	case "len":
		return value.Int(int64(len(l.Elems))), nil, true
	case "push":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "push expects 1 argument"), true
		}
		l.Elems = append(l.Elems, args[0])
		return value.Unit(), nil, true
	case "pop":
		if len(l.Elems) == 0 {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "pop on empty List"), true
		}
		last := l.Elems[len(l.Elems)-1]
		l.Elems = l.Elems[:len(l.Elems)-1]
		return last, nil, true
	case "head":
		if len(l.Elems) == 0 {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "head of empty List"), true
		}
		return l.Elems[0], nil, true
	case "tail":
		if len(l.Elems) == 0 {
			return value.Unit(), newErr(KindIndexOutOfBounds, pos, "tail of empty List"), true
		}
		return value.ListOf(append([]value.Value{}, l.Elems[1:]...)), nil, true
	case "reverse":
		out := make([]value.Value, len(l.Elems))
		for i, v := range l.Elems {
			out[len(l.Elems)-1-i] = v
		}
		return value.ListOf(out), nil, true
	case "sort":
		out := append([]value.Value{}, l.Elems...)
		sort.SliceStable(out, func(i, j int) bool {
			res, _ := value.Less(out[i], out[j])
			return res
		})
		return value.ListOf(out), nil, true
	case "contains":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "contains expects 1 argument"), true
		}
		for _, v := range l.Elems {
			if value.Equal(v, args[0]) {
				return value.Bool(true), nil, true
			}
		}
		return value.Bool(false), nil, true
	case "sum":
		var isFloat bool
		var fsum float64
		var isum int64
		for _, v := range l.Elems {
			if v.Kind() == value.KindFloat {
				isFloat = true
			}
		}
		for _, v := range l.Elems {
			if isFloat {
				fsum += v.AsFloat()
			} else {
				isum += v.Int()
			}
		}
		if isFloat {
			return value.Float(fsum), nil, true
		}
		return value.Int(isum), nil, true
	case "map":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "map expects 1 argument"), true
		}
		out := make([]value.Value, len(l.Elems))
		for i, v := range l.Elems {
			r, err := it.Call(args[0], []value.Value{v}, pos)
			if err != nil {
				return value.Unit(), err, true
			}
			out[i] = r
		}
		return value.ListOf(out), nil, true
	case "filter":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "filter expects 1 argument"), true
		}
		var out []value.Value
		for _, v := range l.Elems {
			r, err := it.Call(args[0], []value.Value{v}, pos)
			if err != nil {
				return value.Unit(), err, true
			}
			if r.Kind() == value.KindBool && r.Bool() {
				out = append(out, v)
			}
		}
		return value.ListOf(out), nil, true
	case "reduce":
		if len(args) != 2 {
			return value.Unit(), newErr(KindArityMismatch, pos, "reduce expects 2 arguments"), true
		}
		acc := args[0]
		for _, v := range l.Elems {
			r, err := it.Call(args[1], []value.Value{acc, v}, pos)
			if err != nil {
				return value.Unit(), err, true
			}
			acc = r
		}
		return acc, nil, true
	}
	return value.Unit(), nil, false
}

func mapMethod(m *value.Map, name string, args []value.Value, pos token.Pos) (value.Value, error, bool) {
	switch name {
	case "len":
		return value.Int(int64(m.Len())), nil, true
	case "keys":
		ks := m.Keys()
		out := make([]value.Value, len(ks))
		for i, k := range ks {
			out[i] = value.String(k)
		}
		return value.ListOf(out), nil, true
	case "values":
		ks := m.Keys()
		out := make([]value.Value, len(ks))
		for i, k := range ks {
			v, _ := m.Get(k)
			out[i] = v
		}
		return value.ListOf(out), nil, true
	case "entries":
		ks := m.Keys()
		out := make([]value.Value, len(ks))
		for i, k := range ks {
			v, _ := m.Get(k)
			out[i] = value.TupleOf([]value.Value{value.String(k), v})
		}
		return value.ListOf(out), nil, true
	case "get":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "get expects 1 argument"), true
		}
		v, ok := m.Get(value.Display(args[0]))
		if !ok {
			return value.Unit(), newErr(KindKeyNotFound, pos, "key not found"), true
		}
		return v, nil, true
	case "insert":
		if len(args) != 2 {
			return value.Unit(), newErr(KindArityMismatch, pos, "insert expects 2 arguments"), true
		}
		m.Set(value.Display(args[0]), args[1])
		return value.Unit(), nil, true
	case "remove":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "remove expects 1 argument"), true
		}
		m.Delete(value.Display(args[0]))
		return value.Unit(), nil, true
	case "contains_key":
		if len(args) != 1 {
			return value.Unit(), newErr(KindArityMismatch, pos, "contains_key expects 1 argument"), true
		}
		_, ok := m.Get(value.Display(args[0]))
		return value.Bool(ok), nil, true
	}
	return value.Unit(), nil, false
}

func rangeMethod(r *value.Range, name string, pos token.Pos) (value.Value, error, bool) {
	if name == "len" {
		return value.Int(r.Len()), nil, true
	}
	return value.Unit(), nil, false
}
