package vm_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
	"github.com/ruchy-lang/ruchy/vm"
)

// parseFunc parses src (expected to be a single top-level `fun` declaration)
// and returns its parameter list and body, ready for vm.CompileFunction.
func parseFunc(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	f, err := parser.ParseFile("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}
	if len(f.Decls) != 1 {
		t.Fatalf("parseFunc(%q): expected exactly one decl, got %d", src, len(f.Decls))
	}
	fd, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("parseFunc(%q): decl is %T, not *ast.FuncDecl", src, f.Decls[0])
	}
	return fd
}

func TestCompileAndRunArithmetic(t *testing.T) {
	fd := parseFunc(t, "fun add(a, b) { a + b }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	m := vm.NewMachine(interp.New(), interp.NewEnvironment())
	v, err := m.Run(proto, []value.Value{value.Int(2), value.Int(3)})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(5)))
}

func TestCompileAndRunIf(t *testing.T) {
	fd := parseFunc(t, "fun abs(x) { if x < 0 { 0 - x } else { x } }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	m := vm.NewMachine(interp.New(), interp.NewEnvironment())
	v, err := m.Run(proto, []value.Value{value.Int(-7)})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(7)))
}

func TestCompileAndRunLet(t *testing.T) {
	fd := parseFunc(t, "fun f(a) { let b = a * 2; b + 1 }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	m := vm.NewMachine(interp.New(), interp.NewEnvironment())
	v, err := m.Run(proto, []value.Value{value.Int(10)})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(21)))
}

// Arity mismatch (a proto compiled for one parameter, called with two) is
// one of the opcode table's two CALL_DEPTH-adjacent error paths (the other
// is the recursion guard below); both must raise the same closed-taxonomy
// error the tree-walker would, per spec 4.4.3's parity invariant.
func TestArityMismatchIsArityMismatchError(t *testing.T) {
	fd := parseFunc(t, "fun f(a) { a }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	m := vm.NewMachine(interp.New(), interp.NewEnvironment())
	_, err = m.Run(proto, []value.Value{value.Int(1), value.Int(2)})
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindArityMismatch))
}

// A closure compiled by the VM is an ordinary value.Native, callable from
// the tree-walker's own Call without either side special-casing the other
// (spec 4.4.3's shared value model).
func TestClosureCaptureAcrossVMAndInterpreter(t *testing.T) {
	fd := parseFunc(t, "fun mk(n) { |x| x + n }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	it := interp.New()
	m := vm.NewMachine(it, interp.NewEnvironment())
	closure, err := m.Run(proto, []value.Value{value.Int(5)})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(closure.Kind(), value.KindNative))

	result, err := it.Call(closure, []value.Value{value.Int(10)}, token.NoPos)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Int(), int64(15)))
}

func TestOpStringsCoverFrozenTable(t *testing.T) {
	// The opcode table's String method must stay total: an unnamed Op
	// silently prints "Op(?)" rather than panicking, but every opcode the
	// compiler actually emits should have a real name.
	for op := vm.OpLoadConst; op <= vm.OpPropagateErr; op++ {
		qt.Check(t, qt.Not(qt.Equals(op.String(), "Op(?)")))
	}
}

func TestUnsupportedForLoopIsUnsupportedFeature(t *testing.T) {
	fd := parseFunc(t, "fun f() { for i in [1, 2, 3] { i } }")
	proto, err := vm.CompileFunction(fd.Params, fd.Body)
	qt.Assert(t, qt.IsNil(err))

	m := vm.NewMachine(interp.New(), interp.NewEnvironment())
	_, err = m.Run(proto, nil)
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindUnsupportedFeature))
}
