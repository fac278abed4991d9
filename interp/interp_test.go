package interp_test

import (
	"strconv"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/value"
)

func runSrc(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	f, err := parser.ParseFile("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}
	it := interp.New()
	v, _, err := it.Run(f)
	return v, err
}

func TestArithmetic(t *testing.T) {
	v, err := runSrc(t, "let n = 5; n * n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(25)))
}

// 8.1 property 5: commutativity of + and * over integers.
func TestArithmeticCommutativity(t *testing.T) {
	pairs := [][2]int64{{3, 7}, {-2, 9}, {0, 5}, {100, -100}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		vab, err := runSrc(t, plusSrc(a, b))
		qt.Assert(t, qt.IsNil(err))
		vba, err := runSrc(t, plusSrc(b, a))
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(vab.Int(), vba.Int()))

		mab, err := runSrc(t, mulSrc(a, b))
		qt.Assert(t, qt.IsNil(err))
		mba, err := runSrc(t, mulSrc(b, a))
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(mab.Int(), mba.Int()))
	}
}

func plusSrc(a, b int64) string { return intLit(a) + " + " + intLit(b) }
func mulSrc(a, b int64) string  { return intLit(a) + " * " + intLit(b) }

func intLit(n int64) string { return strconv.FormatInt(n, 10) }

func TestRecursiveFactorial(t *testing.T) {
	v, err := runSrc(t, "fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }; fact(10)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(3628800)))
}

// 8.1 property 8: a closure returned from a function still sees that
// function's captured parameter.
func TestClosureCapture(t *testing.T) {
	v, err := runSrc(t, "fun mk(n) { |x| x + n }; mk(5)(10)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(15)))
}

// 8.1 property 7: unbounded recursion is a normal error value, not a crash.
func TestRecursionLimitExceeded(t *testing.T) {
	_, err := runSrc(t, "fun inf() { inf() }; inf()")
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindRecursionLimitExceeded))
}

// 8.1 property 6: a plain string with no `f` prefix is never interpolated.
func TestInterpolationGate(t *testing.T) {
	v, err := runSrc(t, `"Hello, {name}!"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.String(), "Hello, {name}!"))
}

func TestFStringInterpolates(t *testing.T) {
	v, err := runSrc(t, `let name = "World"; f"Hello, {name}!"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.String(), "Hello, World!"))
}

// 8.1 property 9: two bindings aliasing the same list observe a mutation
// through either one.
func TestMutationVisibilityThroughAliasing(t *testing.T) {
	v, err := runSrc(t, `
		let mut xs = [1, 2, 3];
		let ys = xs;
		xs.push(4);
		ys
	`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(value.Display(v), "[1, 2, 3, 4]"))
}

// 8.1 property 10: break 'outer exits the outer loop regardless of how many
// inner loops intervene.
func TestLabeledBreak(t *testing.T) {
	v, err := runSrc(t, "'outer: for i in [1,2,3] { for j in [10,20] { if j == 20 { break 'outer } } }; 42")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(42)))
}

func TestListDestructure(t *testing.T) {
	v, err := runSrc(t, "let [head, ..tail] = [1, 2, 3, 4]; (head, tail)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(value.Display(v), "(1, [2, 3, 4])"))
}

func TestImmutableAssignmentErrors(t *testing.T) {
	_, err := runSrc(t, "let x = 1; x = 2")
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindImmutableAssignment))
	qt.Check(t, qt.Equals(ie.Error(), "ImmutableAssignment: cannot assign to immutable binding \"x\"\nhelp: declare the binding with `let mut` or shadow it with a new `let`"))
}

func TestMutableAssignmentSucceeds(t *testing.T) {
	v, err := runSrc(t, "let mut x = 1; x = 2; x")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(2)))
}

func TestModuleVisibility(t *testing.T) {
	v, err := runSrc(t, "mod m { pub fun f() { 7 } }; m::f()")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Int(), int64(7)))
}

func TestModulePrivateMemberIsNameResolutionError(t *testing.T) {
	_, err := runSrc(t, "mod m { fun f() { 7 } }; m::f()")
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindNameResolution))
}

func TestDivisionByZero(t *testing.T) {
	_, err := runSrc(t, "1 / 0")
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindDivisionByZero))
}

func TestMatchNonExhaustiveIsRuntimeError(t *testing.T) {
	_, err := runSrc(t, "match 3 { 1 => 1, 2 => 2 }")
	qt.Assert(t, qt.IsNotNil(err))
	ie, ok := err.(*interp.Error)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ie.Kind, interp.KindNonExhaustiveMatch))
}
