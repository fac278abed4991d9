package types_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/types"
)

func inferSrc(t *testing.T, src string) *types.Result {
	t.Helper()
	f, err := parser.ParseFile("test.ruchy", src)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}
	return types.Infer(f)
}

func TestInferArithmeticIsInt(t *testing.T) {
	res := inferSrc(t, "fun add(a: Int, b: Int) -> Int { a + b }")
	qt.Assert(t, qt.IsNil(res.Errs))
}

func TestInferIntFloatPromotion(t *testing.T) {
	// spec 6.2: mixing Int and Float promotes the result to Float.
	res := inferSrc(t, "fun f(a: Int, b: Float) -> Float { a + b }")
	qt.Assert(t, qt.IsNil(res.Errs))
}

func TestInferArityMismatchReportsError(t *testing.T) {
	res := inferSrc(t, "fun f(a: Int) { a }; f(1, 2)")
	qt.Assert(t, qt.IsNotNil(res.Errs))
}

func TestInferUnboundIdentifierReportsError(t *testing.T) {
	res := inferSrc(t, "fun f() { y }")
	qt.Assert(t, qt.IsNotNil(res.Errs))
}

func TestInferLetGeneralization(t *testing.T) {
	// id is generalized and reused at two different argument types.
	res := inferSrc(t, "fun f() { let id = |x| x; (id(1), id(true)) }")
	qt.Assert(t, qt.IsNil(res.Errs))
}

func TestInferIfBranchesMustUnify(t *testing.T) {
	res := inferSrc(t, `fun f(b: Bool) -> Int { if b { 1 } else { true } }`)
	qt.Assert(t, qt.IsNotNil(res.Errs))
}

func TestInferListElementsUnify(t *testing.T) {
	res := inferSrc(t, "fun f() { [1, 2, 3] }")
	qt.Assert(t, qt.IsNil(res.Errs))
}

func TestInferListHeterogeneousElementsError(t *testing.T) {
	res := inferSrc(t, "fun f() { [1, true] }")
	qt.Assert(t, qt.IsNotNil(res.Errs))
}

func TestUnifyOccursCheck(t *testing.T) {
	ctx := types.NewContext()
	v := ctx.Fresh()
	err := ctx.Unify(v, &types.Fun{Params: []types.Type{v}, Result: types.Int})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestUnifyMismatchedCons(t *testing.T) {
	ctx := types.NewContext()
	err := ctx.Unify(types.Int, types.Bool)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestConStringFormatsGenericArgs(t *testing.T) {
	qt.Check(t, qt.Equals(types.List(types.Int).String(), "List<Int>"))
	qt.Check(t, qt.Equals(types.MapT(types.String, types.Int).String(), "Map<String, Int>"))
}

func TestFunStringFormat(t *testing.T) {
	fn := &types.Fun{Params: []types.Type{types.Int, types.Int}, Result: types.Int}
	qt.Check(t, qt.Equals(fn.String(), "(Int, Int) -> Int"))
}

func TestGeneralizeInstantiateRoundTrip(t *testing.T) {
	ctx := types.NewContext()
	env := types.NewEnv()
	v := ctx.Fresh()
	scheme := ctx.Generalize(env, v)
	qt.Assert(t, qt.Equals(len(scheme.Vars), 1))

	inst := ctx.Instantiate(scheme)
	_, isVar := inst.(*types.Var)
	qt.Assert(t, qt.IsTrue(isVar))
}
