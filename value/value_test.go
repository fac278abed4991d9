package value_test

import (
	"math"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/value"
)

func TestEqualScalars(t *testing.T) {
	qt.Check(t, qt.IsTrue(value.Equal(value.Int(3), value.Int(3))))
	qt.Check(t, qt.IsFalse(value.Equal(value.Int(3), value.Int(4))))
	qt.Check(t, qt.IsFalse(value.Equal(value.Int(3), value.Float(3))))
	qt.Check(t, qt.IsTrue(value.Equal(value.String("hi"), value.String("hi"))))
}

func TestEqualNaN(t *testing.T) {
	nan := value.Float(math.NaN())
	qt.Check(t, qt.IsFalse(value.Equal(nan, nan)))
}

func TestEqualAtomNeverEqualsString(t *testing.T) {
	// DESIGN.md's resolved Open Question: atoms and equal-spelled strings
	// are distinct values.
	qt.Check(t, qt.IsFalse(value.Equal(value.Atom("ok"), value.String("ok"))))
}

func TestEqualListByElements(t *testing.T) {
	a := value.ListOf([]value.Value{value.Int(1), value.Int(2)})
	b := value.ListOf([]value.Value{value.Int(1), value.Int(2)})
	c := value.ListOf([]value.Value{value.Int(1), value.Int(3)})
	qt.Check(t, qt.IsTrue(value.Equal(a, b)))
	qt.Check(t, qt.IsFalse(value.Equal(a, c)))
}

func TestListSharedByReference(t *testing.T) {
	// spec 3.5: two bindings aliasing the same List payload observe the
	// same mutation (8.1 property 9).
	l := &value.List{Elems: []value.Value{value.Int(1)}}
	a := value.FromList(l)
	b := value.FromList(l)
	l.Elems = append(l.Elems, value.Int(2))
	qt.Assert(t, qt.Equals(len(a.List().Elems), len(b.List().Elems)))
	qt.Assert(t, qt.IsTrue(value.Equal(b.List().Elems[1], value.Int(2))))
}

func TestLessOrdering(t *testing.T) {
	lt, ok := value.Less(value.Int(1), value.Int(2))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(lt))

	_, ok = value.Less(value.Int(1), value.String("x"))
	qt.Assert(t, qt.IsFalse(ok))
}

func TestLessTupleLexicographic(t *testing.T) {
	a := value.TupleOf([]value.Value{value.Int(1), value.Int(2)})
	b := value.TupleOf([]value.Value{value.Int(1), value.Int(3)})
	lt, ok := value.Less(a, b)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(lt))
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.Unit(), "()"},
		{value.Bool(true), "true"},
		{value.Int(42), "42"},
		{value.Float(3.5), "3.5"},
		{value.Float(3), "3.0"},
		{value.String("hi"), "hi"},
		{value.Atom("ok"), ":ok"},
		{value.ListOf([]value.Value{value.Int(1), value.Int(2)}), "[1, 2]"},
		{value.TupleOf([]value.Value{value.Int(1), value.ListOf([]value.Value{value.Int(2), value.Int(3), value.Int(4)})}), "(1, [2, 3, 4])"},
	}
	for _, tt := range tests {
		qt.Check(t, qt.Equals(value.Display(tt.v), tt.want))
	}
}

func TestDisplayFloatSpecials(t *testing.T) {
	qt.Check(t, qt.Equals(value.Display(value.Float(math.NaN())), "NaN"))
	qt.Check(t, qt.Equals(value.Display(value.Float(math.Inf(1))), "inf"))
	qt.Check(t, qt.Equals(value.Display(value.Float(math.Inf(-1))), "-inf"))
}

func TestAsFloatPromotesInt(t *testing.T) {
	qt.Check(t, qt.Equals(value.Int(7).AsFloat(), 7.0))
	qt.Check(t, qt.Equals(value.Float(7.5).AsFloat(), 7.5))
}

func TestTruthyOnlyBool(t *testing.T) {
	qt.Check(t, qt.IsTrue(value.Bool(true).Truthy()))
	qt.Check(t, qt.IsFalse(value.Bool(false).Truthy()))
	qt.Check(t, qt.IsFalse(value.Int(1).Truthy()))
}

func TestMapInsertionOrderPreserved(t *testing.T) {
	m := value.NewMap()
	m.Set("b", value.Int(2))
	m.Set("a", value.Int(1))
	qt.Assert(t, qt.DeepEquals(m.Keys(), []string{"b", "a"}))
	qt.Assert(t, qt.DeepEquals(m.SortedKeys(), []string{"a", "b"}))
}

func TestMapDelete(t *testing.T) {
	m := value.NewMap()
	m.Set("a", value.Int(1))
	m.Set("b", value.Int(2))
	m.Delete("a")
	_, ok := m.Get("a")
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.Equals(m.Len(), 1))
}

func TestRangeLen(t *testing.T) {
	qt.Check(t, qt.Equals((&value.Range{Start: 1, End: 4}).Len(), int64(3)))
	qt.Check(t, qt.Equals((&value.Range{Start: 1, End: 4, Inclusive: true}).Len(), int64(4)))
	qt.Check(t, qt.Equals((&value.Range{Start: 4, End: 1}).Len(), int64(0)))
}

func TestKindStringMatchesTypeNames(t *testing.T) {
	// 8.1 property 4 (type/runtime agreement): Kind's string form gives the
	// runtime tag names. The type checker's integer type is named Int, while
	// the runtime tag is Integer.
	qt.Check(t, qt.Equals(value.KindInt.String(), "Integer"))
	qt.Check(t, qt.Equals(value.KindString.String(), "String"))
	qt.Check(t, qt.Equals(value.KindBool.String(), "Bool"))
}
