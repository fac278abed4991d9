// Package value defines Ruchy's runtime value model (spec section 3.4): the
// closed set of tagged values produced by evaluating an AST, shared by the
// tree-walking interpreter (interp) and the bytecode VM (vm). Composite
// values (List, Map, Object) are reference types by construction — a Go
// pointer/slice-header held by multiple bindings already gives the
// shared-mutable-payload semantics spec section 3.5 requires, so no
// explicit refcount field is needed beyond what Go's garbage collector
// already provides; "reference-counted" in the spec's vocabulary is
// satisfied by ordinary pointer aliasing here, the same way the teacher's
// own `internal/core/adt.Vertex` values are shared by pointer rather than by
// an explicit counter.
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
)

// Kind tags a Value's runtime type, used for method dispatch (spec 4.4.2)
// and for the interpreter/type-inference agreement property (spec 8.1 #4).
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindAtom
	KindList
	KindTuple
	KindMap
	KindObject
	KindRange
	KindClosure
	KindNative
	KindBuiltinTag
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindAtom:
		return "Atom"
	case KindList:
		return "List"
	case KindTuple:
		return "Tuple"
	case KindMap:
		return "Map"
	case KindObject:
		return "Object"
	case KindRange:
		return "Range"
	case KindClosure:
		return "Closure"
	case KindNative:
		return "NativeFn"
	case KindBuiltinTag:
		return "BuiltinTag"
	case KindError:
		return "Error"
	}
	return "?"
}

// A Value is any runtime value the interpreter or VM can hold. Scalars
// (Unit, Bool, Int, Float, Char, String, Atom) are represented directly;
// composite kinds hold a pointer to their shared payload.
type Value struct {
	kind Kind

	b bool
	i int64
	f float64
	s string // String, Char (single rune), Atom name

	list   *List
	tuple  *Tuple
	mapv   *Map
	object *Object
	rng    *Range
	clo    *Closure
	native *Native
	errmsg string
}

func (v Value) Kind() Kind { return v.kind }

// Scope is the minimal environment contract a Closure needs to capture.
// interp.Environment satisfies this; kept as an interface here so value
// does not import interp (which imports value), avoiding a cycle.
type Scope interface {
	Lookup(name string) (Value, bool)
}

// List is the shared payload of a List value: a resizable slice shared by
// every binding that holds this List value, per spec 3.5's "mutable
// containers shared by reference" invariant.
type List struct{ Elems []Value }

// Tuple is a fixed-arity immutable sequence.
type Tuple struct{ Elems []Value }

// Map is a string-keyed, insertion-ordered, shared-by-reference map.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map { return &Map{values: map[string]Value{}} }

func (m *Map) Get(k string) (Value, bool) { v, ok := m.values[k]; return v, ok }

func (m *Map) Set(k string, v Value) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *Map) Delete(k string) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, kk := range m.keys {
		if kk == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *Map) Len() int { return len(m.keys) }

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// SortedKeys returns the map's keys sorted lexicographically, for
// deterministic iteration/printing when stable insertion order is not what
// is wanted.
func (m *Map) SortedKeys() []string {
	out := m.Keys()
	sort.Strings(out)
	return out
}

// Object is a named-field record value (struct instance).
type Object struct {
	TypeName string
	Fields   *Map
}

// Range is a (start, end, inclusive) integer range value.
type Range struct {
	Start, End int64
	Inclusive  bool
}

// Len reports the number of integers the range yields, per spec 6.3's
// "Range: iteration, len (for integer ranges)".
func (r *Range) Len() int64 {
	n := r.End - r.Start
	if r.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// Closure is a function value capturing its defining environment by
// reference (spec 3.5/3.7): mutations visible in that scope after capture
// remain visible through the closure.
type Closure struct {
	Name   string // empty for anonymous lambdas
	Params []*ast.Param
	Body   ast.Expr
	Env    Scope
}

// Native is a host-exposed function not backed by an AST body (builtins).
type Native struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

// Constructors.

func Unit() Value                  { return Value{kind: KindUnit} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func Int(i int64) Value            { return Value{kind: KindInt, i: i} }
func Float(f float64) Value        { return Value{kind: KindFloat, f: f} }
func Char(r rune) Value            { return Value{kind: KindChar, s: string(r)} }
func String(s string) Value        { return Value{kind: KindString, s: s} }
func Atom(name string) Value       { return Value{kind: KindAtom, s: ast.Intern(name)} }
func ListOf(elems []Value) Value   { return Value{kind: KindList, list: &List{Elems: elems}} }
func FromList(l *List) Value       { return Value{kind: KindList, list: l} }
func TupleOf(elems []Value) Value  { return Value{kind: KindTuple, tuple: &Tuple{Elems: elems}} }
func FromMap(m *Map) Value         { return Value{kind: KindMap, mapv: m} }
func FromObject(o *Object) Value   { return Value{kind: KindObject, object: o} }
func FromRange(r *Range) Value     { return Value{kind: KindRange, rng: r} }
func FromClosure(c *Closure) Value { return Value{kind: KindClosure, clo: c} }
func FromNative(n *Native) Value   { return Value{kind: KindNative, native: n} }
func BuiltinTag(name string) Value { return Value{kind: KindBuiltinTag, s: name} }
func ErrorValue(msg string) Value  { return Value{kind: KindError, errmsg: msg} }

// Accessors: unchecked. Each returns its field as stored without looking at
// Kind, matching the teacher's own internal "caller already checked Kind()"
// convention for low-level accessors (mirrors cue/internal/core/adt.Vertex's
// unchecked type-specific getters). A mismatched call yields the field's
// zero value; Char panics when the value holds an empty string.

func (v Value) Bool() bool      { return v.b }
func (v Value) Int() int64      { return v.i }
func (v Value) Float() float64  { return v.f }
func (v Value) Char() rune      { r := []rune(v.s); return r[0] }
func (v Value) String() string  { return v.s }
func (v Value) AtomName() string { return v.s }
func (v Value) List() *List     { return v.list }
func (v Value) Tuple() *Tuple   { return v.tuple }
func (v Value) Map() *Map       { return v.mapv }
func (v Value) Object() *Object { return v.object }
func (v Value) Range() *Range   { return v.rng }
func (v Value) Closure() *Closure { return v.clo }
func (v Value) Native() *Native { return v.native }
func (v Value) ErrorMsg() string { return v.errmsg }

// AsFloat promotes an Integer value to float64, per spec 6.2's "integer ↔
// float operands in a binary op promote the integer side to float".
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Truthy reports whether v counts as true in a boolean context. Only Bool
// values are permitted by the type checker in condition position; this is
// used by the interpreter's advisory (untyped) fallback path.
func (v Value) Truthy() bool {
	return v.kind == KindBool && v.b
}

// Equal implements spec 6.2's structural equality, with NaN-unequal float
// semantics and atoms distinct from equal-spelled strings (Open Question,
// resolved in DESIGN.md: atoms never equal strings).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUnit:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		if math.IsNaN(a.f) || math.IsNaN(b.f) {
			return false
		}
		return a.f == b.f
	case KindChar, KindString, KindAtom:
		return a.s == b.s
	case KindTuple:
		if len(a.tuple.Elems) != len(b.tuple.Elems) {
			return false
		}
		for i := range a.tuple.Elems {
			if !Equal(a.tuple.Elems[i], b.tuple.Elems[i]) {
				return false
			}
		}
		return true
	case KindList:
		if len(a.list.Elems) != len(b.list.Elems) {
			return false
		}
		for i := range a.list.Elems {
			if !Equal(a.list.Elems[i], b.list.Elems[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.mapv.Len() != b.mapv.Len() {
			return false
		}
		for _, k := range a.mapv.Keys() {
			av, _ := a.mapv.Get(k)
			bv, ok := b.mapv.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindRange:
		return a.rng.Start == b.rng.Start && a.rng.End == b.rng.End && a.rng.Inclusive == b.rng.Inclusive
	case KindClosure:
		return a.clo == b.clo
	case KindNative:
		return a.native == b.native
	case KindError:
		return a.errmsg == b.errmsg
	}
	return false
}

// Less implements spec 6.2's ordering on Integer, Float, Char, String, and
// lexicographic Tuple comparison. ok is false if a and b are not an
// orderable pair.
func Less(a, b Value) (result, ok bool) {
	if a.kind != b.kind {
		return false, false
	}
	switch a.kind {
	case KindInt:
		return a.i < b.i, true
	case KindFloat:
		return a.f < b.f, true
	case KindChar, KindString:
		return a.s < b.s, true
	case KindTuple:
		n := len(a.tuple.Elems)
		if len(b.tuple.Elems) < n {
			n = len(b.tuple.Elems)
		}
		for i := 0; i < n; i++ {
			if lt, ok := Less(a.tuple.Elems[i], b.tuple.Elems[i]); ok && lt {
				return true, true
			} else if ok && !Equal(a.tuple.Elems[i], b.tuple.Elems[i]) {
				return false, true
			}
		}
		return len(a.tuple.Elems) < len(b.tuple.Elems), true
	}
	return false, false
}

// Display renders v the way string interpolation (spec 6.2) stringifies a
// segment: the target's Display-equivalent.
func Display(v Value) string {
	switch v.kind {
	case KindUnit:
		return "()"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return formatFloat(v.f)
	case KindChar, KindString:
		return v.s
	case KindAtom:
		return ":" + v.s
	case KindList:
		parts := make([]string, len(v.list.Elems))
		for i, e := range v.list.Elems {
			parts[i] = Display(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, len(v.tuple.Elems))
		for i, e := range v.tuple.Elems {
			parts[i] = Display(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindMap:
		parts := make([]string, 0, v.mapv.Len())
		for _, k := range v.mapv.Keys() {
			mv, _ := v.mapv.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, Display(mv)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindObject:
		parts := make([]string, 0, v.object.Fields.Len())
		for _, k := range v.object.Fields.Keys() {
			fv, _ := v.object.Fields.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, Display(fv)))
		}
		return v.object.TypeName + " { " + strings.Join(parts, ", ") + " }"
	case KindRange:
		if v.rng.Inclusive {
			return fmt.Sprintf("%d..=%d", v.rng.Start, v.rng.End)
		}
		return fmt.Sprintf("%d..%d", v.rng.Start, v.rng.End)
	case KindClosure:
		name := v.clo.Name
		if name == "" {
			name = "<anonymous>"
		}
		return fmt.Sprintf("<closure %s>", name)
	case KindNative:
		return fmt.Sprintf("<native %s>", v.native.Name)
	case KindBuiltinTag:
		return fmt.Sprintf("<builtin %s>", v.s)
	case KindError:
		return fmt.Sprintf("Error(%s)", v.errmsg)
	}
	return "?"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
