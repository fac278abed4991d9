// Package types implements Ruchy's Hindley-Milner-style type environment
// and inference engine (spec section 4.3, SPEC_FULL.md section 4.3). There
// is no direct analogue in the teacher — CUE's "types" are unified lattice
// values, not HM types — so this package is built fresh in the teacher's
// idiom: a long-lived Context object threading a union-find substitution
// and accumulating errors on a list rather than panicking, structurally
// modeled on internal/core/adt.OpContext. The unification algorithm itself
// is textbook Algorithm W, grounded in no pack file (recorded as a
// standard-library entry in DESIGN.md).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// A Type is a Hindley-Milner type: a type variable, a nullary/parameterized
// constructor (Int, Float, Bool, a user struct/enum name, List<T>, ...), a
// function arrow, a tuple, or a record.
type Type interface {
	typeNode()
	String() string
}

// Var is an unbound or substitution-bound type variable.
type Var struct {
	ID   int
	Name string // optional display name; when empty, String prints t<ID>
}

func (*Var) typeNode() {}
func (v *Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("t%d", v.ID)
}

// Con is a nullary or parameterized type constructor: Int, Float, Bool,
// String, Char, Unit, Atom, List<T>, Map<K,V>, or a user struct/enum name
// applied to its type arguments.
type Con struct {
	Name string
	Args []Type
}

func (*Con) typeNode() {}
func (c *Con) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "<" + strings.Join(parts, ", ") + ">"
}

// Fun is a function arrow type.
type Fun struct {
	Params []Type
	Result Type
}

func (*Fun) typeNode() {}
func (f *Fun) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Result.String()
}

// Tuple is a fixed-arity product type.
type Tuple struct{ Elems []Type }

func (*Tuple) typeNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Record is a structural object type: field name -> type. Nominal struct
// types are represented as a Con carrying the declared name instead. No
// inference rule builds a Record; map literals infer as Map<String, V>.
type Record struct {
	Fields map[string]Type
}

func (*Record) typeNode() {}
func (r *Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + r.Fields[n].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Well-known nullary constructors, per spec section 3.4's closed value set.
var (
	Unit   Type = &Con{Name: "Unit"}
	Bool   Type = &Con{Name: "Bool"}
	Int    Type = &Con{Name: "Int"}
	Float  Type = &Con{Name: "Float"}
	Char   Type = &Con{Name: "Char"}
	String Type = &Con{Name: "String"}
	Atom   Type = &Con{Name: "Atom"}
)

// List returns the type List<elem>.
func List(elem Type) Type { return &Con{Name: "List", Args: []Type{elem}} }

// MapT returns the type Map<key,val>.
func MapT(key, val Type) Type { return &Con{Name: "Map", Args: []Type{key, val}} }

// RangeT is the Range value type (spec 3.4); ranges do not carry a type
// parameter since they are always over Int in this spec.
var RangeT Type = &Con{Name: "Range"}

// A Scheme is a type universally quantified over a set of type variables —
// the result of let-generalization (spec section 4.3's "Let generalization").
type Scheme struct {
	Vars []int
	Type Type
}
