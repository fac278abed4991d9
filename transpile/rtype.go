package transpile

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/types"
)

// rustType renders a solved HM type (spec 4.3, types.Type) as a Rust type
// expression, per spec 4.5's "Ruchy functions -> target functions with
// inferred types". An unresolved type variable (a function whose parameter
// was never constrained) becomes a Rust generic parameter rather than a
// transpile failure: spec 4.3 only requires every *constraint* to be
// resolved, not every variable to be monomorphized, and a free variable is
// exactly what a Rust generic means.
func rustType(t types.Type) string {
	switch x := t.(type) {
	case *types.Var:
		if x.Name != "" {
			return "T" + strings.ToUpper(x.Name)
		}
		return "T" + strconv.Itoa(x.ID)
	case *types.Con:
		return rustCon(x)
	case *types.Fun:
		parts := make([]string, len(x.Params))
		for i, p := range x.Params {
			parts[i] = rustType(p)
		}
		return "Box<dyn Fn(" + strings.Join(parts, ", ") + ") -> " + rustType(x.Result) + ">"
	case *types.Tuple:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = rustType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *types.Record:
		// No anonymous-struct syntax in Rust; a Record type renders as a
		// map from String to String whatever its field types are.
		return "std::collections::HashMap<String, String>"
	}
	return "()"
}

func rustCon(c *types.Con) string {
	switch c.Name {
	case "Unit":
		return "()"
	case "Bool":
		return "bool"
	case "Int":
		return "i64"
	case "Float":
		return "f64"
	case "Char":
		return "char"
	case "String":
		return "String"
	case "Atom":
		return "&'static str"
	case "Range":
		return "std::ops::Range<i64>"
	case "List":
		if len(c.Args) == 1 {
			return "Vec<" + rustType(c.Args[0]) + ">"
		}
		return "Vec<()>"
	case "Map":
		if len(c.Args) == 2 {
			return "std::collections::HashMap<" + rustType(c.Args[0]) + ", " + rustType(c.Args[1]) + ">"
		}
		return "std::collections::HashMap<String, ()>"
	}
	// A user struct/enum name: Ruchy and Rust agree on PascalCase type
	// names, so the identifier carries over unchanged.
	return c.Name
}
