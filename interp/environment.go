package interp

import (
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// binding is one scope entry: {value, mutable?, defined-at-span} per spec
// section 3.5. It is a pointer so that re-assignment through one alias of
// the Environment (a closure's captured chain) is visible through every
// other alias, matching spec 3.5's "subsequent mutations in the captured
// scope are visible through it".
type binding struct {
	value   value.Value
	mutable bool
	span    token.Pos
}

// Binder is satisfied by anything pattern matching can bind newly-matched
// names into. *Environment is the tree-walker's implementation; the
// bytecode VM's compiler supplies its own, binding into pre-resolved local
// slots instead of a map, so MatchPattern/BindPattern run identically over
// either execution strategy (spec 4.4.3's parity invariant).
type Binder interface {
	Define(name string, v value.Value, mutable bool, pos token.Pos)
}

// Environment is a persistent chain of scopes (spec section 3.5). The
// zero value is not usable; use NewEnvironment or Child.
type Environment struct {
	parent *Environment
	vars   map[string]*binding
}

// NewEnvironment creates a fresh root environment (a module's top-level
// scope).
func NewEnvironment() *Environment {
	return &Environment{vars: map[string]*binding{}}
}

// Child creates a new scope nested under e, pushed on function entry,
// block entry, or match-arm body (spec section 3.5) — except the one case
// spec section 9 singles out: a closure body that is a block reuses the
// call's parameter scope instead of calling Child again (see Interpreter.callClosure).
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, vars: map[string]*binding{}}
}

// Define installs a new binding in the current scope, per `let`.
func (e *Environment) Define(name string, v value.Value, mutable bool, pos token.Pos) {
	e.vars[name] = &binding{value: v, mutable: mutable, span: pos}
}

// Lookup walks outward for name, satisfying value.Scope for Closure capture.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			return b.value, true
		}
	}
	return value.Value{}, false
}

// Assign rebinds an existing binding's value, failing if it is not mutable
// (spec 3.5: "assignment rebinds only if the target binding's mutable?
// flag is set, otherwise it fails with ImmutableAssignment").
func (e *Environment) Assign(name string, v value.Value, pos token.Pos) error {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			if !b.mutable {
				return immutableAssignment(pos, name)
			}
			b.value = v
			return nil
		}
	}
	return newErr(KindNameResolution, pos, "undefined name %q", name)
}
