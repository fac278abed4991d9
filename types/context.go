package types

import "fmt"

// A Context is the long-lived inference state threaded through
// constraint collection and solving: a union-find substitution over type
// variables, a fresh-variable counter, and an accumulated error list — the
// same "context object absorbing errors instead of panicking" shape as
// internal/core/adt.OpContext, adapted from CUE's lattice unification to HM
// unification.
type Context struct {
	subst map[int]Type
	next  int
	Errs  []error
}

// NewContext creates an empty inference context.
func NewContext() *Context {
	return &Context{subst: map[int]Type{}}
}

// Fresh allocates a new, unbound type variable.
func (c *Context) Fresh() *Var {
	c.next++
	return &Var{ID: c.next}
}

// Resolve follows the substitution chain for t, returning the most
// concrete type currently known for it (path compression is not performed
// since the table is small and short-lived per inference run).
func (c *Context) Resolve(t Type) Type {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound, ok := c.subst[v.ID]
		if !ok {
			return v
		}
		t = bound
	}
}

// occurs reports whether v appears free in t (the HM occurs check).
func (c *Context) occurs(v *Var, t Type) bool {
	t = c.Resolve(t)
	switch x := t.(type) {
	case *Var:
		return x.ID == v.ID
	case *Fun:
		for _, p := range x.Params {
			if c.occurs(v, p) {
				return true
			}
		}
		return c.occurs(v, x.Result)
	case *Con:
		for _, a := range x.Args {
			if c.occurs(v, a) {
				return true
			}
		}
		return false
	case *Tuple:
		for _, e := range x.Elems {
			if c.occurs(v, e) {
				return true
			}
		}
		return false
	case *Record:
		for _, f := range x.Fields {
			if c.occurs(v, f) {
				return true
			}
		}
		return false
	}
	return false
}

// Unify unifies a and b under the current substitution. On failure it
// returns the first UnifyError it meets; bindings made before that point
// stay in the substitution.
func (c *Context) Unify(a, b Type) error {
	a, b = c.Resolve(a), c.Resolve(b)

	if av, ok := a.(*Var); ok {
		if bv, ok := b.(*Var); ok && av.ID == bv.ID {
			return nil
		}
		if c.occurs(av, b) {
			return &UnifyError{A: a, B: b, Reason: "infinite type (occurs check)"}
		}
		c.subst[av.ID] = b
		return nil
	}
	if _, ok := b.(*Var); ok {
		return c.Unify(b, a)
	}

	switch ax := a.(type) {
	case *Con:
		bx, ok := b.(*Con)
		if !ok || ax.Name != bx.Name || len(ax.Args) != len(bx.Args) {
			return &UnifyError{A: a, B: b}
		}
		for i := range ax.Args {
			if err := c.Unify(ax.Args[i], bx.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *Fun:
		bx, ok := b.(*Fun)
		if !ok || len(ax.Params) != len(bx.Params) {
			return &UnifyError{A: a, B: b}
		}
		for i := range ax.Params {
			if err := c.Unify(ax.Params[i], bx.Params[i]); err != nil {
				return err
			}
		}
		return c.Unify(ax.Result, bx.Result)
	case *Tuple:
		bx, ok := b.(*Tuple)
		if !ok || len(ax.Elems) != len(bx.Elems) {
			return &UnifyError{A: a, B: b}
		}
		for i := range ax.Elems {
			if err := c.Unify(ax.Elems[i], bx.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *Record:
		bx, ok := b.(*Record)
		if !ok {
			return &UnifyError{A: a, B: b}
		}
		for name, ft := range ax.Fields {
			bf, ok := bx.Fields[name]
			if !ok {
				return &UnifyError{A: a, B: b, Reason: "missing field " + name}
			}
			if err := c.Unify(ft, bf); err != nil {
				return err
			}
		}
		return nil
	}
	return &UnifyError{A: a, B: b}
}

// UnifyError reports a type mismatch found during unification.
type UnifyError struct {
	A, B   Type
	Reason string
}

func (e *UnifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.A, e.B, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.A, e.B)
}

// Apply fully resolves t, substituting every bound variable recursively.
func (c *Context) Apply(t Type) Type {
	t = c.Resolve(t)
	switch x := t.(type) {
	case *Fun:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = c.Apply(p)
		}
		return &Fun{Params: params, Result: c.Apply(x.Result)}
	case *Con:
		if len(x.Args) == 0 {
			return x
		}
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = c.Apply(a)
		}
		return &Con{Name: x.Name, Args: args}
	case *Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = c.Apply(e)
		}
		return &Tuple{Elems: elems}
	case *Record:
		fields := make(map[string]Type, len(x.Fields))
		for n, f := range x.Fields {
			fields[n] = c.Apply(f)
		}
		return &Record{Fields: fields}
	}
	return t
}

// freeVars collects the free type-variable ids of t (after resolving
// substitutions) into out.
func (c *Context) freeVars(t Type, out map[int]bool) {
	switch x := c.Resolve(t).(type) {
	case *Var:
		out[x.ID] = true
	case *Fun:
		for _, p := range x.Params {
			c.freeVars(p, out)
		}
		c.freeVars(x.Result, out)
	case *Con:
		for _, a := range x.Args {
			c.freeVars(a, out)
		}
	case *Tuple:
		for _, e := range x.Elems {
			c.freeVars(e, out)
		}
	case *Record:
		for _, f := range x.Fields {
			c.freeVars(f, out)
		}
	}
}

// Generalize closes over type variables in t that are not free in env,
// producing the Scheme a let-binding exposes to its body (spec section
// 4.3's let-generalization; function parameters stay monomorphic, so only
// the let and function-declaration rules, never the parameter-binding
// path, call this).
func (c *Context) Generalize(env *Env, t Type) *Scheme {
	free := map[int]bool{}
	c.freeVars(t, free)
	envFree := map[int]bool{}
	for _, s := range env.all() {
		for _, v := range s.Vars {
			delete(free, v)
		}
		c.freeVars(s.Type, envFree)
	}
	vars := make([]int, 0, len(free))
	for id := range free {
		if !envFree[id] {
			vars = append(vars, id)
		}
	}
	return &Scheme{Vars: vars, Type: t}
}

// Instantiate replaces a Scheme's quantified variables with fresh ones,
// producing a monomorphic type usable at a specific call site.
func (c *Context) Instantiate(s *Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	mapping := make(map[int]Type, len(s.Vars))
	for _, v := range s.Vars {
		mapping[v] = c.Fresh()
	}
	return substitute(s.Type, mapping)
}

func substitute(t Type, mapping map[int]Type) Type {
	switch x := t.(type) {
	case *Var:
		if r, ok := mapping[x.ID]; ok {
			return r
		}
		return x
	case *Fun:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = substitute(p, mapping)
		}
		return &Fun{Params: params, Result: substitute(x.Result, mapping)}
	case *Con:
		if len(x.Args) == 0 {
			return x
		}
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = substitute(a, mapping)
		}
		return &Con{Name: x.Name, Args: args}
	case *Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substitute(e, mapping)
		}
		return &Tuple{Elems: elems}
	case *Record:
		fields := make(map[string]Type, len(x.Fields))
		for n, f := range x.Fields {
			fields[n] = substitute(f, mapping)
		}
		return &Record{Fields: fields}
	}
	return t
}

// Env is a chain of type-binding scopes, the type-level analogue of
// interp.Environment.
type Env struct {
	parent *Env
	scope  map[string]*Scheme
}

// NewEnv creates a fresh root type environment.
func NewEnv() *Env { return &Env{scope: map[string]*Scheme{}} }

// Child creates a nested scope, used at function/block/match-arm entry.
func (e *Env) Child() *Env { return &Env{parent: e, scope: map[string]*Scheme{}} }

// Bind installs a scheme for name in the current scope.
func (e *Env) Bind(name string, s *Scheme) { e.scope[name] = s }

// Lookup walks outward for name, per spec section 3.5's scope-chain lookup.
func (e *Env) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.scope[name]; ok {
			return s, true
		}
	}
	return nil, false
}

func (e *Env) all() []*Scheme {
	var out []*Scheme
	for env := e; env != nil; env = env.parent {
		for _, s := range env.scope {
			out = append(out, s)
		}
	}
	return out
}
