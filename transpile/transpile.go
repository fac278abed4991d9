// Package transpile implements Ruchy's transpiler (spec component C6, spec
// section 4.5): typed AST in, target-language source text out, plus a
// metadata sidecar mapping emitted spans back to source spans.
//
// There is no single teacher file that does this job — CUE never emits a
// second programming language — so this package composes two teacher
// shapes. The declaration walk (decl.go's emitTopDecl, one case per Decl
// kind) is grounded on internal/core/export (the closest structural
// analogue to "typed input value tree -> output ast.File": export.Def walks
// an evaluated adt.Vertex and produces an ast.File in CUE's own syntax the
// way this package walks a typed Ruchy ast.File and produces Rust source
// text directly, with no intermediate target-AST stage). The recursive
// per-node-kind dispatch style (expr.go's rustExpr switch, pattern.go's
// rustPattern switch) mirrors cue/format/node.go's printNode/exprRaw
// dispatch structurally, without reusing any of its tabwriter-based
// alignment machinery (Rust has no CUE-style field alignment convention to
// reproduce) — emission here is a plain recursive string builder.
//
// The target language is Rust: Ruchy is itself distilled from a Rust
// implementation (see original_source in the retrieval pack), so Rust is
// the natural "target systems language" for a transpiler whose contract
// (spec 4.5) never names one explicitly.
package transpile

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/ruchyerrors"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/types"
)

// Span records that the emitted byte range [Start, End) of the output
// corresponds to source position Pos, satisfying spec 4.5's "metadata
// sidecar mapping emitted spans to source spans". Recorded at
// declaration granularity: one Span per emitted declaration, including the
// members of a `mod` block; a declaration that emits nothing (a BadDecl or
// an unsupported kind) records none.
type Span struct {
	Pos        token.Pos
	Start, End int
}

// Result is the outcome of a transpile request.
type Result struct {
	Source string
	Spans  []Span
	Errs   error
}

// emitter accumulates Rust source text and the span sidecar for one File.
type emitter struct {
	buf       strings.Builder
	spans     []Span
	errs      ruchyerrors.List
	env       *types.Env
	usedUses  map[string]bool
	anonCount int
}

// File transpiles f into Rust source. inferred must be the result of
// types.Infer(f) with no errors: spec 4.3's "a transpile request...fails
// transpilation with TypeError if any constraint is unresolved" is enforced
// here by refusing to proceed past a non-nil inferred.Errs.
func File(f *ast.File, inferred *types.Result) *Result {
	if inferred.Errs != nil {
		var errs ruchyerrors.List
		errs.AddNewf(f.Pos(), "cannot transpile: type environment is not fully solved: %v", inferred.Errs)
		return &Result{Errs: errs.Err()}
	}

	em := &emitter{env: inferred.Env, usedUses: map[string]bool{}}
	for _, d := range f.Decls {
		em.emitTopDecl(d)
	}
	return &Result{Source: em.buf.String(), Spans: em.spans, Errs: em.errs.Err()}
}

func (em *emitter) pos() int { return em.buf.Len() }

func (em *emitter) recordSpan(pos token.Pos, start int) {
	em.spans = append(em.spans, Span{Pos: pos, Start: start, End: em.pos()})
}

func (em *emitter) emit(s string) { em.buf.WriteString(s) }

func (em *emitter) errf(pos token.Pos, format string, args ...interface{}) {
	em.errs.AddNewf(pos, format, args...)
}

// freshAnon names an anonymous construct (e.g. an un-named match temporary)
// deterministically, by emission order rather than by any non-reproducible
// source (spec 4.5's "deterministic...stable across runs for the same
// input").
func (em *emitter) freshAnon(prefix string) string {
	em.anonCount++
	return prefix + strconv.Itoa(em.anonCount)
}
