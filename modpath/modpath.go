// Package modpath validates and normalizes Ruchy module paths (`use
// path::to::Name`), spec component C7 (SPEC_FULL.md 6.6). Validation is
// syntax-only: no file I/O, no registry lookup, no package manager — that
// publishing pipeline is explicitly out of scope.
package modpath

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/module"

	"github.com/ruchy-lang/ruchy/ast"
)

// External describes a syntactically legal but not-yet-resolvable
// quoted-package reference, `use "external/pkg"::Name` (SPEC_FULL.md 6.6),
// reserved for a future package manager.
type External struct {
	Package string // e.g. "external/pkg"
	Rest    string // trailing `::`-separated path after the quoted segment, may be empty
}

// ErrUnsupportedExternal is returned by Validate for an External reference:
// the path is syntactically well-formed, but the driver has nothing to
// resolve it against yet. Callers map this to UnsupportedFeature (spec 7's
// closed error taxonomy) rather than a syntax error.
type ErrUnsupportedExternal struct {
	External
}

func (e *ErrUnsupportedExternal) Error() string {
	return fmt.Sprintf("modpath: external package reference %q has no resolver yet", e.Package)
}

// Validate reports whether path is a syntactically legal module path: a
// `::`-separated sequence of valid Ruchy identifiers, or a quoted
// external-package segment followed by such a sequence.
//
// A plain path is validated by reusing
// golang.org/x/mod/module.CheckImportPath's reserved-word and
// character-class checks: Ruchy's `::` separator is translated to Go's `/`
// before delegating, since the underlying rules (no empty elements, no
// leading/trailing dot, no control characters, no reserved file-system
// names like "NUL" or "con") apply just as well to a Ruchy path, whose
// identifiers are already restricted to a stricter class by the lexer.
func Validate(path string) error {
	if path == "" {
		return errors.New("modpath: empty module path")
	}
	if strings.HasPrefix(path, `"`) {
		return validateExternal(path)
	}
	if !ast.ValidModulePath(path) {
		return fmt.Errorf("modpath: %q is not a valid module path", path)
	}
	joined := strings.ReplaceAll(path, "::", "/")
	if err := module.CheckImportPath(joined); err != nil {
		return fmt.Errorf("modpath: %q: %w", path, err)
	}
	return nil
}

func validateExternal(path string) error {
	end := strings.Index(path[1:], `"`)
	if end < 0 {
		return fmt.Errorf("modpath: unterminated quoted package reference in %q", path)
	}
	pkg := path[1 : end+1]
	rest := strings.TrimPrefix(path[end+2:], "::")
	if pkg == "" {
		return fmt.Errorf("modpath: empty quoted package reference in %q", path)
	}
	if err := module.CheckImportPath(pkg); err != nil {
		return fmt.Errorf("modpath: quoted package reference %q: %w", pkg, err)
	}
	if rest != "" && !ast.ValidModulePath(rest) {
		return fmt.Errorf("modpath: %q is not a valid module path suffix", rest)
	}
	return &ErrUnsupportedExternal{External{Package: pkg, Rest: rest}}
}

// Normalize renders path in its canonical `::`-joined form. A quoted
// external reference is left exactly as written, since Go import-path
// casing conventions (which Ruchy's quoted form borrows wholesale) are
// case-sensitive.
func Normalize(path string) string {
	if strings.HasPrefix(path, `"`) {
		return path
	}
	return strings.Join(ast.ParseModulePath(path), "::")
}
