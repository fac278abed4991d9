// Copyright 2023 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"strings"

	"github.com/ruchy-lang/ruchy/token"
)

// ModulePath is the `::`-separated path of a `use` declaration or path
// expression, e.g. `collections::List` or `std::io::read_line`. It mirrors
// the teacher's slash-separated import path parsing, adapted to Ruchy's
// double-colon separator and to a syntax with no version or qualifier
// suffix.
type ModulePath struct {
	comments
	Components []*Ident
}

func (p *ModulePath) Pos() token.Pos { return p.Components[0].Pos() }
func (p *ModulePath) End() token.Pos { return p.Components[len(p.Components)-1].End() }

// String renders the path in its canonical `::`-separated form.
func (p *ModulePath) String() string {
	parts := make([]string, len(p.Components))
	for i, c := range p.Components {
		parts[i] = c.Name
	}
	return strings.Join(parts, "::")
}

// Base returns the last component of the path, i.e. the name being
// imported or referenced.
func (p *ModulePath) Base() *Ident {
	return p.Components[len(p.Components)-1]
}

// ParseModulePath splits a `::`-separated path string into its components.
// The components are not interned. It does not validate that each component is a legal
// identifier; callers that need a spanned ModulePath (from source) should
// build one directly from parsed Idents instead.
func ParseModulePath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "::")
}

// ValidModulePath reports whether every component of path is a valid
// identifier, matching the lexer's rule that `::` may only separate plain
// names.
func ValidModulePath(path string) bool {
	for _, c := range ParseModulePath(path) {
		if !IsValidIdent(c) {
			return false
		}
	}
	return true
}
