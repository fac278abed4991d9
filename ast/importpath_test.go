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

package ast_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/ast"
)

func TestParseModulePath(t *testing.T) {
	qt.Assert(t, qt.DeepEquals(ast.ParseModulePath("collections::List"), []string{"collections", "List"}))
	qt.Assert(t, qt.DeepEquals(ast.ParseModulePath("pi"), []string{"pi"}))
	qt.Assert(t, qt.IsNil(ast.ParseModulePath("")))
}

func TestValidModulePath(t *testing.T) {
	qt.Assert(t, qt.IsTrue(ast.ValidModulePath("std::io::read_line")))
	qt.Assert(t, qt.IsFalse(ast.ValidModulePath("std::1io")))
}

func TestModulePathString(t *testing.T) {
	p := &ast.ModulePath{Components: []*ast.Ident{
		ast.NewIdent("std"), ast.NewIdent("io"), ast.NewIdent("read_line"),
	}}
	qt.Assert(t, qt.Equals(p.String(), "std::io::read_line"))
	qt.Assert(t, qt.Equals(p.Base().Name, "read_line"))
}
