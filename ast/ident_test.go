// Copyright 2019 CUE Authors
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

func TestIsValidIdent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"_foo", true},
		{"foo_bar", true},
		{"foo1", true},
		{"1foo", false},
		{"", false},
		{"foo-bar", false},
	}
	for _, tt := range tests {
		qt.Check(t, qt.Equals(ast.IsValidIdent(tt.name), tt.want))
	}
}

func TestIntern(t *testing.T) {
	a := ast.Intern("widget")
	b := ast.Intern("widget")
	qt.Assert(t, qt.Equals(a, b))

	id1 := ast.NewIdent("gadget")
	id2 := ast.NewIdent("gadget")
	qt.Assert(t, qt.Equals(id1.Name, id2.Name))
}
