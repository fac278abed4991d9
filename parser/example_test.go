// Copyright 2018 The CUE Authors
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

package parser_test

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/parser"
)

func ExampleParseFile() {
	f, err := parser.ParseFile("example.ruchy", `
		use std::math;

		fun square(x: Int) -> Int { x * x }
	`)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.UseDecl:
			fmt.Println("use", d.Path)
		case *ast.FuncDecl:
			fmt.Println("fun", d.Name)
		}
	}
	// Output:
	// use std::math
	// fun square
}
