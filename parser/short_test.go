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

// This file contains test cases for short valid and invalid programs.

package parser

import "testing"

var valids = []string{
	"\n",
	`1`,
	`()`,
	`[1, 2, 3]`,
	`let x = 1`,
	`if true { 1 } else { 2 }`,
}

func TestValidPrograms(t *testing.T) {
	for _, src := range valids {
		t.Run(src, func(t *testing.T) {
			if _, err := ParseExpr("t.ruchy", src); err != nil {
				if _, ferr := ParseFile("t.ruchy", src); ferr != nil {
					t.Errorf("ParseExpr/ParseFile(%q) both failed: %v / %v", src, err, ferr)
				}
			}
		})
	}
}

func TestInvalidPrograms(t *testing.T) {
	invalids := []string{
		`fun (`,
		`let =`,
		`if { }`,
		`match { }`,
	}
	for _, src := range invalids {
		t.Run(src, func(t *testing.T) {
			_, err := ParseFile("t.ruchy", src)
			if err == nil {
				t.Errorf("ParseFile(%q): expected an error", src)
			}
		})
	}
}
