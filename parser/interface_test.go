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

package parser

import (
	"bytes"
	"strings"
	"testing"
)

func Test_readSource(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want string
	}{
		{"string", "let x = 1", "let x = 1"},
		{"bytes", []byte("let x = 1"), "let x = 1"},
		{"buffer", bytes.NewBufferString("let x = 1"), "let x = 1"},
		{"reader", strings.NewReader("let x = 1"), "let x = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSource("x.ruchy", tt.src)
			if err != nil {
				t.Fatalf("readSource: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("readSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	f, err := ParseFile("main.ruchy", `fun add(a: Int, b: Int) -> Int { a + b }`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(f.Decls))
	}
	if f.Filename != "main.ruchy" {
		t.Errorf("Filename = %q, want main.ruchy", f.Filename)
	}
}

func TestParseFileSyntaxError(t *testing.T) {
	_, err := ParseFile("bad.ruchy", `fun ( { `)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestParseExpr(t *testing.T) {
	x, err := ParseExpr("expr.ruchy", `1 + 2 * 3`)
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if x == nil {
		t.Fatal("ParseExpr returned nil expression with nil error")
	}
}

func TestParseExprTrailingGarbage(t *testing.T) {
	_, err := ParseExpr("expr.ruchy", `1 + 2 )`)
	if err == nil {
		t.Fatal("expected an error for trailing tokens after the expression")
	}
}
