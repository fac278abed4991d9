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

package parser_test

import (
	"testing"

	"github.com/ruchy-lang/ruchy/parser"
)

func FuzzParseFile(f *testing.F) {
	// A wide sample of supported syntax, so the fuzzer starts from inputs
	// that already exercise most grammar productions rather than from
	// scratch. The only assertion is that ParseFile never panics; a
	// returned error is an expected outcome for malformed input.
	f.Add([]byte(`
		use std::collections::List;

		fun fib(n: Int) -> Int {
			match n {
				0 => 0,
				1 => 1,
				n => fib(n - 1) + fib(n - 2),
			}
		}
	`))
	f.Add([]byte(`// a comment
	let x = 1; x + 1`))
	f.Add([]byte(`"some string"`))
	f.Add([]byte(`[1, 2.3, true, :atom, f"x is {x}"]`))
	f.Add([]byte(`if foo { if bar { baz } } else { x }`))
	f.Add([]byte(`[x * 2 for x in xs if x > 0]`))
	f.Add([]byte(`struct P { x: Int, y: Int }`))
	f.Add([]byte(`enum E { A, B(Int), C { x: Int } }`))
	f.Add([]byte(`trait T { fun m(self) -> Int; }`))
	f.Add([]byte(`impl T for P { fun m(self) -> Int { 0 } }`))
	f.Add([]byte(`xs |> map(f) |> filter(g)`))
	f.Add([]byte(`0..10`))
	f.Add([]byte(`0..=10`))
	f.Add([]byte(`fun f(xs: List<List<Int>>) -> Int { 0 }`))
	f.Add([]byte(`'outer: while true { break 'outer; }`))
	f.Add([]byte(`|a, b| a + b`))
	f.Add([]byte(`async { await x }`))
	f.Add([]byte(`@inline fun f() -> Int { 0 }`))
	f.Fuzz(func(t *testing.T, b []byte) {
		_, err := parser.ParseFile("fuzz.ruchy", b)
		if err != nil {
			t.Skip()
		}
	})
}
