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
	"strings"
	"testing"
)

func benchmarkSource() []byte {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString(`
			fun add(a: Int, b: Int) -> Int { a + b }
			let xs = [1, 2, 3, 4, 5];
			let ys = [x * 2 for x in xs if x > 1];
			match ys {
				[] => 0,
				[h, ..t] => h,
			}
		`)
	}
	return []byte(b.String())
}

var benchSrc = benchmarkSource()

func BenchmarkParse(b *testing.B) {
	b.SetBytes(int64(len(benchSrc)))
	for i := 0; i < b.N; i++ {
		if _, err := ParseFile("bench.ruchy", benchSrc, ParseComments); err != nil {
			b.Fatalf("benchmark failed due to parse error: %s", err)
		}
	}
}
