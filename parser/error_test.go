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

	"github.com/ruchy-lang/ruchy/ruchyerrors"
)

func TestErrorRecoveryReportsMultiple(t *testing.T) {
	_, err := ParseFile("bad.ruchy", `
		fun f() -> Int { )
		fun g() -> Int { 1 }
		fun h() -> Int { )
	`, AllErrors)
	if err == nil {
		t.Fatal("expected errors")
	}
	if n := len(ruchyerrors.Errors(err)); n < 2 {
		t.Errorf("got %d errors, want at least 2: %v", n, err)
	}
}

func TestErrorBailoutAfterMaxErrors(t *testing.T) {
	var b strings.Builder
	for i := 0; i < maxErrors+5; i++ {
		b.WriteString(") ")
	}
	_, err := ParseFile("bad.ruchy", b.String())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestErrorPositionIsSorted(t *testing.T) {
	_, err := ParseFile("bad.ruchy", "fun ) fun )", AllErrors)
	if err == nil {
		t.Fatal("expected errors")
	}
	errs := ruchyerrors.Errors(err)
	for i := 1; i < len(errs); i++ {
		if errs[i].Position().Compare(errs[i-1].Position()) < 0 {
			t.Errorf("error %d at %v sorts before error %d at %v", i, errs[i].Position(), i-1, errs[i-1].Position())
		}
	}
}
