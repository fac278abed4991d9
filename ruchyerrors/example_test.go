// Copyright 2024 The CUE Authors
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

package ruchyerrors_test

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/ruchyerrors"
	"github.com/ruchy-lang/ruchy/token"
)

func Example() {
	fset := token.NewFileSet()
	f := fset.AddFile("input.ruchy", 40)

	var errs ruchyerrors.Error
	errs = ruchyerrors.Append(errs, ruchyerrors.Newf(f.Pos(6), "immutable assignment to %q", "x"))
	errs = ruchyerrors.Append(errs, ruchyerrors.Newf(f.Pos(15), "non-exhaustive match"))

	fmt.Printf("string via the Error method:\n  %q\n\n", errs)

	fmt.Printf("list via ruchyerrors.Errors:\n")
	for _, e := range ruchyerrors.Errors(errs) {
		fmt.Printf("  * %s\n", e)
	}
	fmt.Printf("\n")

	fmt.Printf("positions via ruchyerrors.Positions:\n")
	for _, pos := range ruchyerrors.Positions(errs) {
		fmt.Printf("  * %s\n", pos)
	}
	fmt.Printf("\n")

	fmt.Printf("human-friendly string via ruchyerrors.Details:\n")
	fmt.Println(ruchyerrors.Details(errs, nil))

	// Output:
	// string via the Error method:
	//   "immutable assignment to \"x\" (and 1 more errors)"
	//
	// list via ruchyerrors.Errors:
	//   * immutable assignment to "x"
	//   * non-exhaustive match
	//
	// positions via ruchyerrors.Positions:
	//   * input.ruchy:1:7
	//
	// human-friendly string via ruchyerrors.Details:
	// immutable assignment to "x":
	//     input.ruchy:1:7
	// non-exhaustive match:
	//     input.ruchy:1:16
}
