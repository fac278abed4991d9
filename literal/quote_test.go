// Copyright 2020 CUE Authors
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

package literal

import "testing"

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`hello`, "hello"},
		{`hello\nworld`, "hello\nworld"},
		{`tab\there`, "tab\there"},
		{`quote\"here`, `quote"here`},
		{`back\\slash`, `back\slash`},
		{`\x41`, "A"},
		{`\u{48}\u{65}\u{6c}\u{6c}\u{6f}`, "Hello"},
	}
	for _, tt := range tests {
		got, err := Unquote(tt.in)
		if err != nil {
			t.Fatalf("Unquote(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnquoteError(t *testing.T) {
	if _, err := Unquote(`\q`); err == nil {
		t.Fatal("expected error for unknown escape")
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	s := "hello\tworld\n\"quoted\""
	q := Quote(s)
	inner := q[1 : len(q)-1]
	got, err := Unquote(inner)
	if err != nil {
		t.Fatalf("Unquote: %v", err)
	}
	if got != s {
		t.Errorf("round trip: got %q, want %q", got, s)
	}
}
