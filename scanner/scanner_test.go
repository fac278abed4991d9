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

package scanner

import (
	"fmt"
	"testing"

	"github.com/ruchy-lang/ruchy/token"
)

type tokenPair struct {
	tok token.Token
	lit string
}

func scanAll(t *testing.T, src string) []tokenPair {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("test.ruchy", len(src))

	var errs []string
	var s Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}, 0)

	var got []tokenPair
	for {
		_, tok, lit := s.Scan()
		got = append(got, tokenPair{tok, lit})
		if tok == token.EOF {
			break
		}
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	return got
}

func TestScanKeywordsAndIdents(t *testing.T) {
	got := scanAll(t, "let mut x = foo")
	want := []token.Token{token.LET, token.MUT, token.IDENT, token.ASSIGN, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, tok := range want {
		if got[i].tok != tok {
			t.Errorf("token %d: got %s, want %s", i, got[i].tok, tok)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		src string
		tok token.Token
		lit string
	}{
		{"0", token.INT, "0"},
		{"1234", token.INT, "1234"},
		{"1_000_000", token.INT, "1_000_000"},
		{"0x1F", token.INT, "0x1F"},
		{"0b1010", token.INT, "0b1010"},
		{"0o17", token.INT, "0o17"},
		{"3.14", token.FLOAT, "3.14"},
		{"1e10", token.FLOAT, "1e10"},
		{"1.5e-3", token.FLOAT, "1.5e-3"},
	}
	for _, tt := range tests {
		got := scanAll(t, tt.src)
		if len(got) < 1 || got[0].tok != tt.tok || got[0].lit != tt.lit {
			t.Errorf("scanning %q: got %v, want {%s %q}", tt.src, got[0], tt.tok, tt.lit)
		}
	}
}

func TestScanRangeVsDecimal(t *testing.T) {
	got := scanAll(t, "1..10")
	want := []token.Token{token.INT, token.RANGE, token.INT, token.EOF}
	for i, tok := range want {
		if got[i].tok != tok {
			t.Errorf("token %d: got %s, want %s", i, got[i].tok, tok)
		}
	}

	got = scanAll(t, "1..=10")
	want = []token.Token{token.INT, token.RANGE_INCL, token.INT, token.EOF}
	for i, tok := range want {
		if got[i].tok != tok {
			t.Errorf("token %d: got %s, want %s", i, got[i].tok, tok)
		}
	}
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		src string
		tok token.Token
	}{
		{"->", token.ARROW},
		{"=>", token.FAT_ARROW},
		{"|>", token.PIPE_ARROW},
		{"==", token.EQL},
		{"!=", token.NEQ},
		{"<=", token.LEQ},
		{">=", token.GEQ},
		{"&&", token.LAND},
		{"||", token.LOR},
		{"**", token.POW},
		{"<<", token.SHL},
		{">>", token.SHR},
		{"::", token.COLONCOLON},
		{"+=", token.ADD_ASSIGN},
	}
	for _, tt := range tests {
		got := scanAll(t, tt.src)
		if got[0].tok != tt.tok {
			t.Errorf("scanning %q: got %s, want %s", tt.src, got[0].tok, tt.tok)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	got := scanAll(t, `"hello\nworld"`)
	if got[0].tok != token.STRING {
		t.Fatalf("got %s, want STRING", got[0].tok)
	}
}

func TestScanFString(t *testing.T) {
	fset := token.NewFileSet()
	src := `f"x = {x}, y = {y + 1}"`
	file := fset.AddFile("test.ruchy", len(src))
	var s Scanner
	s.Init(file, []byte(src), nil, 0)

	_, tok, _ := s.Scan()
	if tok != token.FSTRING {
		t.Fatalf("got %s, want FSTRING", tok)
	}
	segs := s.Segments()
	var exprs []string
	for _, seg := range segs {
		if !seg.Literal {
			exprs = append(exprs, src[seg.ExprStart:seg.ExprEnd])
		}
	}
	if len(exprs) != 2 || exprs[0] != "x" || exprs[1] != "y + 1" {
		t.Fatalf("got segments %v, %#v", exprs, segs)
	}
}

func TestScanCharLiteral(t *testing.T) {
	got := scanAll(t, `'a'`)
	if got[0].tok != token.CHAR || got[0].lit != "'a'" {
		t.Fatalf("got %v, want CHAR 'a'", got[0])
	}
}

func TestScanAtom(t *testing.T) {
	got := scanAll(t, `:ok`)
	if got[0].tok != token.ATOM || got[0].lit != "ok" {
		t.Fatalf("got %v, want ATOM ok", got[0])
	}
}

func TestScanLifetime(t *testing.T) {
	got := scanAll(t, `'a `)
	if got[0].tok != token.LIFETIME || got[0].lit != "a" {
		t.Fatalf("got %v, want LIFETIME a", got[0])
	}
}

func TestScanLoopLabel(t *testing.T) {
	got := scanAll(t, `'outer: for`)
	if got[0].tok != token.LOOPLABEL || got[0].lit != "outer" {
		t.Fatalf("got %v, want LOOPLABEL outer", got[0])
	}
	if got[1].tok != token.FOR {
		t.Fatalf("got %v, want FOR after label", got[1])
	}
}

func TestScanComments(t *testing.T) {
	fset := token.NewFileSet()
	src := "// a line comment\nlet x = 1"
	file := fset.AddFile("test.ruchy", len(src))
	var s Scanner
	s.Init(file, []byte(src), nil, ScanComments)

	_, tok, lit := s.Scan()
	if tok != token.COMMENT || lit != "// a line comment" {
		t.Fatalf("got {%s %q}, want COMMENT", tok, lit)
	}
}
