package token

import "testing"

func TestFilePosition(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("a.ruchy", len("let x = 1\nlet y = 2\n"))
	src := []byte("let x = 1\nlet y = 2\n")
	for i, b := range src {
		if b == '\n' {
			f.AddLine(i + 1)
		}
	}

	p := f.Pos(10) // start of second line
	pos := p.Position()
	if pos.Line != 2 || pos.Column != 1 {
		t.Fatalf("got line %d col %d, want 2 1", pos.Line, pos.Column)
	}
	if pos.Filename != "a.ruchy" {
		t.Fatalf("got filename %q", pos.Filename)
	}
}

func TestPosCompare(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("a.ruchy", 10)
	p1 := f.Pos(1)
	p2 := f.Pos(5)
	if p1.Compare(p2) >= 0 {
		t.Fatalf("expected p1 < p2")
	}
	if NoPos.Compare(p1) <= 0 {
		t.Fatalf("expected NoPos > p1")
	}
}

func TestSpanContains(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("a.ruchy", 20)
	outer := Span{Start: f.Pos(0), End: f.Pos(10)}
	inner := Span{Start: f.Pos(2), End: f.Pos(5)}
	if !outer.Contains(inner) {
		t.Fatalf("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Fatalf("did not expect inner to contain outer")
	}
}

func TestFileSetIDs(t *testing.T) {
	fset := NewFileSet()
	a := fset.AddFile("a.ruchy", 0)
	b := fset.AddFile("b.ruchy", 0)
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct file ids")
	}
	if fset.File(a.ID()) != a {
		t.Fatalf("FileSet.File did not round-trip")
	}
}
