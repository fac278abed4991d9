package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestFdump(t *testing.T) {
	var buf bytes.Buffer
	Fdump(&buf, "example", struct{ X, Y int }{1, 2})
	out := buf.String()
	if !strings.HasPrefix(out, "example:\n") {
		t.Errorf("Fdump output missing label, got %q", out)
	}
	if !strings.Contains(out, "X:") || !strings.Contains(out, "Y:") {
		t.Errorf("Fdump output missing field names, got %q", out)
	}
}
