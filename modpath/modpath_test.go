package modpath

import (
	"errors"
	"testing"
)

var validateTests = []struct {
	path string
	ok   bool
}{
	{"collections::List", true},
	{"std::io::read_line", true},
	{"std", true},
	{"", false},
	{"std::", false},
	{"std::1bad", false},
	{"std::io::", false},
	{`"external/pkg"::Thing`, true},
	{`"external/pkg"`, true},
	{`"`, false},
	{`""::Thing`, false},
}

func TestValidate(t *testing.T) {
	for _, tt := range validateTests {
		err := Validate(tt.path)
		var ext *ErrUnsupportedExternal
		ok := err == nil || errors.As(err, &ext)
		if ok != tt.ok {
			t.Errorf("Validate(%q) = %v, want ok=%v", tt.path, err, tt.ok)
		}
	}
}

func TestValidateExternalReturnsUnsupported(t *testing.T) {
	err := Validate(`"external/pkg"::Thing`)
	var ext *ErrUnsupportedExternal
	if !errors.As(err, &ext) {
		t.Fatalf("Validate(external) = %v, want *ErrUnsupportedExternal", err)
	}
	if ext.Package != "external/pkg" || ext.Rest != "Thing" {
		t.Errorf("got External{%q, %q}, want {%q, %q}", ext.Package, ext.Rest, "external/pkg", "Thing")
	}
}

func TestNormalize(t *testing.T) {
	if got, want := Normalize("collections::List"), "collections::List"; got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
	if got, want := Normalize(`"external/pkg"`), `"external/pkg"`; got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}
