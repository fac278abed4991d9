package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ruchy.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "recursion_limit: 500\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RecursionLimit != 500 {
		t.Errorf("RecursionLimit = %d, want 500", cfg.RecursionLimit)
	}
	if cfg.IntLiteralDefault != "i64" {
		t.Errorf("IntLiteralDefault = %q, want %q (unset key keeps the default)", cfg.IntLiteralDefault, "i64")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "not_a_real_key: 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load with an unknown key succeeded, want an error")
	}
}

func TestLoadRejectsDisallowedValue(t *testing.T) {
	path := writeConfig(t, "int_literal_default: i32\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load with int_literal_default: i32 succeeded, want an error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded, want an error")
	}
}
