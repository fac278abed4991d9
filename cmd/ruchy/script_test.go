package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers "ruchy" as an in-process subcommand the way the
// teacher's cmd/cue/cmd registers "cue", so testscript scripts can `exec
// ruchy ...` without actually forking a separate built binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"ruchy": Main,
	}))
}

// TestScript drives the end-to-end scenarios named in spec.md 8.2 (E1-E10)
// through the CLI, the way the teacher's own TestScript drives cmd/cue
// against testdata/script/*.txtar archives.
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 "testdata/script",
		RequireExplicitExec: true,
		RequireUniqueNames:  true,
	})
}
