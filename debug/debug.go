// Package debug gates verbose structural dumps (AST, typed environment,
// bytecode chunks) behind an environment variable, the way the teacher's
// internal/cuedebug gates its own CUE_DEBUG flags — except here there is
// only the one on/off switch, not a multi-flag Config, since this core
// has nothing resembling CUE's structure-sharing or HTTP-tracing knobs.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kr/pretty"
)

// Enabled reports whether RUCHY_DEBUG is set to a non-empty value.
// Evaluated once, like cuedebug.Init's sync.OnceValue, since the
// environment doesn't change mid-process.
var Enabled = sync.OnceValue(func() bool {
	return os.Getenv("RUCHY_DEBUG") != ""
})

// Dump writes a labeled, field-by-field rendering of v to stderr via
// kr/pretty, the same library the teacher's test suites use for deep
// structural diffs (e.g. encoding/protobuf's pretty.Diff), reused here for
// one-off inspection instead of comparison. A no-op unless Enabled().
func Dump(label string, v interface{}) {
	if !Enabled() {
		return
	}
	Fdump(os.Stderr, label, v)
}

// Fdump is Dump with an explicit writer, for tests that want to assert on
// debug output without depending on stderr.
func Fdump(w io.Writer, label string, v interface{}) {
	fmt.Fprintf(w, "%s:\n", label)
	pretty.Fprintf(w, "%# v\n", v)
}
