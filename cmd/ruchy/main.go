// Command ruchy is the driver CLI stub (spec component C8): just enough
// wiring over the driver API (spec.md 6.1 — parse/infer/eval/transpile) to
// invoke the core from a shell. It has no REPL, no build-tool shelling, no
// LSP — the "named but not designed here" framing spec.md gives the outer
// CLI/tooling layer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/config"
	"github.com/ruchy-lang/ruchy/ruchyerrors"
)

func main() {
	os.Exit(Main())
}

// Main runs the root command and returns a process exit code, split out
// from main so the testscript suite (script_test.go) can register it as an
// in-process subcommand via testscript.RunMain, the way the teacher's own
// cmd/cue/cmd registers its Main the same way.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ruchy",
		Short:         "ruchy is the driver CLI for the Ruchy language core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a ruchy.yaml configuration file (spec 6.7)")
	root.PersistentFlags().Int("recursion-limit", 0, "override the call-depth recursion limit (spec 6.5); 0 keeps the config/default value")

	root.AddCommand(newParseCmd())
	root.AddCommand(newInferCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newTranspileCmd())
	return root
}

// loadConfig resolves the effective recursion limit for one invocation:
// config.Default(), overridden by --config's file if given, overridden in
// turn by --recursion-limit, the same precedence cobra itself gives
// flags over config defaults elsewhere in the corpus.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		cfg = loaded
	}
	if limit, _ := cmd.Flags().GetInt("recursion-limit"); limit > 0 {
		cfg.RecursionLimit = limit
	}
	return cfg, nil
}

func printDiagnostics(w *os.File, err error) {
	if err == nil {
		return
	}
	ruchyerrors.Print(w, err, nil)
}
