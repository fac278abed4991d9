package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/value"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <file>",
		Short: "parse and run a Ruchy source file, calling main() if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parser.ParseFile(args[0], nil)
			if err != nil {
				printDiagnostics(os.Stderr, err)
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			it := interp.New()
			it.RecursionLimit = cfg.RecursionLimit

			// Run evaluates the whole file and yields the last top-level
			// declaration's value (spec 6.1's `eval(typed-AST, env) -> Value`):
			// this is what makes a flat script like `let n = 5; n * n` produce
			// a result directly, with no `main` required. When the file also
			// defines `main`, call it instead, since that's the convention a
			// module-style (as opposed to flat-script) program expects.
			result, env, err := it.Run(f)
			if err != nil {
				printDiagnostics(os.Stderr, err)
				return err
			}
			if main, ok := env.Lookup("main"); ok {
				result, err = it.Call(main, nil, f.Pos())
				if err != nil {
					printDiagnostics(os.Stderr, err)
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.Display(result))
			return nil
		},
	}
}
