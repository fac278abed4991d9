package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/transpile"
	"github.com/ruchy-lang/ruchy/types"
)

func newTranspileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transpile <file>",
		Short: "transpile a fully-typed Ruchy source file to Rust",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parser.ParseFile(args[0], nil)
			if err != nil {
				printDiagnostics(os.Stderr, err)
				return err
			}
			inferred := types.Infer(f)
			res := transpile.File(f, inferred)
			if res.Errs != nil {
				printDiagnostics(os.Stderr, res.Errs)
				return res.Errs
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Source)
			return nil
		},
	}
}
