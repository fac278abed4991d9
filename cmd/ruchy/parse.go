package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a Ruchy source file and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parser.ParseFile(args[0], nil)
			if err != nil {
				printDiagnostics(os.Stderr, err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d top-level declarations\n", len(f.Decls))
			return nil
		},
	}
}
