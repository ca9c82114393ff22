package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/lexer"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Long:  "Prints one token per line as LINE:COLUMN KIND literal. Positions are zero-based.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := fdl.ReadSource(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for tok, pos := range lexer.Tokenize(src) {
				fmt.Fprintf(out, "%s %s %s\n", pos, tok.Kind, tok.Literal)
			}
			return nil
		},
	}
}
