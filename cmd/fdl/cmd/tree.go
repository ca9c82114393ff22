package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/ast"
)

func (a *app) treeCmd() *cobra.Command {
	var stats bool

	c := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the parsed forest as an indented outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forest, err := fdl.LoadWith(a.parser(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, ast.Dump(forest))
			if stats {
				s := fdl.Summarize(forest)
				fmt.Fprintf(out, "\nroots: %d  things: %d  props: %d  depth: %d\n",
					s.Roots, s.Things, s.Props, s.MaxDepth)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&stats, "stats", "s", false, "Print a summary after the outline")
	return c
}
