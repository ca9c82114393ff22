package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/pkg/core/version"
)

func versionCmd() *cobra.Command {
	var components bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			if components {
				for _, name := range []string{"viewer", "server", "store"} {
					fmt.Fprintf(out, "  %-8s %s\n", name, version.ComponentVersion(name))
				}
			}
		},
	}
	c.Flags().BoolVar(&components, "components", false, "Also list component versions")
	return c
}
