package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/export"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	c := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a file to JSON, YAML or TOML",
		Long: `Converts the parsed forest to a nested document. Every thing becomes a
mapping with a "props" section holding its typed values and a "things"
section holding its children; empty sections are omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			forest, err := fdl.LoadWith(a.parser(), args[0])
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fdlerr.Wrap(err, "cannot create output file").
						WithCode(fdlerr.CodeIO).
						WithDetail("path", output)
				}
				defer file.Close()
				out = file
			}
			return export.Write(out, forest, f)
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, toml)")
	c.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return c
}
