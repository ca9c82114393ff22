package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/printer"
)

func (a *app) fmtCmd() *cobra.Command {
	var (
		write  bool
		list   bool
		indent int
	)

	c := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Print files in canonical layout",
		Long: `Parses each file and prints it in canonical layout: props before
nested things, one declaration per line, empty things as {}.

Comments are not part of the language, so formatting is lossless.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &printer.Config{}
			if indent > 0 {
				cfg.Indent = strings.Repeat(" ", indent)
			}
			p := a.parser()
			out := cmd.OutOrStdout()

			for _, path := range args {
				src, err := fdl.ReadSource(path)
				if err != nil {
					return err
				}
				forest, err := fdl.ParseSource(p, src)
				if err != nil {
					return fdlerr.Wrap(err, path)
				}
				var buf bytes.Buffer
				if err := cfg.Fprint(&buf, forest); err != nil {
					return err
				}

				changed := buf.String() != src
				switch {
				case list:
					if changed {
						fmt.Fprintln(out, path)
					}
				case write:
					if !changed {
						continue
					}
					if err := writeFile(path, buf.Bytes()); err != nil {
						return err
					}
					a.logger.Info("Formatted file", log.Fields{"path": path})
				default:
					out.Write(buf.Bytes())
				}
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	c.Flags().BoolVarP(&list, "list", "l", false, "List files whose layout differs")
	c.Flags().IntVar(&indent, "indent", 0, "Spaces per nesting level (default 4)")
	return c
}

// writeFile replaces path keeping its permissions
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fdlerr.Wrap(err, "cannot write file").
			WithCode(fdlerr.CodeIO).
			WithDetail("path", path)
	}
	return nil
}
