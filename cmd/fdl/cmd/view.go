// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive forest viewer
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/internal/tui/viewer"
	"github.com/msto63/fdl/internal/watch"
	"github.com/msto63/fdl/pkg/core/config"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

func (a *app) viewCmd() *cobra.Command {
	var (
		follow  bool
		openAll bool
	)

	c := &cobra.Command{
		Use:     "view <file>",
		Aliases: []string{"viewer"},
		Short:   "Browse a file in an interactive tree viewer",
		Long: `Opens the interactive forest viewer.

Things are shown as a collapsible tree, props as "type name = value"
below an open thing. With --watch the file is parsed again after every
change; the open state is kept and parse errors appear in the status bar.

Keys:
  Up/Down, k/j   Move
  Enter/Space    Open or close thing
  Right/Left     Open / close thing
  o / c          Open all / close all
  p              Show or hide props
  PgUp/PgDn      Page
  g / G          Top / bottom
  q, Esc         Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg := viewer.Config{
				Path:      path,
				Indent:    a.config.Viewer.Indent,
				HideProps: a.config.Viewer.HideProps,
				OpenAll:   openAll || a.config.Viewer.OpenAll,
			}

			// The terminal belongs to the viewer; logging would corrupt it.
			quiet := log.Nop()
			p := parser.New(parser.Options{Logger: quiet})

			if !follow {
				forest, err := fdl.LoadWith(p, path)
				if err != nil {
					if _, ok := parser.AsParseError(err); !ok {
						return err
					}
				}
				return viewer.Run(cfg, forest, err, nil)
			}

			w, err := watch.New([]string{path}, watch.Options{
				Debounce: a.config.Viewer.Debounce.Duration,
				Logger:   quiet,
				Parser:   p,
			})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go w.Run(ctx)

			return viewer.Run(cfg, nil, nil, w.Results())
		},
	}
	c.Flags().BoolVarP(&follow, "watch", "w", false, "Reload the file when it changes")
	c.Flags().BoolVar(&openAll, "open-all", false, "Start with every thing expanded")
	c.Flags().Bool("hide-props", false, "Start with props hidden")
	_ = a.v.BindPFlag(config.KeyHideProps, c.Flags().Lookup("hide-props"))
	return c
}
