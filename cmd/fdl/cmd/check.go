package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/internal/watch"
	"github.com/msto63/fdl/pkg/fdl"
)

func (a *app) checkCmd() *cobra.Command {
	var follow bool

	c := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files and report the first error of each",
		Long: `Parses every file and prints one line per file:

  config.fdl: ok
  broken.fdl: line 3:8 - expected ` + "`=`" + ` after prop name ` + "`port`" + `

Lines and columns are zero-based. The exit status is non-zero if any
file fails. With --watch the files are checked again after every change
until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if follow {
				return a.checkWatch(cmd, args)
			}
			return a.check(cmd.OutOrStdout(), args)
		},
	}
	c.Flags().BoolVarP(&follow, "watch", "w", false, "Re-check files when they change")
	return c
}

func (a *app) check(out io.Writer, paths []string) error {
	p := a.parser()
	failed := 0
	for _, path := range paths {
		_, err := fdl.LoadWith(p, path)
		reportCheck(out, path, err)
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed: %w", failed, len(paths), errSilent)
	}
	return nil
}

func (a *app) checkWatch(cmd *cobra.Command, paths []string) error {
	w, err := watch.New(paths, watch.Options{
		Debounce: a.config.Viewer.Debounce.Duration,
		Logger:   a.logger,
		Parser:   a.parser(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWatch(ctx, w, func(r watch.Result) {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", r.At.Format("15:04:05"))
		reportCheck(cmd.OutOrStdout(), r.Path, r.Err)
	})
}

// runWatch drives w until ctx is done and hands every result to handle
func runWatch(ctx context.Context, w *watch.Watcher, handle func(watch.Result)) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	for r := range w.Results() {
		handle(r)
	}
	return <-errCh
}

func reportCheck(out io.Writer, path string, err error) {
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", path, fdl.FormatError(err))
		return
	}
	fmt.Fprintf(out, "%s: ok\n", path)
}
