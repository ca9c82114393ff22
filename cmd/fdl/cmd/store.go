package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/internal/store"
	"github.com/msto63/fdl/pkg/core/config"
	"github.com/msto63/fdl/pkg/fdl"
)

func (a *app) storeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "store",
		Short: "Manage stored document snapshots",
		Long: `Snapshots keep a copy of a document together with its parse result.
IDs may be abbreviated to any unique prefix.`,
	}
	c.PersistentFlags().String("store", "", "Snapshot database (default <data-dir>/snapshots.db)")
	_ = a.v.BindPFlag(config.KeyStorePath, c.PersistentFlags().Lookup("store"))

	c.AddCommand(
		a.storeSaveCmd(),
		a.storeListCmd(),
		a.storeShowCmd(),
		a.storeDeleteCmd(),
		a.storeStatsCmd(),
	)
	return c
}

// withStore opens the snapshot store for the duration of fn
func (a *app) withStore(fn func(s *store.SQLiteStore) error) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (a *app) storeSaveCmd() *cobra.Command {
	var name string

	c := &cobra.Command{
		Use:   "save <file>",
		Short: "Store a snapshot of a file",
		Long:  "Stores the file even if it does not parse; the snapshot records the error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := fdl.ReadSource(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			return a.withStore(func(s *store.SQLiteStore) error {
				snap, err := s.Save(cmd.Context(), name, src)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s\n", snap.ID, snap.Name)
				if !snap.Valid {
					fmt.Fprintf(out, "warning: %s\n", snap.Error)
				}
				return nil
			})
		},
	}
	c.Flags().StringVarP(&name, "name", "n", "", "Snapshot name (default file name)")
	return c
}

func (a *app) storeListCmd() *cobra.Command {
	var limit, offset int

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				snaps, err := s.List(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-10s %-24s %-8s %-7s %-8s %s\n", "ID", "NAME", "STATUS", "THINGS", "SIZE", "CREATED")
				for _, snap := range snaps {
					fmt.Fprintf(out, "%-10s %-24s %-8s %-7d %-8d %s\n",
						shortID(snap.ID), snap.Name, status(snap), snap.Stats.Things,
						snap.Size, snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				}
				fmt.Fprintf(out, "Total: %d snapshot(s)\n", len(snaps))
				return nil
			})
		},
	}
	c.Flags().IntVar(&limit, "limit", 50, "Maximum number of snapshots")
	c.Flags().IntVar(&offset, "offset", 0, "Number of snapshots to skip")
	return c
}

func (a *app) storeShowCmd() *cobra.Command {
	var sourceOnly bool

	c := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				id, err := s.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				snap, err := s.Get(cmd.Context(), id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if sourceOnly {
					fmt.Fprint(out, snap.Source)
					return nil
				}
				fmt.Fprintf(out, "ID:       %s\n", snap.ID)
				fmt.Fprintf(out, "Name:     %s\n", snap.Name)
				fmt.Fprintf(out, "Created:  %s\n", snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Status:   %s\n", status(snap))
				if snap.Error != "" {
					fmt.Fprintf(out, "Error:    %s\n", snap.Error)
				}
				fmt.Fprintf(out, "Things:   %d (%d roots, depth %d)\n", snap.Stats.Things, snap.Stats.Roots, snap.Stats.MaxDepth)
				fmt.Fprintf(out, "Props:    %d\n", snap.Stats.Props)
				fmt.Fprintf(out, "Size:     %d bytes\n", snap.Size)
				fmt.Fprintf(out, "\n%s", snap.Source)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&sourceOnly, "source", false, "Print only the stored source")
	return c
}

func (a *app) storeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				id, err := s.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := s.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
				return nil
			})
		},
	}
}

func (a *app) storeStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				stats, err := s.Statistics(cmd.Context())
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(stats))
				for k := range stats {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %v\n", k+":", stats[k])
				}
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func status(snap *store.Snapshot) string {
	if snap.Valid {
		return "valid"
	}
	return "invalid"
}
