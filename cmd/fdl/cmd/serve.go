package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/fdl/internal/server"
	"github.com/msto63/fdl/internal/store"
	"github.com/msto63/fdl/pkg/core/config"
	"github.com/msto63/fdl/pkg/core/log"
)

func (a *app) serveCmd() *cobra.Command {
	var noStore bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the live-parse websocket server",
		Long: `Starts an HTTP server with a websocket endpoint at /ws and a health
endpoint at /healthz.

Clients send JSON messages {"type": ..., "id": ..., "payload": {...}}:

  parse    {"source": "..."}            -> result {forest, stats} or error
  tokens   {"source": "..."}            -> result [{line, column, kind, literal}]
  format   {"source": "..."}            -> result {source}
  save     {"name": "...", "source": ...} -> result {id, valid}
  ping                                  -> pong

Parse errors carry line, column, message and kind (structural or value).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var snapshots store.SnapshotStore
			if !noStore {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()
				snapshots = s
			}

			cfg := a.config.Server
			srv, err := server.New(server.Config{
				Host:           cfg.Host,
				Port:           cfg.Port,
				ReadTimeout:    cfg.ReadTimeout.Duration,
				WriteTimeout:   cfg.WriteTimeout.Duration,
				PingInterval:   cfg.PingInterval.Duration,
				MaxSourceSize:  cfg.MaxSourceSize,
				AllowedOrigins: cfg.AllowedOrigins,
				CacheSize:      max(cfg.CacheSize, 0),
				CacheTTL:       cfg.CacheTTL.Duration,
			}, a.logger, snapshots)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on ws://%s/ws\n", srv.Address())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				a.logger.WarnWithErr("Shutdown incomplete", err)
			}
			return <-errCh
		},
	}

	c.Flags().String("host", "", "Listen host (default from config)")
	c.Flags().Int("port", 0, "Listen port (default from config)")
	c.Flags().BoolVar(&noStore, "no-store", false, "Disable the save message type")
	_ = a.v.BindPFlag(config.KeyServerHost, c.Flags().Lookup("host"))
	_ = a.v.BindPFlag(config.KeyServerPort, c.Flags().Lookup("port"))
	return c
}

func (a *app) openStore() (*store.SQLiteStore, error) {
	s, err := store.New(store.Config{
		Path:               a.config.Store.Path,
		DisableCompression: a.config.Store.DisableCompression,
		Logger:             a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Snapshot store opened", log.Fields{"path": a.config.Store.Path})
	return s, nil
}
