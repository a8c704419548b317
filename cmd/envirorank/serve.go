package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/envirorank/api"
)

// --- Serve Command ---

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard and HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				port, _ := cmd.Flags().GetInt("port")
				if port < 1 || port > 65535 {
					return fmt.Errorf("--port: %d is not a valid port", port)
				}
				cfg.API.Port = port
			}

			dc, err := loadContext()
			if err != nil {
				return err
			}
			srv, err := api.NewServer(cfg, dc)
			if err != nil {
				return err
			}
			srv.SetVersion(version)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, srv, cfg.API.Addr())
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides api.port)")
	return cmd
}

// serve runs the server until ctx is cancelled or the listener fails.
func serve(ctx context.Context, srv *api.Server, addr string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			slog.Info("shutdown requested")
		}
		return nil
	})
	return g.Wait()
}
