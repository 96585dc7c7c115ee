package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/kataster/internal/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve parcel lookups, the lookup journal and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApplication(ctx, opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			deps := &api.Dependencies{
				Parcels:       app.parcels,
				Gatherer:      app.registry,
				Metrics:       app.metrics,
				Log:           app.log,
				LookupTimeout: 3 * opts.cfg.ULDK.Timeout,
			}
			if app.pool != nil {
				deps.DB = app.pool
			}
			server := api.NewApp(deps)

			errCh := make(chan error, 1)
			go func() {
				addr := fmt.Sprintf(":%d", opts.cfg.Port)
				app.log.InfoContext(ctx, "Starting parcel API", "addr", addr)
				errCh <- server.Listen(addr)
			}()

			select {
			case err = <-errCh:
				return fmt.Errorf("parcel API failed: %w", err)
			case <-ctx.Done():
			}

			app.log.InfoContext(ctx, "Shutdown signal received. Stopping parcel API...")

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err = server.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("forced shutdown: %w", err)
			}

			app.log.InfoContext(ctx, "Parcel API stopped gracefully.")

			return nil
		},
	}
}
