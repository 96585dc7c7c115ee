package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/render"
	"github.com/UnknownOlympus/kataster/internal/screen"
	"github.com/UnknownOlympus/kataster/internal/tui"
	"github.com/UnknownOlympus/kataster/internal/viewport"
	"github.com/spf13/cobra"
)

// Terminal cells are coarse; a small padding keeps the outline off the border.
const canvasPadding = 2

func tuiCmd(opts *rootOptions) *cobra.Command {
	var logFile string

	c := &cobra.Command{
		Use:   "tui",
		Short: "Search parcels interactively and draw their outline in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// The screen owns the terminal: logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}

			app, err := newApplication(ctx, opts.cfg, logOut)
			if err != nil {
				return err
			}
			defer app.Close()

			canvas := render.NewCanvas(0, 0)
			coordinator := viewport.NewCoordinator(canvas, models.UniformPadding(canvasPadding), app.log)

			store := screen.NewStore(app.parcels, app.log)
			store.OnPolygon(render.DrawOnUpdate(canvas, render.DefaultStyle, app.log))
			store.OnPolygon(coordinator.PolygonUpdated)

			return tui.Run(ctx, tui.Deps{
				Store:    store,
				Lookuper: app.parcels,
				Canvas:   canvas,
				Refit:    coordinator.PolygonUpdated,
				Log:      app.log,
			})
		},
	}

	c.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while the screen is open")

	return c
}
