package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/render"
	"github.com/UnknownOlympus/kataster/internal/screen"
	"github.com/UnknownOlympus/kataster/internal/viewport"
	"github.com/UnknownOlympus/kataster/internal/wkt"
	"github.com/spf13/cobra"
)

func lookupCmd(opts *rootOptions) *cobra.Command {
	var asWKT bool
	var pngPath string

	c := &cobra.Command{
		Use:   "lookup <identifier>",
		Short: "Look up one parcel and print its outline as GeoJSON or WKT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApplication(ctx, opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			store := screen.NewStore(app.parcels, app.log)

			var staticMap *render.StaticMap
			if pngPath != "" {
				client, clientErr := render.NewGoogleStaticMapClient(opts.cfg.Maps.APIKey)
				if clientErr != nil {
					return fmt.Errorf("--png needs KATASTER_MAPS_API_KEY: %w", clientErr)
				}
				size := viewport.Size{Width: opts.cfg.Maps.Width, Height: opts.cfg.Maps.Height}
				staticMap = render.NewStaticMap(client, size, app.log)
				coordinator := viewport.NewCoordinator(staticMap, models.UniformPadding(opts.cfg.Padding), app.log)

				store.OnPolygon(render.DrawOnUpdate(staticMap, render.DefaultStyle, app.log))
				store.OnPolygon(coordinator.PolygonUpdated)
			}

			st := store.Search(ctx, args[0])
			if st.Phase != screen.PhaseDisplayingPolygon {
				return errors.New(st.Error)
			}

			if err = printPolygon(cmd, st.Identifier, st.Polygon, asWKT); err != nil {
				return err
			}

			if staticMap != nil {
				return writePNG(cmd, staticMap, pngPath)
			}

			return nil
		},
	}

	c.Flags().BoolVar(&asWKT, "wkt", false, "print the outline as WKT instead of GeoJSON")
	c.Flags().StringVar(&pngPath, "png", "", "also render the parcel on a static map into this PNG file")

	return c
}

func printPolygon(cmd *cobra.Command, identifier string, polygon models.Polygon, asWKT bool) error {
	if asWKT {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), wkt.FormatPolygon(polygon))
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(polygon.GeoJSON(identifier))
}

func writePNG(cmd *cobra.Command, staticMap *render.StaticMap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err = staticMap.WritePNG(cmd.Context(), f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
