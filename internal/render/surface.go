// Package render holds the rendering surfaces parcel outlines are drawn on.
package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// Surface accepts a polygon overlay and camera-fit commands.
type Surface interface {
	DrawPolygon(ctx context.Context, polygon models.Polygon, style Style) error
	FitToCoordinates(ctx context.Context, points models.Polygon, padding models.EdgePadding) error
}

// Style describes how a parcel overlay is painted.
type Style struct {
	Stroke      color.NRGBA
	Fill        color.NRGBA
	StrokeWidth int
}

// DefaultStyle is a bright green outline with a faint fill.
var DefaultStyle = Style{
	Stroke:      color.NRGBA{R: 0, G: 255, B: 106, A: 255},
	Fill:        color.NRGBA{R: 0, G: 255, B: 106, A: 33},
	StrokeWidth: 2,
}

// hexColor formats c as 0xRRGGBBAA.
func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("0x%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// DrawOnUpdate returns a polygon listener painting every new outline on surface.
func DrawOnUpdate(surface Surface, style Style, log *slog.Logger) func(ctx context.Context, polygon models.Polygon) {
	return func(ctx context.Context, polygon models.Polygon) {
		if err := surface.DrawPolygon(ctx, polygon, style); err != nil {
			log.ErrorContext(ctx, "Failed to draw parcel", "error", err)
		}
	}
}
