package viewport

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// Fitter is the camera side of a rendering surface.
type Fitter interface {
	FitToCoordinates(ctx context.Context, points models.Polygon, padding models.EdgePadding) error
}

// Coordinator frames the camera on every new parcel outline.
// Subscribe PolygonUpdated to the screen store; it is not meant to run on redraws.
type Coordinator struct {
	surface Fitter
	padding models.EdgePadding
	log     *slog.Logger
}

// NewCoordinator creates a coordinator fitting surface with padding on each side.
func NewCoordinator(surface Fitter, padding models.EdgePadding, log *slog.Logger) *Coordinator {
	return &Coordinator{surface: surface, padding: padding, log: log}
}

// PolygonUpdated asks the surface to fit the new outline once.
// Empty outlines are ignored: there is nothing to frame.
func (c *Coordinator) PolygonUpdated(ctx context.Context, polygon models.Polygon) {
	if polygon.Empty() {
		return
	}

	c.log.DebugContext(ctx, "Fitting camera to parcel", "points", len(polygon))

	if err := c.surface.FitToCoordinates(ctx, polygon, c.padding); err != nil {
		c.log.ErrorContext(ctx, "Failed to fit camera to parcel", "error", err)
	}
}
