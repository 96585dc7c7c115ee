// Package viewport computes camera positions that frame a parcel outline and
// drives the rendering surface whenever the displayed outline changes.
package viewport

import (
	"errors"
	"math"

	"github.com/UnknownOlympus/kataster/internal/models"
)

const (
	// TileSize is the Web Mercator tile edge in pixels at zoom 0.
	TileSize = 256
	// MaxZoom caps the zoom used for degenerate (single point or zero-area) outlines.
	MaxZoom = 21
)

// Common fitting errors.
var (
	ErrEmptyPolygon         = errors.New("nothing to fit: polygon is empty")
	ErrPaddingExceedsCanvas = errors.New("padding leaves no room on the canvas")
	ErrNonFiniteCoordinate  = errors.New("polygon holds a non-finite coordinate")
)

// Size is a surface size in pixel-equivalent units.
type Size struct {
	Width  int
	Height int
}

// Viewport is the camera target produced by Fit.
type Viewport struct {
	Bounds models.Bounds // Bounds of the fitted points.
	Center models.Point  // Center is the camera position.
	Zoom   float64       // Zoom is the fractional Web Mercator zoom level.
}

// Fit returns the largest zoom at which every point fits into size with padding
// kept free on each side, centred on the points' bounding box.
func Fit(points models.Polygon, size Size, padding models.EdgePadding) (Viewport, error) {
	bounds, ok := points.Bounds()
	if !ok {
		return Viewport{}, ErrEmptyPolygon
	}
	if !finite(bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat) {
		return Viewport{}, ErrNonFiniteCoordinate
	}

	availW := float64(size.Width - padding.Left - padding.Right)
	availH := float64(size.Height - padding.Top - padding.Bottom)
	if availW <= 0 || availH <= 0 {
		return Viewport{}, ErrPaddingExceedsCanvas
	}

	west, north := project(models.Point{Longitude: bounds.MinLon, Latitude: bounds.MaxLat})
	east, south := project(models.Point{Longitude: bounds.MaxLon, Latitude: bounds.MinLat})

	spanX := (east - west) * TileSize
	spanY := (south - north) * TileSize

	zoom := float64(MaxZoom)
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(availW/spanX))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(availH/spanY))
	}

	// Padding may be asymmetric: shift the centre so the box sits in the free area.
	scale := TileSize * math.Exp2(zoom)
	const half = 2
	centerX := (west+east)/half + float64(padding.Right-padding.Left)/half/scale
	centerY := (north+south)/half + float64(padding.Bottom-padding.Top)/half/scale

	return Viewport{
		Bounds: bounds,
		Center: unproject(centerX, centerY),
		Zoom:   zoom,
	}, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Project maps a point to pixel coordinates on the world image at the given zoom.
func Project(pt models.Point, zoom float64) (float64, float64) {
	x, y := project(pt)
	scale := TileSize * math.Exp2(zoom)
	return x * scale, y * scale
}

// project maps a point to normalized Web Mercator coordinates in [0, 1].
func project(pt models.Point) (float64, float64) {
	const maxLat = 85.05112878

	lat := math.Max(-maxLat, math.Min(maxLat, pt.Latitude)) * math.Pi / 180
	x := (pt.Longitude + 180) / 360
	y := (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2

	return x, y
}

func unproject(x, y float64) models.Point {
	lng := x*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*y))) * 180 / math.Pi

	return models.Point{Longitude: lng, Latitude: lat}
}
