package models

import "math"

// Point represents a geographical point defined by its longitude and latitude (EPSG:4326).
type Point struct {
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
}

// Polygon is an ordered sequence of points in the order they appear in the source geometry.
// The ring is not required to be closed.
type Polygon []Point

// Empty reports whether the polygon has nothing to render.
func (p Polygon) Empty() bool {
	return len(p) == 0
}

// Bounds is the axis-aligned bounding box of a polygon.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Bounds returns the smallest box containing every point of the polygon.
// The second value is false for an empty polygon.
func (p Polygon) Bounds() (Bounds, bool) {
	if len(p) == 0 {
		return Bounds{}, false
	}

	bounds := Bounds{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
	for _, pt := range p {
		bounds.MinLon = math.Min(bounds.MinLon, pt.Longitude)
		bounds.MinLat = math.Min(bounds.MinLat, pt.Latitude)
		bounds.MaxLon = math.Max(bounds.MaxLon, pt.Longitude)
		bounds.MaxLat = math.Max(bounds.MaxLat, pt.Latitude)
	}

	return bounds, true
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	const half = 2
	return Point{
		Longitude: (b.MinLon + b.MaxLon) / half,
		Latitude:  (b.MinLat + b.MaxLat) / half,
	}
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(pt Point) bool {
	return pt.Longitude >= b.MinLon && pt.Longitude <= b.MaxLon &&
		pt.Latitude >= b.MinLat && pt.Latitude <= b.MaxLat
}

// EdgePadding is the margin, in pixel-equivalent units, kept free on each side of a fitted viewport.
type EdgePadding struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// UniformPadding returns the same padding on every side.
func UniformPadding(px int) EdgePadding {
	return EdgePadding{Top: px, Right: px, Bottom: px, Left: px}
}
