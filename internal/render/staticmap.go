package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/viewport"
	"googlemaps.github.io/maps"
)

// StaticMapClient is the part of the Google Maps client used to fetch map images.
type StaticMapClient interface {
	StaticMap(ctx context.Context, r *maps.StaticMapRequest) (image.Image, error)
}

// ErrNothingToRender is returned when Render is called before a polygon was drawn and fitted.
var ErrNothingToRender = errors.New("no fitted polygon to render")

// StaticMap renders the parcel overlay through the Google Static Maps API.
type StaticMap struct {
	client StaticMapClient
	size   viewport.Size
	log    *slog.Logger

	mu       sync.Mutex
	path     *maps.Path
	viewport *viewport.Viewport
}

// NewStaticMap creates a static map surface of the given pixel size.
func NewStaticMap(client StaticMapClient, size viewport.Size, log *slog.Logger) *StaticMap {
	return &StaticMap{client: client, size: size, log: log}
}

// NewGoogleStaticMapClient creates a Google Maps client for static map rendering.
func NewGoogleStaticMapClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required for Google static maps")
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}

// DrawPolygon replaces the overlay with polygon.
func (sm *StaticMap) DrawPolygon(_ context.Context, polygon models.Polygon, style Style) error {
	path := &maps.Path{
		Weight:    style.StrokeWidth,
		Color:     hexColor(style.Stroke),
		FillColor: hexColor(style.Fill),
		Location:  toLatLng(polygon),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.path = path

	return nil
}

// FitToCoordinates computes the camera for points and keeps it for the next Render.
func (sm *StaticMap) FitToCoordinates(ctx context.Context, points models.Polygon, padding models.EdgePadding) error {
	vp, err := viewport.Fit(points, sm.size, padding)
	if err != nil {
		return fmt.Errorf("failed to fit static map: %w", err)
	}

	sm.log.DebugContext(ctx, "Static map camera fitted", "center", vp.Center, "zoom", vp.Zoom)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.viewport = &vp

	return nil
}

// Request builds the Static Maps request for the current overlay and camera.
func (sm *StaticMap) Request() (*maps.StaticMapRequest, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.path == nil || sm.viewport == nil {
		return nil, ErrNothingToRender
	}

	center := sm.viewport.Center
	if math.IsNaN(sm.viewport.Zoom) || math.IsNaN(center.Latitude) || math.IsNaN(center.Longitude) {
		return nil, ErrNothingToRender
	}

	// Static maps only take integer zooms; rounding down keeps the padding intact.
	zoom := int(math.Min(viewport.MaxZoom, math.Max(0, math.Floor(sm.viewport.Zoom))))

	return &maps.StaticMapRequest{
		Center:  strconv.FormatFloat(center.Latitude, 'f', 7, 64) + "," + strconv.FormatFloat(center.Longitude, 'f', 7, 64),
		Zoom:    zoom,
		Size:    fmt.Sprintf("%dx%d", sm.size.Width, sm.size.Height),
		MapType: maps.MapType("hybrid"),
		Paths:   []maps.Path{*sm.path},
	}, nil
}

// Render fetches the map image.
func (sm *StaticMap) Render(ctx context.Context) (image.Image, error) {
	req, err := sm.Request()
	if err != nil {
		return nil, err
	}

	img, err := sm.client.StaticMap(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to render static map: %w", err)
	}

	return img, nil
}

// WritePNG renders the map and encodes it to w.
func (sm *StaticMap) WritePNG(ctx context.Context, w io.Writer) error {
	img, err := sm.Render(ctx)
	if err != nil {
		return err
	}

	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode static map: %w", err)
	}

	return nil
}

func toLatLng(polygon models.Polygon) []maps.LatLng {
	locations := make([]maps.LatLng, 0, len(polygon))
	for _, pt := range polygon {
		locations = append(locations, maps.LatLng{Lat: pt.Latitude, Lng: pt.Longitude})
	}
	return locations
}
