package render

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/viewport"
)

// Terminal cells are roughly twice as tall as wide; the canvas treats one cell as 1x2 units.
const cellAspect = 2

// Canvas is a character raster of the parcel outline used by the terminal screen.
type Canvas struct {
	cols, rows int

	mu       sync.Mutex
	polygon  models.Polygon
	viewport *viewport.Viewport
}

// NewCanvas creates a canvas of cols x rows character cells.
func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{cols: cols, rows: rows}
}

// Resize changes the canvas size. The camera must be fitted again afterwards.
func (c *Canvas) Resize(cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cols, c.rows = cols, rows
	c.viewport = nil
}

// Size is the canvas extent in viewport units.
func (c *Canvas) Size() viewport.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return viewport.Size{Width: c.cols, Height: c.rows * cellAspect}
}

// DrawPolygon replaces the outline. The style is ignored: the outline is drawn with '#'.
func (c *Canvas) DrawPolygon(_ context.Context, polygon models.Polygon, _ Style) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polygon = polygon
	return nil
}

// FitToCoordinates frames points on the canvas.
func (c *Canvas) FitToCoordinates(_ context.Context, points models.Polygon, padding models.EdgePadding) error {
	vp, err := viewport.Fit(points, c.Size(), padding)
	if err != nil {
		return fmt.Errorf("failed to fit canvas: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = &vp

	return nil
}

// Clear removes the outline and the camera.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polygon = nil
	c.viewport = nil
}

// String rasterizes the outline, closing the ring for display only.
// An unfitted canvas renders as blank rows.
func (c *Canvas) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cols <= 0 || c.rows <= 0 {
		return ""
	}

	grid := make([][]rune, c.rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", c.cols))
	}

	if c.viewport != nil && len(c.polygon) > 0 {
		cells := make([][2]int, 0, len(c.polygon))
		for _, pt := range c.polygon {
			cells = append(cells, c.toCell(pt))
		}
		for i := range cells {
			next := cells[(i+1)%len(cells)]
			drawLine(grid, cells[i], next)
		}
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}

	return strings.Join(lines, "\n")
}

func (c *Canvas) toCell(pt models.Point) [2]int {
	const half = 2
	cx, cy := viewport.Project(c.viewport.Center, c.viewport.Zoom)
	px, py := viewport.Project(pt, c.viewport.Zoom)

	x := px - cx + float64(c.cols)/half
	y := (py - cy + float64(c.rows*cellAspect)/half) / cellAspect

	return [2]int{int(math.Floor(x)), int(math.Floor(y))}
}

// drawLine plots a Bresenham line, skipping cells outside the grid.
func drawLine(grid [][]rune, from, to [2]int) {
	x0, y0 := from[0], from[1]
	x1, y1 := to[0], to[1]
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errAcc := dx + dy

	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) {
			grid[y0][x0] = '#'
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
