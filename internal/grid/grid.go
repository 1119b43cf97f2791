// Package grid computes the tile-map geometry: cell size from the viewport, the reference
// background cells and the pixel rectangle of every placed state.
package grid

import (
	"fmt"
	"math"

	"state-gridmap/internal/model"
)

const (
	Cols = 13
	Rows = 8

	// Margin is kept on every side of the map inside the viewport.
	Margin = 20
)

// Cell is one square of the background grid.
type Cell struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is the placement of one state.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlaps reports whether the interiors of r and o intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// CalcCellSize returns the largest whole cell size for which cols cells fit in w-2
// and rows cells fit in h-2. The two pixels leave room for the outer stroke.
func CalcCellSize(w, h float64, cols, rows int) float64 {
	if cols <= 0 || rows <= 0 {
		return 0
	}
	colWidth := math.Floor((w - 2) / float64(cols))
	rowWidth := math.Floor((h - 2) / float64(rows))
	cell := math.Min(colWidth, rowWidth)
	if cell < 0 || math.IsNaN(cell) {
		return 0
	}
	return cell
}

// Background lays out rows×cols reference cells starting at (1,1) so the stroke shows.
func Background(cols, rows int, cell float64) [][]Cell {
	out := make([][]Cell, 0, rows)
	y := 1.0
	for r := 0; r < rows; r++ {
		row := make([]Cell, 0, cols)
		x := 1.0
		for c := 0; c < cols; c++ {
			row = append(row, Cell{Row: r + 1, Col: c + 1, X: x, Y: y, Width: cell, Height: cell})
			x += cell
		}
		out = append(out, row)
		y += cell
	}
	return out
}

// Place converts a 1-based grid position to its pixel rectangle.
func Place(row, col int, cell float64) Rect {
	return Rect{
		X:      float64(col-1) * cell,
		Y:      float64(row-1) * cell,
		Width:  cell,
		Height: cell,
	}
}

// PlaceEntry places a publication entry.
func PlaceEntry(e model.PublicationEntry, cell float64) Rect {
	return Place(e.Row, e.Col, cell)
}

// Fits reports whether r lies inside the cols×rows map.
func Fits(r Rect, cols, rows int, cell float64) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= float64(cols)*cell &&
		r.Y+r.Height <= float64(rows)*cell
}

// Validate checks that every entry lies on the Cols×Rows grid and that no two entries of
// the same publication share a position. Placements of a valid layout never overlap.
func Validate(entries []model.PublicationEntry) error {
	type key struct {
		pub      string
		row, col int
	}
	seen := make(map[key]string, len(entries))
	for _, e := range entries {
		if e.Row < 1 || e.Row > Rows || e.Col < 1 || e.Col > Cols {
			return fmt.Errorf("%s (%s): position (%d,%d) is outside the %dx%d grid", e.Code, e.Publication, e.Row, e.Col, Cols, Rows)
		}
		k := key{e.Publication, e.Row, e.Col}
		if other, ok := seen[k]; ok {
			return fmt.Errorf("%s and %s share position (%d,%d) in publication %s", other, e.Code, e.Row, e.Col, e.Publication)
		}
		seen[k] = e.Code
	}
	return nil
}
