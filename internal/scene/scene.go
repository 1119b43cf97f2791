// Package scene turns loaded data, the selected metric and a viewport into a complete,
// renderer-independent description of the page: background grid, state tiles with their
// mini-charts and at most one detail overlay.
package scene

import (
	"errors"
	"fmt"

	"state-gridmap/internal/grid"
	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
)

// ErrNoPublication is returned when the link table does not select a usable publication.
var ErrNoPublication = errors.New("no publication selected")

// NeutralColor is used for states without an entry in the color table.
const NeutralColor = "#bdbdbd"

// Inputs is everything a scene is computed from.
type Inputs struct {
	Colors model.ColorTable
	Grid   []model.PublicationEntry
	Links  []model.Link
	Series []model.TimeSeriesRecord
}

// Viewport is the pixel size of the drawing area, margins included.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Inner is the viewport without the map margins.
func (v Viewport) Inner() (float64, float64) {
	return v.Width - 2*grid.Margin, v.Height - 2*grid.Margin
}

// Tile is one placed state.
type Tile struct {
	Code  string    `json:"code"`
	State string    `json:"state"`
	Color string    `json:"color"`
	Rect  grid.Rect `json:"rect"`

	// ColorFound is false when the color table had no entry and NeutralColor was used.
	ColorFound bool `json:"color_found"`

	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`

	// Mini is nil when the state has no time-series record.
	Mini *MiniChart `json:"mini,omitempty"`
}

// Scene is the full page description.
type Scene struct {
	Metric      model.Metric  `json:"metric"`
	Viewport    Viewport      `json:"viewport"`
	CellSize    float64       `json:"cell_size"`
	Publication string        `json:"publication"`
	Background  [][]grid.Cell `json:"background"`
	Tiles       []Tile        `json:"tiles"`

	Overlay *overlay.Chart `json:"overlay,omitempty"`

	in Inputs
}

// Build computes the scene. It does not open an overlay.
func Build(in Inputs, m model.Metric, vp Viewport) (*Scene, error) {
	if len(in.Links) == 0 || in.Links[0].Publication == "" {
		return nil, ErrNoPublication
	}
	pub := in.Links[0].Publication
	entries := model.FilterPublication(in.Grid, pub)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: publication %q has no grid entries", ErrNoPublication, pub)
	}

	w, h := vp.Inner()
	cell := grid.CalcCellSize(w, h, grid.Cols, grid.Rows)

	s := &Scene{
		Metric:      m,
		Viewport:    vp,
		CellSize:    cell,
		Publication: pub,
		Background:  grid.Background(grid.Cols, grid.Rows, cell),
		Tiles:       make([]Tile, 0, len(entries)),
		in:          in,
	}

	for _, e := range entries {
		rect := grid.PlaceEntry(e, cell)
		color, ok := in.Colors.Lookup(e.State)
		if !ok {
			color = NeutralColor
		}
		t := Tile{
			Code:       e.Code,
			State:      e.State,
			Color:      color,
			ColorFound: ok,
			Rect:       rect,
			LabelX:     rect.X,
			LabelY:     rect.Y + cell*0.3,
		}
		if rec, err := overlay.Find(in.Series, e.State); err == nil {
			t.Mini = BuildMiniChart(overlay.SmoothedDataset(*rec, m), rect.X, rect.Y, cell)
		}
		s.Tiles = append(s.Tiles, t)
	}
	return s, nil
}

// OpenOverlay replaces any open overlay with the chart for state. A state without a
// time-series record opens an empty chart rather than failing.
func (s *Scene) OpenOverlay(state string) *overlay.Chart {
	s.CloseOverlay()

	color, ok := s.in.Colors.Lookup(state)
	if !ok {
		color = NeutralColor
	}
	rec, err := overlay.Find(s.in.Series, state)
	if err != nil {
		rec = nil
	}
	w, h := s.Viewport.Inner()
	c := overlay.Build(state, color, rec, s.Metric, w, h)
	s.Overlay = &c
	return s.Overlay
}

// CloseOverlay removes the overlay, if any. The scene is ready for the next open.
func (s *Scene) CloseOverlay() {
	s.Overlay = nil
}

// Tile returns the tile of a state name.
func (s *Scene) Tile(state string) (Tile, bool) {
	for _, t := range s.Tiles {
		if t.State == state {
			return t, true
		}
	}
	return Tile{}, false
}
