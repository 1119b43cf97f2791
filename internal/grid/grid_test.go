package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"state-gridmap/internal/model"
)

func TestCalcCellSize(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want float64
	}{
		{"width bound", 522, 400, 40},
		{"height bound", 2000, 322, 40},
		{"floors", 600, 400, 46},
		{"tiny viewport", 1, 1, 0},
		{"negative viewport", -50, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcCellSize(tt.w, tt.h, Cols, Rows))
		})
	}
}

func TestCalcCellSize_GridFitsViewport(t *testing.T) {
	for w := 10.0; w <= 1600; w += 37 {
		for h := 10.0; h <= 1000; h += 23 {
			cell := CalcCellSize(w, h, Cols, Rows)
			assert.GreaterOrEqual(t, cell, 0.0)
			assert.LessOrEqual(t, Cols*cell+2, w, "w=%v h=%v", w, h)
			assert.LessOrEqual(t, Rows*cell+2, h, "w=%v h=%v", w, h)
		}
	}
}

func TestBackground(t *testing.T) {
	cells := Background(Cols, Rows, 40)
	require.Len(t, cells, Rows)
	for _, row := range cells {
		require.Len(t, row, Cols)
	}

	first := cells[0][0]
	assert.Equal(t, Cell{Row: 1, Col: 1, X: 1, Y: 1, Width: 40, Height: 40}, first)

	last := cells[Rows-1][Cols-1]
	assert.Equal(t, 1+40.0*(Cols-1), last.X)
	assert.Equal(t, 1+40.0*(Rows-1), last.Y)
}

func TestPlace_California(t *testing.T) {
	ca := model.PublicationEntry{Code: "CA", State: "California", Row: 4, Col: 1, Publication: "npr"}
	r := PlaceEntry(ca, CalcCellSize(522, 400, Cols, Rows))

	assert.Equal(t, Rect{X: 0, Y: 120, Width: 40, Height: 40}, r)
}

func TestPlace_DistinctPositionsNeverOverlap(t *testing.T) {
	const cell = 37
	var rects []Rect
	for row := 1; row <= Rows; row++ {
		for col := 1; col <= Cols; col++ {
			r := Place(row, col, cell)
			assert.True(t, Fits(r, Cols, Rows, cell))
			rects = append(rects, r)
		}
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "%v overlaps %v", rects[i], rects[j])
		}
	}
}

func TestFits_OutsideGrid(t *testing.T) {
	assert.False(t, Fits(Place(Rows+1, 1, 10), Cols, Rows, 10))
	assert.False(t, Fits(Place(1, Cols+1, 10), Cols, Rows, 10))
	assert.False(t, Fits(Place(0, 1, 10), Cols, Rows, 10))
}

func TestValidate(t *testing.T) {
	ok := []model.PublicationEntry{
		{Code: "WA", State: "Washington", Row: 1, Col: 1, Publication: "npr"},
		{Code: "ME", State: "Maine", Row: 1, Col: 13, Publication: "npr"},
		{Code: "WA", State: "Washington", Row: 1, Col: 1, Publication: "compact"},
	}
	require.NoError(t, Validate(ok))

	t.Run("outside grid", func(t *testing.T) {
		err := Validate([]model.PublicationEntry{{Code: "HI", Row: 9, Col: 1, Publication: "npr"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside")
	})

	t.Run("shared position", func(t *testing.T) {
		err := Validate([]model.PublicationEntry{
			{Code: "NY", Row: 2, Col: 10, Publication: "npr"},
			{Code: "NJ", Row: 2, Col: 10, Publication: "npr"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NY and NJ")
	})
}
