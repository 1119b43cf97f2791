package scene

import (
	"strconv"
	"strings"

	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
)

const (
	// MiniScale is the mini-chart size relative to its cell.
	MiniScale = 0.85
	// MiniTop keeps the peak of a mini-chart clear of the state label.
	MiniTop = 10
	// MiniFillOpacity is the opacity of the filled area.
	MiniFillOpacity = 0.2
)

// MiniChart is the axis-less line and area drawn inside one tile.
type MiniChart struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Line and Area are SVG path data relative to (X, Y).
	Line string `json:"line"`
	Area string `json:"area"`

	Points int `json:"points"`
}

// BuildMiniChart scales points into a (cell*0.85)² box whose origin is (x, y).
// The value domain is [0, max(v+1)] so flat series stay visible.
func BuildMiniChart(points []model.Point, x, y, cell float64) *MiniChart {
	w := cell * MiniScale
	h := cell * MiniScale
	mc := &MiniChart{X: x, Y: y, Width: w, Height: h, Points: len(points)}
	if len(points) == 0 {
		return mc
	}

	lo, hi := overlay.Extent(points)
	xs := overlay.TimeScale{Min: lo, Max: hi, R0: 0, R1: w}

	max := 0.0
	for i, p := range points {
		if i == 0 || p.Y+1 > max {
			max = p.Y + 1
		}
	}
	ys := overlay.LinearScale{D0: 0, D1: max, R0: h, R1: MiniTop}

	var line, top strings.Builder
	for i, p := range points {
		px, py := fmtNum(xs.At(p.X)), fmtNum(ys.At(p.Y))
		if i == 0 {
			line.WriteString("M")
		} else {
			line.WriteString("L")
		}
		line.WriteString(px + "," + py)
		top.WriteString("L" + px + "," + py)
	}
	mc.Line = line.String()

	base := fmtNum(h)
	first := fmtNum(xs.At(points[0].X))
	last := fmtNum(xs.At(points[len(points)-1].X))
	mc.Area = "M" + first + "," + base + top.String() + "L" + last + "," + base + "Z"
	return mc
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
