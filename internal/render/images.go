package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
)

// ErrTooFewPoints is returned for series that cannot span a time axis.
var ErrTooFewPoints = errors.New("at least two points are required to draw a chart")

var neutralGray = drawing.Color{R: 189, G: 189, B: 189, A: 255}

// OverlayPNG renders the overlay series as a filled time-series chart.
func OverlayPNG(w io.Writer, c overlay.Chart, width, height int) error {
	if len(c.Points) < 2 {
		return ErrTooFewPoints
	}
	xs, ys := split(c.Points)
	col := ParseColor(c.Color)

	max := overlay.MaxY(c.Points)
	if max <= 0 {
		max = 1
	}
	var yTicks []chart.Tick
	for _, t := range c.YTicks {
		yTicks = append(yTicks, chart.Tick{Value: t.Value, Label: t.Label})
	}

	fillAlpha := float64(overlay.RestOpacity * 255)
	graph := chart.Chart{
		Title: c.Title,
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: max},
			Ticks: yTicks,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    c.YLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 1,
					FillColor:   col.WithAlpha(uint8(fillAlpha)),
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render overlay chart: %w", err)
	}
	return nil
}

// SparklineSVG renders an axis-less line and area, the image form of a mini-chart.
func SparklineSVG(w io.Writer, points []model.Point, color string, width, height int) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}
	xs, ys := split(points)
	col := ParseColor(color)

	max := 0.0
	for _, y := range ys {
		if y+1 > max {
			max = y + 1
		}
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 2, Left: 2, Right: 2, Bottom: 2},
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: max},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 1,
					FillColor:   col.WithAlpha(51),
				},
			},
		},
	}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render sparkline: %w", err)
	}
	return nil
}

// ParseColor accepts #rgb and #rrggbb. Anything else, including CSS color names, maps to gray.
func ParseColor(s string) drawing.Color {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return neutralGray
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return neutralGray
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func split(points []model.Point) ([]time.Time, []float64) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
