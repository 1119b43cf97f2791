// Package overlay builds the enlarged per-state chart shown in the modal: the raw series
// of the selected metric as bars over a monthly time axis.
package overlay

import (
	"math"
	"strconv"
	"time"

	"state-gridmap/internal/model"
)

const (
	Padding = 45

	// MaxXTicks caps the monthly ticks on the time axis.
	MaxXTicks = 6
	// YTickCount is the requested number of value gridlines.
	YTickCount = 5

	RestOpacity  = 0.3
	HoverOpacity = 0.7

	TooltipDateLayout = "January 02"
)

// Bar is one data point drawn as a rectangle.
type Bar struct {
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
	Tooltip string    `json:"tooltip"`
}

// Chart is the complete description of one overlay, ready to be drawn.
type Chart struct {
	State  string       `json:"state"`
	Color  string       `json:"color"`
	Metric model.Metric `json:"metric"`

	// Found is false when the state has no time-series record; the chart is then empty.
	Found bool `json:"found"`

	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`

	// BarOffset shifts bars and the x axis right; YAxisOffset positions the y axis.
	BarOffset   float64 `json:"bar_offset"`
	YAxisOffset float64 `json:"y_axis_offset"`

	Points []model.Point `json:"points"`
	Bars   []Bar         `json:"bars"`
	XTicks []Tick        `json:"x_ticks"`
	YTicks []Tick        `json:"y_ticks"`

	Title         string `json:"title"`
	YLabel        string `json:"y_label"`
	TitleFontSize string `json:"title_font_size"`
	LabelFontSize string `json:"label_font_size"`
}

// Build lays out the overlay for one state inside a viewport of vw×vh pixels.
// A nil record yields an empty chart with Found=false.
func Build(state, color string, rec *model.TimeSeriesRecord, m model.Metric, vw, vh float64) Chart {
	w := vw * 0.8
	h := vh * 0.5

	c := Chart{
		State:         state,
		Color:         color,
		Metric:        m,
		Found:         rec != nil,
		Width:         w,
		Height:        h,
		Padding:       Padding,
		BarOffset:     Padding * 0.5,
		YAxisOffset:   Padding * 1.5,
		Title:         state,
		YLabel:        m.AxisLabel(),
		TitleFontSize: "24px",
		LabelFontSize: "14px",
	}
	if vw < 300 || vh < 400 {
		c.TitleFontSize = "16px"
		c.LabelFontSize = "10px"
	}
	if rec == nil {
		return c
	}

	c.Points = Dataset(*rec, m)
	if len(c.Points) == 0 {
		return c
	}

	lo, hi := Extent(c.Points)
	x := TimeScale{Min: lo, Max: hi, R0: Padding, R1: w - Padding}

	max := MaxY(c.Points)
	if max <= 0 {
		max = 1
	}
	y := LinearScale{D0: 0, D1: max, R0: h, R1: Padding * 0.2}

	barWidth := w / float64(len(c.Points))
	c.Bars = make([]Bar, 0, len(c.Points))
	for _, p := range c.Points {
		top := y.At(p.Y)
		c.Bars = append(c.Bars, Bar{
			X:       x.At(p.X),
			Y:       top,
			Width:   barWidth,
			Height:  h - top,
			Date:    p.X,
			Value:   p.Y,
			Tooltip: TooltipText(p, m),
		})
	}

	for _, t := range MonthTicks(lo, hi, MaxXTicks) {
		c.XTicks = append(c.XTicks, Tick{Pos: x.At(t), Value: float64(t.Unix()), Label: MonthLabel(t)})
	}
	for _, v := range NiceTicks(0, max, YTickCount) {
		c.YTicks = append(c.YTicks, Tick{Pos: y.At(v), Value: v, Label: formatValue(v)})
	}
	return c
}

// TooltipText is the hover caption of one bar, e.g. "20 new cases on March 02".
func TooltipText(p model.Point, m model.Metric) string {
	return strconv.FormatFloat(math.Round(p.Y), 'f', 0, 64) + m.HoverText() + p.X.Format(TooltipDateLayout)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
