package overlay

import (
	"math"
	"time"

	"state-gridmap/internal/model"
)

// TimeScale maps dates in [Min, Max] linearly onto [R0, R1].
type TimeScale struct {
	Min, Max time.Time
	R0, R1   float64
}

func (s TimeScale) At(t time.Time) float64 {
	span := s.Max.Sub(s.Min)
	if span <= 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + float64(t.Sub(s.Min))/float64(span)*(s.R1-s.R0)
}

// LinearScale maps [D0, D1] linearly onto [R0, R1].
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

func (s LinearScale) At(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Extent returns the earliest and latest dates of points.
func Extent(points []model.Point) (time.Time, time.Time) {
	var lo, hi time.Time
	for i, p := range points {
		if i == 0 || p.X.Before(lo) {
			lo = p.X
		}
		if i == 0 || p.X.After(hi) {
			hi = p.X
		}
	}
	return lo, hi
}

// MaxY returns the largest value of points, or 0 when there are none.
func MaxY(points []model.Point) float64 {
	m := 0.0
	for i, p := range points {
		if i == 0 || p.Y > m {
			m = p.Y
		}
	}
	return m
}

// Tick is one labelled axis position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// NiceTicks returns roughly count round values covering [start, stop].
func NiceTicks(start, stop float64, count int) []float64 {
	if count <= 0 || stop < start {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	inc := tickIncrement(start, stop, count)
	if inc <= 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}
	lo := math.Ceil(start / inc)
	hi := math.Floor(stop / inc)
	out := make([]float64, 0, int(hi-lo)+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i*inc)
	}
	return out
}

func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= math.Sqrt(50):
		factor = 10
	case e >= math.Sqrt(10):
		factor = 5
	case e >= math.Sqrt(2):
		factor = 2
	}
	return factor * math.Pow(10, power)
}

var monthSteps = []int{1, 2, 3, 6, 12}

// MonthTicks returns first-of-month dates within [lo, hi], thinned to at most max ticks
// by stepping 1, 2, 3, 6 or 12 months.
func MonthTicks(lo, hi time.Time, max int) []time.Time {
	if hi.Before(lo) || max <= 0 {
		return nil
	}
	first := time.Date(lo.Year(), lo.Month(), 1, 0, 0, 0, 0, lo.Location())
	if first.Before(lo) {
		first = first.AddDate(0, 1, 0)
	}
	var all []time.Time
	for t := first; !t.After(hi); t = t.AddDate(0, 1, 0) {
		all = append(all, t)
	}
	for _, step := range monthSteps {
		var out []time.Time
		for _, t := range all {
			if (int(t.Month())-1)%step == 0 {
				out = append(out, t)
			}
		}
		if len(out) <= max {
			return out
		}
	}
	var out []time.Time
	for _, t := range all {
		if t.Month() == time.January {
			out = append(out, t)
		}
	}
	return out
}

// MonthLabel labels January ticks with the year and other months with their name.
func MonthLabel(t time.Time) string {
	if t.Month() == time.January {
		return t.Format("2006")
	}
	return t.Format("January")
}
