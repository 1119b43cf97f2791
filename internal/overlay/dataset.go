package overlay

import (
	"errors"
	"fmt"

	"state-gridmap/internal/model"
)

// ErrStateNotFound is returned when no time-series record carries the requested name.
var ErrStateNotFound = errors.New("state not found")

// Find returns the first record whose state name matches exactly.
func Find(series []model.TimeSeriesRecord, state string) (*model.TimeSeriesRecord, error) {
	for i := range series {
		if series[i].State == state {
			return &series[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrStateNotFound, state)
}

// Dataset pairs the raw series of m with its dates. Its length is the length of the
// date sequence the metric is aligned to.
func Dataset(r model.TimeSeriesRecord, m model.Metric) []model.Point {
	dates, values := r.Raw(m)
	return zip(dates, values)
}

// SmoothedDataset is Dataset over the averaged series.
func SmoothedDataset(r model.TimeSeriesRecord, m model.Metric) []model.Point {
	dates, values := r.Smoothed(m)
	return zip(dates, values)
}

func zip(dates []model.Date, values []float64) []model.Point {
	out := make([]model.Point, 0, len(dates))
	for i, d := range dates {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		out = append(out, model.Point{X: d.Time, Y: v})
	}
	return out
}
