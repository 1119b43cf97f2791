package data

import (
	"encoding/json"
	"errors"
	"fmt"

	"state-gridmap/internal/model"
)

// IntegrityError reports a series whose length does not match the dates it is aligned to.
type IntegrityError struct {
	State string
	Field string
	Want  int
	Got   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("state %q: %s has %d values, want %d", e.State, e.Field, e.Got, e.Want)
}

// ParseTimeSeries decodes the time-series document and validates every record.
func ParseTimeSeries(raw []byte) ([]model.TimeSeriesRecord, error) {
	var records []model.TimeSeriesRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse time series: %w", err)
	}
	var errs []error
	for _, r := range records {
		if err := ValidateRecord(r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return records, nil
}

// ValidateRecord checks that every series is aligned to its date sequence.
func ValidateRecord(r model.TimeSeriesRecord) error {
	checks := []struct {
		field string
		want  int
		got   int
	}{
		{"new_cases", len(r.Dates), len(r.NewCases)},
		{"new_deaths", len(r.Dates), len(r.NewDeaths)},
		{"avg_cases", len(r.Dates), len(r.AvgCases)},
		{"avg_deaths", len(r.Dates), len(r.AvgDeaths)},
		{"new_hospitalizations", len(r.HospDates), len(r.NewHospitalizations)},
		{"avg_hospitalizations", len(r.HospDates), len(r.AvgHospitalizations)},
	}
	var errs []error
	for _, c := range checks {
		if c.want != c.got {
			errs = append(errs, &IntegrityError{State: r.State, Field: c.field, Want: c.want, Got: c.got})
		}
	}
	return errors.Join(errs...)
}
