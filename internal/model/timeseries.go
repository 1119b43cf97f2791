package model

import "time"

// DateLayout is the layout of every date string in the time-series document.
const DateLayout = "2006-01-02"

// TimeSeriesRecord is one state's entry in the time-series document.
//
// Example:
//
//	{
//	  "state": "California",
//	  "dates": ["2020-03-01", "2020-03-02"],
//	  "new_cases": [10, 20],
//	  ...
//	}
//
// new_cases, new_deaths, avg_cases and avg_deaths are aligned by index to dates;
// new_hospitalizations and avg_hospitalizations are aligned to hospDates.
type TimeSeriesRecord struct {
	State string `json:"state"`

	Dates     []Date `json:"dates"`
	HospDates []Date `json:"hospDates"`

	NewCases            []float64 `json:"new_cases"`
	NewDeaths           []float64 `json:"new_deaths"`
	NewHospitalizations []float64 `json:"new_hospitalizations"`

	AvgCases            []float64 `json:"avg_cases"`
	AvgDeaths           []float64 `json:"avg_deaths"`
	AvgHospitalizations []float64 `json:"avg_hospitalizations"`
}

// Raw returns the unsmoothed series for m together with the dates it is aligned to.
func (r TimeSeriesRecord) Raw(m Metric) ([]Date, []float64) {
	switch m {
	case MetricNewDeaths:
		return r.Dates, r.NewDeaths
	case MetricHospitalizations:
		return r.HospDates, r.NewHospitalizations
	default:
		return r.Dates, r.NewCases
	}
}

// Smoothed returns the averaged series for m together with the dates it is aligned to.
func (r TimeSeriesRecord) Smoothed(m Metric) ([]Date, []float64) {
	switch m {
	case MetricNewDeaths:
		return r.Dates, r.AvgDeaths
	case MetricHospitalizations:
		return r.HospDates, r.AvgHospitalizations
	default:
		return r.Dates, r.AvgCases
	}
}

// Date is a calendar day encoded as "YYYY-MM-DD" in JSON.
type Date struct {
	time.Time
}

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: DateLayout, Value: s, Message: ": date must be a string"}
	}
	t, err := time.Parse(DateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// Point is one (date, value) pair of a chart dataset.
type Point struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}
