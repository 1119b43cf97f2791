package model

// Metric is one of the user-selectable series kinds.
// Keep these values stable; they are the option values of the metric select and the API.
type Metric string

const (
	MetricNewCases         Metric = "Daily New Cases"
	MetricNewDeaths        Metric = "Daily New Deaths"
	MetricHospitalizations Metric = "Current Hospitalizations"
)

// Metrics lists the options in the order they are offered to the user.
var Metrics = []Metric{MetricNewCases, MetricNewDeaths, MetricHospitalizations}

// ParseMetric maps a control value onto a Metric. Unknown or empty values fall back to
// the first option, which is what an untouched select reports.
func ParseMetric(s string) Metric {
	for _, m := range Metrics {
		if string(m) == s {
			return m
		}
	}
	return MetricNewCases
}

func (m Metric) String() string { return string(m) }

// AxisLabel is the y-axis caption of the detail chart.
func (m Metric) AxisLabel() string {
	switch m {
	case MetricNewDeaths:
		return "Daily New Deaths"
	case MetricHospitalizations:
		return "Patients Hospitalized"
	default:
		return "Daily New Cases"
	}
}

// HoverText is placed between the value and the date in bar tooltips.
func (m Metric) HoverText() string {
	switch m {
	case MetricNewDeaths:
		return " new deaths on "
	case MetricHospitalizations:
		return " patients in the hospital on "
	default:
		return " new cases on "
	}
}
