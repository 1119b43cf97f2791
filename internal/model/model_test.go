package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	assert.Equal(t, MetricNewDeaths, ParseMetric("Daily New Deaths"))
	assert.Equal(t, MetricHospitalizations, ParseMetric("Current Hospitalizations"))
	assert.Equal(t, MetricNewCases, ParseMetric(""))
	assert.Equal(t, MetricNewCases, ParseMetric("daily new deaths"), "matching is exact")
}

func TestMetricText(t *testing.T) {
	assert.Equal(t, "Patients Hospitalized", MetricHospitalizations.AxisLabel())
	assert.Equal(t, "Daily New Cases", MetricNewCases.AxisLabel())
	assert.Equal(t, " new deaths on ", MetricNewDeaths.HoverText())
	assert.Equal(t, " patients in the hospital on ", MetricHospitalizations.HoverText())
}

func TestColorTable_Lookup(t *testing.T) {
	table := ColorTable{
		{State: "Texas", Color: "#ff0000"},
		{State: "Ohio", Color: "#00ff00"},
		{State: "Texas", Color: "#0000ff"},
	}

	c, ok := table.Lookup("Texas")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", c, "first entry wins")

	for _, e := range table[:2] {
		got, ok := table.Lookup(e.State)
		require.True(t, ok)
		assert.Equal(t, e.Color, got)
	}

	_, ok = table.Lookup("texas")
	assert.False(t, ok)
}

func TestFilterPublication_KeepsOrder(t *testing.T) {
	entries := []PublicationEntry{
		{Code: "WA", Publication: "npr"},
		{Code: "OR", Publication: "compact"},
		{Code: "CA", Publication: "npr"},
	}
	got := FilterPublication(entries, "npr")
	require.Len(t, got, 2)
	assert.Equal(t, "WA", got[0].Code)
	assert.Equal(t, "CA", got[1].Code)
	assert.Empty(t, FilterPublication(entries, "missing"))
}

func TestDate_JSON(t *testing.T) {
	var r TimeSeriesRecord
	raw := `{"state":"Ohio","dates":["2020-03-01","2020-03-02"],"hospDates":["2020-03-02"],
		"new_cases":[1,2],"new_deaths":[0,1],"new_hospitalizations":[5],
		"avg_cases":[1,1.5],"avg_deaths":[0,0.5],"avg_hospitalizations":[5]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, "Ohio", r.State)
	require.Len(t, r.Dates, 2)
	assert.Equal(t, NewDate(2020, time.March, 2), r.Dates[1])

	dates, values := r.Raw(MetricHospitalizations)
	assert.Equal(t, r.HospDates, dates)
	assert.Equal(t, []float64{5}, values)

	_, smoothed := r.Smoothed(MetricNewDeaths)
	assert.Equal(t, []float64{0, 0.5}, smoothed)

	out, err := json.Marshal(r.Dates[0])
	require.NoError(t, err)
	assert.Equal(t, `"2020-03-01"`, string(out))
}

func TestDate_RejectsBadInput(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"03/01/2020"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20200301`), &d))
}
