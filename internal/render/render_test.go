package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
	"state-gridmap/internal/scene"
)

var vp = scene.Viewport{Width: 1000, Height: 800}

func testScene(t *testing.T, m model.Metric) *scene.Scene {
	t.Helper()
	dates := []model.Date{model.NewDate(2020, 3, 1), model.NewDate(2020, 3, 2), model.NewDate(2020, 3, 3)}
	in := scene.Inputs{
		Colors: model.ColorTable{{State: "California", Color: "#1f77b4"}},
		Grid: []model.PublicationEntry{
			{Code: "CA", State: "California", Row: 4, Col: 1, Publication: "npr"},
			{Code: "HI", State: "Hawaii", Row: 8, Col: 1, Publication: "npr"},
		},
		Links: []model.Link{{Publication: "npr"}},
		Series: []model.TimeSeriesRecord{{
			State: "California", Dates: dates,
			NewCases: []float64{10, 20, 30}, NewDeaths: []float64{0, 1, 2},
			AvgCases: []float64{10, 15, 20}, AvgDeaths: []float64{0, 0.5, 1},
		}},
	}
	sc, err := scene.Build(in, m, vp)
	require.NoError(t, err)
	return sc
}

func renderPage(t *testing.T, p *PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, p))
	return buf.String()
}

func TestPage_Grid(t *testing.T) {
	html := renderPage(t, NewPageData(model.MetricNewCases, vp, testScene(t, model.MetricNewCases)))

	assert.Contains(t, html, `id="selectButton"`)
	assert.Contains(t, html, `<option value="Daily New Deaths"`)
	assert.Contains(t, html, `class="gridlines"`)
	assert.Equal(t, 13*8, strings.Count(html, `class="cell"`))
	assert.Equal(t, 1, strings.Count(html, `class="mini CA"`))
	assert.NotContains(t, html, `class="mini HI"`)
	assert.Contains(t, html, "state=California")
	assert.NotContains(t, html, `id="myModal"`)
	assert.NotContains(t, html, `role="alert"`)
}

func TestPage_OverlayOpen(t *testing.T) {
	sc := testScene(t, model.MetricNewCases)
	sc.OpenOverlay("Hawaii")
	sc.OpenOverlay("California")
	p := NewPageData(model.MetricNewCases, vp, sc)
	html := renderPage(t, p)

	assert.Equal(t, 1, strings.Count(html, `id="myModal"`))
	assert.Equal(t, 3, strings.Count(html, `class="bar"`))
	assert.Contains(t, html, "30 new cases on March 03")
	assert.Contains(t, html, "Daily New Cases</text>")
	assert.Contains(t, html, `class="state CA active"`)
	assert.NotContains(t, html, "No data for")

	assert.NotContains(t, p.CloseURL(), "state=")
	assert.Equal(t, 2, strings.Count(html, `aria-label="Close"`))
}

func TestPage_OpenStateLinksToggleClosed(t *testing.T) {
	sc := testScene(t, model.MetricNewCases)
	sc.OpenOverlay("California")
	p := NewPageData(model.MetricNewCases, vp, sc)
	html := renderPage(t, p)

	assert.NotContains(t, html, "state=California")
	assert.Contains(t, html, "state=Hawaii")
	assert.Equal(t, p.CloseURL(), p.ToggleURL("California"))
	assert.Equal(t, p.StateURL("Hawaii"), p.ToggleURL("Hawaii"))
}

func TestPage_OverlayWithoutData(t *testing.T) {
	sc := testScene(t, model.MetricNewCases)
	sc.OpenOverlay("Hawaii")
	html := renderPage(t, NewPageData(model.MetricNewCases, vp, sc))

	assert.Contains(t, html, "No data for Hawaii.")
	assert.Equal(t, 0, strings.Count(html, `class="bar"`))
}

func TestPage_Failed(t *testing.T) {
	p := NewPageData(model.MetricNewCases, vp, nil)
	p.Failed = true
	p.Error = "load result.json: not found"
	html := renderPage(t, p)

	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "load result.json: not found")
	assert.NotContains(t, html, `class="gridmap"`)
}

func TestPage_PendingRefreshes(t *testing.T) {
	p := NewPageData(model.MetricNewCases, vp, nil)
	p.Pending = true
	html := renderPage(t, p)

	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.Contains(t, html, `role="status"`)
}

func TestPageData_URLs(t *testing.T) {
	p := NewPageData(model.MetricNewDeaths, scene.Viewport{Width: 640, Height: 480}, nil)
	assert.Equal(t, "/?h=480&metric=Daily+New+Deaths&state=New+York&w=640", p.StateURL("New York"))
	assert.Equal(t, "/?h=480&metric=Daily+New+Deaths&w=640", p.CloseURL())
	assert.False(t, p.IsOpen("New York"))
	assert.Equal(t, p.StateURL("New York"), p.ToggleURL("New York"))
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, ParseColor("#1f77b4"))
	assert.Equal(t, drawing.Color{R: 0xff, G: 0x00, B: 0xcc, A: 255}, ParseColor("#f0c"))
	assert.Equal(t, neutralGray, ParseColor("steelblue"))
	assert.Equal(t, neutralGray, ParseColor("#zzzzzz"))
}

func TestOverlayPNG(t *testing.T) {
	c := testScene(t, model.MetricNewCases).OpenOverlay("California")

	var buf bytes.Buffer
	require.NoError(t, OverlayPNG(&buf, *c, 600, 300))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestOverlayPNG_TooFewPoints(t *testing.T) {
	c := overlay.Chart{Points: []model.Point{{X: time.Now(), Y: 1}}}
	assert.ErrorIs(t, OverlayPNG(&bytes.Buffer{}, c, 600, 300), ErrTooFewPoints)
}

func TestSparklineSVG(t *testing.T) {
	points := []model.Point{
		{X: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), Y: 1},
		{X: time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), Y: 4},
		{X: time.Date(2020, 3, 3, 0, 0, 0, 0, time.UTC), Y: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, SparklineSVG(&buf, points, "#1f77b4", 120, 40))
	assert.Contains(t, buf.String(), "<svg")
}

func TestTerminal(t *testing.T) {
	out := Terminal(testScene(t, model.MetricNewCases))

	assert.Contains(t, out, "Daily New Cases (npr)")
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "HI?")
	assert.Contains(t, out, "no time series")
}
