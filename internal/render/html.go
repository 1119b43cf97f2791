// Package render draws scenes: the interactive HTML/SVG page, chart images for the API
// and a terminal rendition for the CLI.
package render

import (
	"html/template"
	"io"
	"net/url"
	"strconv"

	"state-gridmap/internal/grid"
	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
	"state-gridmap/internal/scene"
)

var funcMap = template.FuncMap{
	"num":  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"half": func(v float64) float64 { return v / 2 },
	"neg":  func(v float64) float64 { return -v },
	"add":  func(a, b float64) float64 { return a + b },
	"sub":  func(a, b float64) float64 { return a - b },
	"mul":  func(a, b float64) float64 { return a * b },
}

var pageTemplate = template.Must(template.New("page").Funcs(funcMap).Parse(pageTmpl))

// PageData is everything the page template needs. Scene is nil while nothing has loaded.
type PageData struct {
	Title    string
	Metric   model.Metric
	Metrics  []model.Metric
	Viewport scene.Viewport
	Scene    *scene.Scene

	Pending  bool
	Failed   bool
	Error    string
	LoadedAt string

	Margin       int
	MiniOpacity  float64
	RestOpacity  float64
	HoverOpacity float64
}

// NewPageData fills in the constant parts of a page.
func NewPageData(m model.Metric, vp scene.Viewport, sc *scene.Scene) *PageData {
	return &PageData{
		Title:        "State Grid Map",
		Metric:       m,
		Metrics:      model.Metrics,
		Viewport:     vp,
		Scene:        sc,
		Margin:       grid.Margin,
		MiniOpacity:  scene.MiniFillOpacity,
		RestOpacity:  overlay.RestOpacity,
		HoverOpacity: overlay.HoverOpacity,
	}
}

// StateURL opens the overlay for state, keeping metric and viewport.
func (p *PageData) StateURL(state string) string {
	q := p.query()
	q.Set("state", state)
	return "/?" + q.Encode()
}

// CloseURL is the same page with no overlay open.
func (p *PageData) CloseURL() string {
	return "/?" + p.query().Encode()
}

// ToggleURL is the link a state's tile carries: it closes the overlay when state is the
// open one and opens state otherwise.
func (p *PageData) ToggleURL(state string) string {
	if p.IsOpen(state) {
		return p.CloseURL()
	}
	return p.StateURL(state)
}

// IsOpen reports whether state's overlay is the open one.
func (p *PageData) IsOpen(state string) bool {
	return p.Scene != nil && p.Scene.Overlay != nil && p.Scene.Overlay.State == state
}

func (p *PageData) query() url.Values {
	q := url.Values{}
	q.Set("metric", string(p.Metric))
	q.Set("w", strconv.FormatFloat(p.Viewport.Width, 'f', -1, 64))
	q.Set("h", strconv.FormatFloat(p.Viewport.Height, 'f', -1, 64))
	return q
}

// Page writes the full HTML document.
func Page(w io.Writer, p *PageData) error {
	return pageTemplate.Execute(w, p)
}
