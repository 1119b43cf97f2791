package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"state-gridmap/internal/api/models"
	"state-gridmap/internal/loader"
	"state-gridmap/internal/model"
	"state-gridmap/internal/observability"
	"state-gridmap/internal/render"
	"state-gridmap/internal/scene"

	"github.com/gin-gonic/gin"
)

const maxViewport = 10000

// Invalidator drops cached assets before a forced reload.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// MapHandler serves the map page and its API views from the loader's snapshots.
type MapHandler struct {
	loader         *loader.Loader
	cache          Invalidator
	metrics        *observability.Metrics
	log            *slog.Logger
	defaultVP      scene.Viewport
	reloadOnRender bool
}

// MapOptions configures a MapHandler.
type MapOptions struct {
	Cache          Invalidator
	Metrics        *observability.Metrics
	Logger         *slog.Logger
	Viewport       scene.Viewport
	ReloadOnRender bool
}

// NewMapHandler creates a new map handler
func NewMapHandler(l *loader.Loader, opts MapOptions) *MapHandler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &MapHandler{
		loader:         l,
		cache:          opts.Cache,
		metrics:        opts.Metrics,
		log:            log.With(slog.String("component", "map")),
		defaultVP:      opts.Viewport,
		reloadOnRender: opts.ReloadOnRender,
	}
}

// Page handles GET /
func (h *MapHandler) Page(c *gin.Context) {
	var req models.ViewRequest
	_ = c.ShouldBindQuery(&req)

	m := model.ParseMetric(req.Metric)
	vp := h.viewport(req)
	page := render.NewPageData(m, vp, nil)

	status := http.StatusOK
	st := h.state(c.Request.Context())
	switch st.Status {
	case loader.StatusPending:
		page.Pending = true
	case loader.StatusFailed:
		page.Failed = true
		page.Error = st.Err.Error()
		status = http.StatusServiceUnavailable
	case loader.StatusReady:
		sc, err := scene.Build(inputs(st.Snapshot), m, vp)
		if err != nil {
			page.Failed = true
			page.Error = err.Error()
			status = http.StatusServiceUnavailable
			break
		}
		if req.State != "" {
			sc.OpenOverlay(req.State)
		}
		page.Scene = sc
		page.LoadedAt = st.Snapshot.LoadedAt.Format("Jan 2 15:04:05")
	}

	h.countRender("page")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := render.Page(c.Writer, page); err != nil {
		h.log.Error("page render failed", "error", err)
	}
}

// state returns the snapshot this request renders from. With reload-on-render every
// request starts a new generation; a superseded one defers to whatever is current.
func (h *MapHandler) state(ctx context.Context) loader.State {
	if h.reloadOnRender {
		if _, err := h.loader.Load(ctx); err != nil && !errors.Is(err, loader.ErrSuperseded) {
			h.log.Debug("load for render failed", "error", err)
		}
	}
	return h.loader.Current()
}

func (h *MapHandler) viewport(req models.ViewRequest) scene.Viewport {
	vp := h.defaultVP
	if req.Width > 0 && req.Width <= maxViewport {
		vp.Width = req.Width
	}
	if req.Height > 0 && req.Height <= maxViewport {
		vp.Height = req.Height
	}
	return vp
}

func (h *MapHandler) countRender(view string) {
	if h.metrics != nil {
		h.metrics.Renders.WithLabelValues(view).Inc()
	}
}

func inputs(s *loader.Snapshot) scene.Inputs {
	return scene.Inputs{
		Colors: s.Colors,
		Grid:   s.Grid,
		Links:  s.Links,
		Series: s.Series,
	}
}
