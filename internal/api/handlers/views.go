package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"state-gridmap/internal/api/models"
	"state-gridmap/internal/data"
	"state-gridmap/internal/loader"
	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
	"state-gridmap/internal/render"
	"state-gridmap/internal/scene"

	"github.com/gin-gonic/gin"
)

// Scene handles GET /api/v1/scene
func (h *MapHandler) Scene(c *gin.Context) {
	var req models.ViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	snap, ok := h.readySnapshot(c)
	if !ok {
		return
	}
	sc, ok := h.buildScene(c, snap, req)
	if !ok {
		return
	}
	if req.State != "" {
		sc.OpenOverlay(req.State)
	}
	h.countRender("scene")
	c.JSON(http.StatusOK, sc)
}

// Overlay handles GET /api/v1/overlay
func (h *MapHandler) Overlay(c *gin.Context) {
	chart, snap, ok := h.overlayChart(c)
	if !ok {
		return
	}
	h.countRender("overlay")
	c.JSON(http.StatusOK, models.OverlayResponse{Generation: snap.Generation, Chart: chart})
}

// OverlayCSV handles GET /api/v1/overlay.csv
func (h *MapHandler) OverlayCSV(c *gin.Context) {
	chart, _, ok := h.overlayChart(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := data.WriteDatasetCSV(&buf, chart.Points); err != nil {
		renderError(c, err)
		return
	}
	h.countRender("csv")
	c.Header("Content-Disposition", `attachment; filename="`+chart.State+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// OverlayPNG handles GET /api/v1/overlay.png
func (h *MapHandler) OverlayPNG(c *gin.Context) {
	var img models.ImageRequest
	_ = c.ShouldBindQuery(&img)
	chart, _, ok := h.overlayChart(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.OverlayPNG(&buf, chart, imageSize(img.ImageWidth, 900), imageSize(img.ImageHeight, 450)); err != nil {
		renderError(c, err)
		return
	}
	h.countRender("png")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Sparkline handles GET /api/v1/states/:state/sparkline.svg
func (h *MapHandler) Sparkline(c *gin.Context) {
	var img models.ImageRequest
	_ = c.ShouldBindQuery(&img)
	snap, ok := h.readySnapshot(c)
	if !ok {
		return
	}
	state := c.Param("state")
	rec, err := overlay.Find(snap.Series, state)
	if err != nil {
		notFound(c, state)
		return
	}
	color, found := snap.Colors.Lookup(state)
	if !found {
		color = scene.NeutralColor
	}
	points := overlay.SmoothedDataset(*rec, model.ParseMetric(img.Metric))

	var buf bytes.Buffer
	if err := render.SparklineSVG(&buf, points, color, imageSize(img.ImageWidth, 120), imageSize(img.ImageHeight, 40)); err != nil {
		renderError(c, err)
		return
	}
	h.countRender("sparkline")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (h *MapHandler) overlayChart(c *gin.Context) (overlay.Chart, *loader.Snapshot, bool) {
	var req models.ViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return overlay.Chart{}, nil, false
	}
	if req.State == "" {
		badRequest(c, "MISSING_PARAM", "state query parameter is required")
		return overlay.Chart{}, nil, false
	}
	snap, ok := h.readySnapshot(c)
	if !ok {
		return overlay.Chart{}, nil, false
	}
	if _, err := overlay.Find(snap.Series, req.State); err != nil {
		notFound(c, req.State)
		return overlay.Chart{}, nil, false
	}
	sc, ok := h.buildScene(c, snap, req)
	if !ok {
		return overlay.Chart{}, nil, false
	}
	return *sc.OpenOverlay(req.State), snap, true
}

func (h *MapHandler) buildScene(c *gin.Context, snap *loader.Snapshot, req models.ViewRequest) (*scene.Scene, bool) {
	sc, err := scene.Build(inputs(snap), model.ParseMetric(req.Metric), h.viewport(req))
	if err != nil {
		code := "RENDER_ERROR"
		if errors.Is(err, scene.ErrNoPublication) {
			code = "NO_PUBLICATION"
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return nil, false
	}
	return sc, true
}

// readySnapshot writes a 503 unless a generation has loaded successfully.
func (h *MapHandler) readySnapshot(c *gin.Context) (*loader.Snapshot, bool) {
	st := h.loader.Current()
	switch st.Status {
	case loader.StatusReady:
		return st.Snapshot, true
	case loader.StatusFailed:
		detail := models.ErrorDetail{Code: "ASSETS_LOAD_FAILED", Message: st.Err.Error()}
		var le *loader.LoadError
		if errors.As(st.Err, &le) {
			detail.Details = map[string]interface{}{"asset": le.Asset, "generation": st.Generation}
		}
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: detail})
	default:
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "ASSETS_NOT_READY", Message: "assets are still loading"},
		})
	}
	return nil, false
}

func imageSize(v, def int) int {
	if v <= 0 || v > 4000 {
		return def
	}
	return v
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

func notFound(c *gin.Context, state string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "STATE_NOT_FOUND",
			Message: "no time series for state " + state,
		},
	})
}

func renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "RENDER_ERROR"
	if errors.Is(err, render.ErrTooFewPoints) {
		status = http.StatusUnprocessableEntity
		code = "TOO_FEW_POINTS"
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
