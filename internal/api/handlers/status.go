package handlers

import (
	"context"
	"errors"
	"net/http"

	"state-gridmap/internal/api/models"
	"state-gridmap/internal/loader"
	"state-gridmap/internal/model"

	"github.com/gin-gonic/gin"
)

// ListMetrics handles GET /api/v1/metrics
func ListMetrics(c *gin.Context) {
	metrics := make([]models.MetricInfo, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		metrics = append(metrics, models.MetricInfo{Value: string(m), AxisLabel: m.AxisLabel()})
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// Status handles GET /api/v1/status
func (h *MapHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse(h.loader.Current()))
}

// Reload handles POST /api/v1/reload. Cached assets are dropped first so the new
// generation reads the source.
func (h *MapHandler) Reload(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context())
	}
	snap, err := h.loader.Load(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.ReloadResponse{Status: loader.StatusReady.String(), Generation: snap.Generation})
	case errors.Is(err, loader.ErrSuperseded):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SUPERSEDED", Message: err.Error()},
		})
	default:
		st := h.loader.Current()
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ASSETS_LOAD_FAILED",
				Message: err.Error(),
				Details: map[string]interface{}{"generation": st.Generation},
			},
		})
	}
}

// Ready handles GET /readyz
func (h *MapHandler) Ready(c *gin.Context) {
	if err := h.loader.CheckReadiness(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// WarmUp runs the first load generation; callers usually start it in a goroutine.
func (h *MapHandler) WarmUp(ctx context.Context) {
	if _, err := h.loader.Load(ctx); err != nil {
		h.log.Warn("initial load failed", "error", err)
	}
}

func statusResponse(st loader.State) models.StatusResponse {
	resp := models.StatusResponse{
		Status:     st.Status.String(),
		Generation: st.Generation,
	}
	if st.Snapshot != nil {
		t := st.Snapshot.LoadedAt
		resp.LoadedAt = &t
		resp.States = len(st.Snapshot.Series)
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}
