package models

import (
	"time"

	"state-gridmap/internal/overlay"
)

// StatusResponse describes the latest committed load generation.
type StatusResponse struct {
	Status     string     `json:"status"`
	Generation uint64     `json:"generation"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	States     int        `json:"states"`
	Error      string     `json:"error,omitempty"`
}

// MetricInfo represents one selectable metric.
type MetricInfo struct {
	Value     string `json:"value"`
	AxisLabel string `json:"axis_label"`
}

// OverlayResponse is the detail chart of one state.
type OverlayResponse struct {
	Generation uint64        `json:"generation"`
	Chart      overlay.Chart `json:"chart"`
}

// ReloadResponse reports the outcome of a forced reload.
type ReloadResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
