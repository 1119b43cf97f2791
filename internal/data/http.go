package data

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"state-gridmap/internal/logger"
)

// DefaultMaxAssetBytes caps a single asset body when no limit is configured.
const DefaultMaxAssetBytes int64 = 32 << 20

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	// MaxBytes is the largest body accepted per asset.
	MaxBytes int64
}

// NewHTTPSource creates a source for baseURL. A zero timeout defaults to 30s and a zero
// maxBytes to DefaultMaxAssetBytes.
func NewHTTPSource(baseURL string, timeout time.Duration, maxBytes int64) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAssetBytes
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		MaxBytes: maxBytes,
	}
}

// FetchError represents a non-success response from the asset host.
type FetchError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *FetchError) Error() string {
	return e.Message
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.Parse(s.BaseURL + "/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log := logger.L().With(slog.String("component", "assets"), slog.String("asset", name))

	start := time.Now()
	resp, err := s.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Warn("request failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("response", "status", resp.StatusCode, "duration", duration)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "ASSET_NOT_FOUND",
			Message:    fmt.Sprintf("asset %s not found at %s", name, s.BaseURL),
		}
	default:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "ASSET_HOST_ERROR",
			Message:    fmt.Sprintf("asset host returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxAssetBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(raw)) > limit {
		log.Warn("asset too large", "limit", limit)
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "ASSET_TOO_LARGE",
			Message:    fmt.Sprintf("asset %s exceeds %d bytes", name, limit),
		}
	}
	return raw, nil
}
