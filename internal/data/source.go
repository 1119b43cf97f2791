package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source fetches a named static asset.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads assets from a directory on disk.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", name, err)
	}
	return raw, nil
}

// NewSource picks an HTTP source for http(s) bases and a directory source otherwise.
// timeout and maxBytes only apply to HTTP sources.
func NewSource(base string, timeout time.Duration, maxBytes int64) Source {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPSource(base, timeout, maxBytes)
	}
	if base == "" {
		base = "."
	}
	return DirSource{Dir: base}
}
