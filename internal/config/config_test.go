package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_PORT", "API_ENV", "CORS_ORIGINS", "ASSETS_BASE", "REDIS_ADDR",
		"LOG_LEVEL", "LOG_FORMAT", "CACHE_TTL", "ASSETS_TIMEOUT", "RELOAD_ON_RENDER",
		"ASSETS_MAX_BYTES",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./static", cfg.Assets.Base)
	assert.Equal(t, "USStateColors.csv", cfg.Assets.Colors)
	assert.Equal(t, "result.json", cfg.Assets.Series)
	assert.Equal(t, 1280.0, cfg.Viewport.Width)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, int64(32<<20), cfg.Assets.MaxBytes)
	assert.True(t, cfg.ReloadOnRender())
	assert.False(t, cfg.Production())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: "9090"
  cors_origins: ["https://maps.example.com"]
assets:
  base: https://cdn.example.com/gridmap
  reload_on_render: false
  max_bytes: 1048576
viewport:
  width: 960
cache:
  ttl: 1m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://maps.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://cdn.example.com/gridmap", cfg.Assets.Base)
	assert.Equal(t, "links.csv", cfg.Assets.Links, "unset fields keep defaults")
	assert.Equal(t, int64(1<<20), cfg.Assets.MaxBytes)
	assert.Equal(t, 960.0, cfg.Viewport.Width)
	assert.Equal(t, 800.0, cfg.Viewport.Height)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.ReloadOnRender())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: \"9090\"\n")
	t.Setenv("API_PORT", "7070")
	t.Setenv("API_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RELOAD_ON_RENDER", "false")
	t.Setenv("ASSETS_MAX_BYTES", "2048")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, int64(2048), cfg.Assets.MaxBytes)
	assert.False(t, cfg.ReloadOnRender())
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CACHE_TTL", "soon"},
		{"CACHE_TTL", "-1s"},
		{"ASSETS_TIMEOUT", "0s"},
		{"RELOAD_ON_RENDER", "maybe"},
		{"ASSETS_MAX_BYTES", "lots"},
		{"ASSETS_MAX_BYTES", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	bad := Defaults()
	bad.Server.Port = "http"
	assert.Error(t, bad.Validate())

	bad = Defaults()
	bad.Assets.Grid = ""
	assert.ErrorContains(t, bad.Validate(), "assets.grid")

	bad = Defaults()
	bad.Assets.MaxBytes = 0
	assert.ErrorContains(t, bad.Validate(), "assets.max_bytes")

	bad = Defaults()
	bad.Viewport.Height = -1
	assert.Error(t, bad.Validate())

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
