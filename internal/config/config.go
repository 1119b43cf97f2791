package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Every field may also come from the
// environment; environment values win over the file, the file wins over defaults.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Assets   AssetsConfig   `yaml:"assets"`
	Viewport ViewportConfig `yaml:"viewport"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port        string        `yaml:"port"`
	Env         string        `yaml:"env"`
	CORSOrigins []string      `yaml:"cors_origins"`
	Shutdown    time.Duration `yaml:"shutdown_timeout"`
}

type AssetsConfig struct {
	// Base is a directory or an http(s) URL the four assets are read from.
	Base    string        `yaml:"base"`
	Colors  string        `yaml:"colors"`
	Grid    string        `yaml:"grid"`
	Links   string        `yaml:"links"`
	Series  string        `yaml:"series"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxBytes caps each asset body read from an http(s) base.
	MaxBytes int64 `yaml:"max_bytes"`
	// ReloadOnRender starts a new load generation for every page request.
	ReloadOnRender *bool `yaml:"reload_on_render"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CacheConfig struct {
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	reload := true
	return Config{
		Server: ServerConfig{
			Port:     "8080",
			Env:      "development",
			Shutdown: 10 * time.Second,
		},
		Assets: AssetsConfig{
			Base:           "./static",
			Colors:         "USStateColors.csv",
			Grid:           "publication-grids.csv",
			Links:          "links.csv",
			Series:         "result.json",
			Timeout:        30 * time.Second,
			MaxBytes:       32 << 20,
			ReloadOnRender: &reload,
		},
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		Cache:    CacheConfig{TTL: 5 * time.Minute},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (optional), applies the environment and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked merges defaults, file and environment but does not validate.
// Useful for printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var file Config
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		c = Merge(c, file)
	}
	env, err := fromEnv()
	if err != nil {
		return nil, err
	}
	c = Merge(c, env)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if c.Assets.Base == "" {
		return errors.New("assets.base is required")
	}
	for name, v := range map[string]string{
		"assets.colors": c.Assets.Colors,
		"assets.grid":   c.Assets.Grid,
		"assets.links":  c.Assets.Links,
		"assets.series": c.Assets.Series,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.Assets.MaxBytes <= 0 {
		return errors.New("assets.max_bytes must be positive")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.New("viewport width and height must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	return nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool { return c.Server.Env == "production" }

// ReloadOnRender reports the effective reload policy.
func (c *Config) ReloadOnRender() bool {
	return c.Assets.ReloadOnRender == nil || *c.Assets.ReloadOnRender
}

func fromEnv() (Config, error) {
	var c Config
	c.Server.Port = os.Getenv("API_PORT")
	c.Server.Env = os.Getenv("API_ENV")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
	c.Assets.Base = os.Getenv("ASSETS_BASE")
	c.Cache.RedisAddr = os.Getenv("REDIS_ADDR")
	c.Log.Level = os.Getenv("LOG_LEVEL")
	c.Log.Format = os.Getenv("LOG_FORMAT")

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return c, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("ASSETS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return c, fmt.Errorf("invalid ASSETS_TIMEOUT %q", v)
		}
		c.Assets.Timeout = d
	}
	if v := os.Getenv("ASSETS_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return c, fmt.Errorf("invalid ASSETS_MAX_BYTES %q", v)
		}
		c.Assets.MaxBytes = n
	}
	if v := os.Getenv("RELOAD_ON_RENDER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("invalid RELOAD_ON_RENDER %q", v)
		}
		c.Assets.ReloadOnRender = &b
	}
	return c, nil
}

// Merge overlays non-zero fields from override onto base.
func Merge(base, override Config) Config {
	out := base

	if override.Server.Port != "" {
		out.Server.Port = override.Server.Port
	}
	if override.Server.Env != "" {
		out.Server.Env = override.Server.Env
	}
	if len(override.Server.CORSOrigins) > 0 {
		out.Server.CORSOrigins = override.Server.CORSOrigins
	}
	if override.Server.Shutdown != 0 {
		out.Server.Shutdown = override.Server.Shutdown
	}

	if override.Assets.Base != "" {
		out.Assets.Base = override.Assets.Base
	}
	if override.Assets.Colors != "" {
		out.Assets.Colors = override.Assets.Colors
	}
	if override.Assets.Grid != "" {
		out.Assets.Grid = override.Assets.Grid
	}
	if override.Assets.Links != "" {
		out.Assets.Links = override.Assets.Links
	}
	if override.Assets.Series != "" {
		out.Assets.Series = override.Assets.Series
	}
	if override.Assets.Timeout != 0 {
		out.Assets.Timeout = override.Assets.Timeout
	}
	if override.Assets.MaxBytes != 0 {
		out.Assets.MaxBytes = override.Assets.MaxBytes
	}
	if override.Assets.ReloadOnRender != nil {
		out.Assets.ReloadOnRender = override.Assets.ReloadOnRender
	}

	if override.Viewport.Width != 0 {
		out.Viewport.Width = override.Viewport.Width
	}
	if override.Viewport.Height != 0 {
		out.Viewport.Height = override.Viewport.Height
	}

	if override.Cache.TTL != 0 {
		out.Cache.TTL = override.Cache.TTL
	}
	if override.Cache.RedisAddr != "" {
		out.Cache.RedisAddr = override.Cache.RedisAddr
	}
	if override.Cache.RedisDB != 0 {
		out.Cache.RedisDB = override.Cache.RedisDB
	}

	if override.Log.Level != "" {
		out.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		out.Log.Format = override.Log.Format
	}
	return out
}
