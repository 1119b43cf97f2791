package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"state-gridmap/internal/api/handlers"
	"state-gridmap/internal/api/middleware"
	"state-gridmap/internal/config"
	"state-gridmap/internal/data"
	"state-gridmap/internal/loader"
	"state-gridmap/internal/logger"
	"state-gridmap/internal/observability"
	"state-gridmap/internal/scene"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("GRIDMAP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	cache := newAssetCache(ctx, cfg, log)
	cache.OnLookup = func(result string) {
		metrics.AssetCacheLookups.WithLabelValues(result).Inc()
	}

	ld := loader.New(cache, loader.Assets{
		Colors: cfg.Assets.Colors,
		Grid:   cfg.Assets.Grid,
		Links:  cfg.Assets.Links,
		Series: cfg.Assets.Series,
	}, loader.WithMetrics(metrics), loader.WithLogger(log.With(slog.String("component", "loader"))))

	mapHandler := handlers.NewMapHandler(ld, handlers.MapOptions{
		Cache:          cache,
		Metrics:        metrics,
		Logger:         log,
		Viewport:       scene.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		ReloadOnRender: cfg.ReloadOnRender(),
	})
	go mapHandler.WarmUp(ctx)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", mapHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", mapHandler.Page)

	api := router.Group("/api/v1")
	{
		api.GET("/metrics", handlers.ListMetrics)
		api.GET("/scene", mapHandler.Scene)
		api.GET("/overlay", mapHandler.Overlay)
		api.GET("/overlay.csv", mapHandler.OverlayCSV)
		api.GET("/overlay.png", mapHandler.OverlayPNG)
		api.GET("/states/:state/sparkline.svg", mapHandler.Sparkline)
		api.GET("/status", mapHandler.Status)
		api.POST("/reload", mapHandler.Reload)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting API server", "addr", srv.Addr, "assets", cfg.Assets.Base)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

// newAssetCache puts a cache in front of the configured source: Redis when an address
// is configured, otherwise an in-process TTL store swept in the background.
func newAssetCache(ctx context.Context, cfg *config.Config, log *slog.Logger) *data.CachedSource {
	src := data.NewSource(cfg.Assets.Base, cfg.Assets.Timeout, cfg.Assets.MaxBytes)

	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		err := client.Ping(ctx).Err()
		if err == nil {
			log.Info("asset cache: redis", "addr", cfg.Cache.RedisAddr)
			return data.NewCachedSource(src, data.NewRedisStore(client, "", cfg.Cache.TTL))
		}
		log.Warn("redis unavailable, using memory cache", "addr", cfg.Cache.RedisAddr, "error", err)
		_ = client.Close()
	}

	store := data.NewMemoryStore(cfg.Cache.TTL, clockwork.NewRealClock())
	if cfg.Cache.TTL > 0 {
		go store.RunSweeper(ctx, cfg.Cache.TTL)
	}
	return data.NewCachedSource(src, store)
}
